package dom_test

import (
	"bytes"
	"strings"
	"testing"

	"sade/dom"
)

const htmlDoc = `<!DOCTYPE html>
<html>
<head><title>t</title></head>
<body>
<section id="hero" data-sads-component="hero" data-sads-bg-color="surface" data-sads-padding="l">
  <h2 data-sads-element="title" data-sads-text-color="text-primary">Hi</h2>
  <p>plain paragraph</p>
</section>
<div class="card" data-sads-shadow="m"></div>
</body>
</html>`

func parseHTML(t *testing.T, data string) dom.Document {
	t.Helper()
	doc, err := dom.ParseHTML(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	return doc
}

func TestParseHTML_StyledElements(t *testing.T) {
	doc := parseHTML(t, htmlDoc)

	els := doc.StyledElements()
	if len(els) != 3 {
		t.Fatalf("StyledElements() = %d elements, want 3", len(els))
	}

	// document order: section, h2, div
	if ref := els[0].Ref(); ref != "section#hero" {
		t.Errorf("els[0].Ref() = %q, want section#hero", ref)
	}
	if ref := els[1].Ref(); ref != "h2[element=title]" {
		t.Errorf("els[1].Ref() = %q, want h2[element=title]", ref)
	}
	if ref := els[2].Ref(); ref != "div" {
		t.Errorf("els[2].Ref() = %q, want div", ref)
	}
}

func TestHTMLElement_AttrsCamelCased(t *testing.T) {
	doc := parseHTML(t, htmlDoc)
	els := doc.StyledElements()

	attrs := els[0].SadsAttrs()
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Key)
	}
	want := []string{"component", "bgColor", "padding"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	if v, ok := els[0].SadsAttr("bgColor"); !ok || v != "surface" {
		t.Errorf("SadsAttr(bgColor) = %q, %v", v, ok)
	}
	if v, ok := els[1].SadsAttr("textColor"); !ok || v != "text-primary" {
		t.Errorf("SadsAttr(textColor) = %q, %v", v, ok)
	}
	if _, ok := els[0].SadsAttr("missing"); ok {
		t.Error("SadsAttr(missing) reported present")
	}
}

func TestHTMLElement_StyleID(t *testing.T) {
	doc := parseHTML(t, htmlDoc)
	els := doc.StyledElements()

	if _, ok := els[2].StyleID(); ok {
		t.Error("StyleID() found an ID on an unmarked element")
	}

	els[2].SetStyleID(4)
	if n, ok := els[2].StyleID(); !ok || n != 4 {
		t.Errorf("StyleID() = %d, %v after SetStyleID(4)", n, ok)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `class="card sads-id-4"`) {
		t.Errorf("rendered output missing marker class:\n%s", buf.String())
	}
}

func TestHTMLElement_ExistingStyleID(t *testing.T) {
	doc := parseHTML(t, `<html><body><div class="a sads-id-7 b" data-sads-padding="m"></div></body></html>`)
	els := doc.StyledElements()
	if len(els) != 1 {
		t.Fatalf("StyledElements() = %d, want 1", len(els))
	}
	if n, ok := els[0].StyleID(); !ok || n != 7 {
		t.Errorf("StyleID() = %d, %v, want 7, true", n, ok)
	}
}

func TestHTMLDocument_InjectStylesheet(t *testing.T) {
	doc := parseHTML(t, htmlDoc)

	doc.InjectStylesheet(".sads-id-1 {\n  padding: 1rem;\n}\n")

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `<style id="sads-rules">`) {
		t.Fatalf("rendered output missing managed style element:\n%s", out)
	}
	if !strings.Contains(out, "padding: 1rem;") {
		t.Errorf("rendered output missing injected CSS:\n%s", out)
	}

	// re-injection must replace, not duplicate
	doc.InjectStylesheet(".sads-id-1 {\n  padding: 2rem;\n}\n")
	buf.Reset()
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out = buf.String()
	if got := strings.Count(out, `<style id="sads-rules">`); got != 1 {
		t.Errorf("managed style element count = %d, want 1", got)
	}
	if strings.Contains(out, "padding: 1rem;") {
		t.Error("stale CSS left after re-injection")
	}
	if !strings.Contains(out, "padding: 2rem;") {
		t.Error("new CSS missing after re-injection")
	}
}

func TestHTMLDocument_LinkStylesheet(t *testing.T) {
	doc := parseHTML(t, htmlDoc)

	doc.LinkStylesheet("site.css")
	doc.LinkStylesheet("site.css")

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := strings.Count(buf.String(), `href="site.css"`); got != 1 {
		t.Errorf("stylesheet link count = %d, want 1", got)
	}
}

func TestHTMLDocument_TitleAndLang(t *testing.T) {
	doc := parseHTML(t, `<!DOCTYPE html>
<html lang="sv">
<head><title>  Styled page  </title></head>
<body><div data-sads-padding="m"></div></body>
</html>`)

	if got := doc.Title(); got != "Styled page" {
		t.Errorf("Title() = %q, want %q", got, "Styled page")
	}
	if got := doc.Lang(); got != "sv" {
		t.Errorf("Lang() = %q, want %q", got, "sv")
	}

	bare := parseHTML(t, `<html><body><p>x</p></body></html>`)
	if got := bare.Title(); got != "" {
		t.Errorf("Title() on titleless document = %q, want empty", got)
	}
	if got := bare.Lang(); got != "" {
		t.Errorf("Lang() on unmarked document = %q, want empty", got)
	}
}

const xhtmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>t</title></head>
<body>
<section data-sads-component="hero" data-sads-bgColor="surface">
  <h2 data-sads-text-color="text-primary">Hi</h2>
</section>
</body>
</html>`

func parseXHTML(t *testing.T, data string) dom.Document {
	t.Helper()
	doc, err := dom.ParseXHTML(strings.NewReader(data), nil)
	if err != nil {
		t.Fatalf("ParseXHTML() error = %v", err)
	}
	return doc
}

func TestParseXHTML_StyledElements(t *testing.T) {
	doc := parseXHTML(t, xhtmlDoc)

	els := doc.StyledElements()
	if len(els) != 2 {
		t.Fatalf("StyledElements() = %d elements, want 2", len(els))
	}

	// camelCase attribute preserved as-is
	if v, ok := els[0].SadsAttr("bgColor"); !ok || v != "surface" {
		t.Errorf("SadsAttr(bgColor) = %q, %v", v, ok)
	}
	// kebab attribute normalized
	if v, ok := els[1].SadsAttr("textColor"); !ok || v != "text-primary" {
		t.Errorf("SadsAttr(textColor) = %q, %v", v, ok)
	}
}

func TestXHTMLDocument_InjectStylesheet(t *testing.T) {
	doc := parseXHTML(t, xhtmlDoc)

	els := doc.StyledElements()
	els[0].SetStyleID(1)

	doc.InjectStylesheet(".sads-id-1 {\n  color: #212529;\n}\n")
	doc.InjectStylesheet(".sads-id-1 {\n  color: #000000;\n}\n")

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if got := strings.Count(out, `id="sads-rules"`); got != 1 {
		t.Errorf("managed style element count = %d, want 1", got)
	}
	if strings.Contains(out, "#212529") {
		t.Error("stale CSS left after re-injection")
	}
	if !strings.Contains(out, "#000000") {
		t.Error("new CSS missing after re-injection")
	}
	if !strings.Contains(out, "sads-id-1") {
		t.Error("marker class missing from rendered output")
	}
}

func TestXHTMLDocument_TitleAndLang(t *testing.T) {
	doc := parseXHTML(t, `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="de" lang="en">
<head><title>Vorschau</title></head>
<body><div data-sads-padding="m"/></body>
</html>`)

	if got := doc.Title(); got != "Vorschau" {
		t.Errorf("Title() = %q, want %q", got, "Vorschau")
	}
	// xml:lang wins over the plain attribute
	if got := doc.Lang(); got != "de" {
		t.Errorf("Lang() = %q, want %q", got, "de")
	}

	headless := parseXHTML(t, `<html xmlns="http://www.w3.org/1999/xhtml"><body><div data-sads-padding="m"/></body></html>`)
	if got := headless.Title(); got != "" {
		t.Errorf("Title() on headless document = %q, want empty", got)
	}
}

func TestXHTMLDocument_WithoutHead(t *testing.T) {
	doc := parseXHTML(t, `<html xmlns="http://www.w3.org/1999/xhtml"><body><div data-sads-padding="m"/></body></html>`)

	doc.InjectStylesheet(".sads-id-1 {\n  padding: 1rem;\n}\n")

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `id="sads-rules"`) {
		t.Errorf("style element not created in synthesized head:\n%s", buf.String())
	}
}

func TestStyleClassRoundtrip(t *testing.T) {
	tests := []struct {
		class string
		id    int
		ok    bool
	}{
		{"sads-id-0", 0, true},
		{"sads-id-12", 12, true},
		{"sads-id-", 0, false},
		{"sads-id-x", 0, false},
		{"sads-id--1", 0, false},
		{"other", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			n, ok := dom.ParseStyleID(tt.class)
			if ok != tt.ok || n != tt.id {
				t.Errorf("ParseStyleID(%q) = %d, %v, want %d, %v", tt.class, n, ok, tt.id, tt.ok)
			}
		})
	}

	if got := dom.StyleClass(3); got != "sads-id-3" {
		t.Errorf("StyleClass(3) = %q", got)
	}
}
