package sads

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sade/dom"
	"sade/theme"
)

const enginePage = `<!DOCTYPE html>
<html>
<head><title>t</title></head>
<body>
<section data-sads-component="hero" data-sads-bg-color="surface" data-sads-padding="l"
         data-sads-responsive='[{"breakpoint":"mobile","styles":{"padding":"s"}}]'>
  <h2 data-sads-element="title" data-sads-text-color="text-primary">Hi</h2>
</section>
</body>
</html>`

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Log == nil {
		opts.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	}
	return NewEngine(opts)
}

func mustParseHTML(t *testing.T, page string) dom.Document {
	t.Helper()
	doc, err := dom.ParseHTML(strings.NewReader(page), nil)
	if err != nil {
		t.Fatalf("ParseHTML() error = %v", err)
	}
	return doc
}

func TestEngine_ApplyStyles(t *testing.T) {
	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, enginePage)

	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	out := e.Sheet().String()
	wantBase := ".sads-id-1 {\n  background-color: #FFFFFF;\n  padding: 1.5rem;\n}\n"
	if !strings.Contains(out, wantBase) {
		t.Errorf("sheet missing hero base rule:\n%s", out)
	}
	wantMedia := "@media (max-width: 767px) {\n  .sads-id-1 {\n    padding: 0.5rem !important;\n  }\n}\n"
	if !strings.Contains(out, wantMedia) {
		t.Errorf("sheet missing hero media rule:\n%s", out)
	}
	if !strings.Contains(out, ".sads-id-2 {\n  color: #212529;\n}\n") {
		t.Errorf("sheet missing title rule:\n%s", out)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	rendered := buf.String()
	if !strings.Contains(rendered, "sads-id-1") || !strings.Contains(rendered, "sads-id-2") {
		t.Errorf("marker classes missing from rendered document:\n%s", rendered)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, enginePage)
	ctx := context.Background()

	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("first ApplyStyles() error = %v", err)
	}
	first := e.Sheet().String()

	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("second ApplyStyles() error = %v", err)
	}
	second := e.Sheet().String()

	if first != second {
		t.Errorf("restyle output differs:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestEngine_ReusesEmbeddedIDs(t *testing.T) {
	page := `<html><body>
<div class="sads-id-7" data-sads-padding="m"></div>
<div data-sads-gap="s"></div>
</body></html>`

	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	out := e.Sheet().String()
	if !strings.Contains(out, ".sads-id-7 {") {
		t.Errorf("embedded ID not reused:\n%s", out)
	}
	// the counter continues above the highest embedded ID
	if !strings.Contains(out, ".sads-id-8 {") {
		t.Errorf("minted ID did not continue after the embedded one:\n%s", out)
	}
}

func TestEngine_DarkMode(t *testing.T) {
	e := newTestEngine(t, Options{Dark: true})
	doc := mustParseHTML(t, enginePage)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	out := e.Sheet().String()
	if !strings.Contains(out, "background-color: #2a2a2a;") {
		t.Errorf("dark surface not applied:\n%s", out)
	}
	if strings.Contains(out, "#FFFFFF") {
		t.Errorf("light surface leaked into dark output:\n%s", out)
	}
}

func TestEngine_DarkFn(t *testing.T) {
	dark := false
	e := newTestEngine(t, Options{DarkFn: func() bool { return dark }})
	ctx := context.Background()

	doc := mustParseHTML(t, enginePage)
	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}
	if !strings.Contains(e.Sheet().String(), "#FFFFFF") {
		t.Fatalf("light pass did not use light colors")
	}

	dark = true
	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}
	if !strings.Contains(e.Sheet().String(), "#2a2a2a") {
		t.Errorf("mode change not picked up on the next pass")
	}
}

func TestEngine_UpdateTheme(t *testing.T) {
	e := newTestEngine(t, Options{})
	ctx := context.Background()
	page := `<html><body><div data-sads-bg-color="surface" data-sads-border-color="border-accent"></div></body></html>`

	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}
	if !strings.Contains(e.Sheet().String(), "background-color: #FFFFFF;") {
		t.Fatalf("default theme not applied")
	}

	e.UpdateTheme(&theme.Theme{Colors: map[string]string{
		"surface":     "#fafafa",
		"text-accent": "#123456",
	}})
	if err := e.ApplyStyles(ctx, doc); err != nil {
		t.Fatalf("ApplyStyles() after UpdateTheme error = %v", err)
	}

	out := e.Sheet().String()
	if !strings.Contains(out, "background-color: #fafafa;") {
		t.Errorf("override not applied:\n%s", out)
	}
	// border-accent is derived from text-accent on every merge
	if !strings.Contains(out, "border-color: #123456;") {
		t.Errorf("derived alias not rebuilt after update:\n%s", out)
	}

	if got := e.Theme().Colors["surface"]; got != "#fafafa" {
		t.Errorf("Theme() surface = %q, want the override", got)
	}
}

func TestEngine_EmptyDeclarationsSuppressed(t *testing.T) {
	page := `<html><body><div data-sads-bg-color=""></div></body></html>`

	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	if e.Sheet().Len() != 0 {
		t.Errorf("sheet has %d rules, want none:\n%s", e.Sheet().Len(), e.Sheet().String())
	}

	// the element is still marked so a later pass finds it again
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "sads-id-1") {
		t.Errorf("marker class missing:\n%s", buf.String())
	}
}

func TestEngine_MalformedResponsiveIgnored(t *testing.T) {
	page := `<html><body><div data-sads-padding="m" data-sads-responsive="{broken"></div></body></html>`

	e := newTestEngine(t, Options{Log: zap.NewNop()})
	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	out := e.Sheet().String()
	if !strings.Contains(out, "padding: 1rem;") {
		t.Errorf("base rule lost with the malformed payload:\n%s", out)
	}
	if strings.Contains(out, "@media") {
		t.Errorf("malformed payload produced media rules:\n%s", out)
	}
}

func TestEngine_CustomValues(t *testing.T) {
	page := `<html><body><div data-sads-border="custom:10px solid red" data-sads-bg-color="custom:rgb(1, 2, 3)"></div></body></html>`

	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	out := e.Sheet().String()
	if !strings.Contains(out, "border: 10px solid red;") {
		t.Errorf("custom literal not passed through:\n%s", out)
	}
	if !strings.Contains(out, "background-color: rgb(1, 2, 3);") {
		t.Errorf("custom color literal not passed through:\n%s", out)
	}
}

func TestEngine_UnknownTokenPassesThrough(t *testing.T) {
	page := `<html><body><div data-sads-text-color="not-a-real-token"></div></body></html>`

	e := newTestEngine(t, Options{Log: zap.NewNop()})
	doc := mustParseHTML(t, page)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}
	if !strings.Contains(e.Sheet().String(), "color: not-a-real-token;") {
		t.Errorf("unknown token did not pass through verbatim:\n%s", e.Sheet().String())
	}
}

func TestEngine_ContextCanceled(t *testing.T) {
	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, enginePage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.ApplyStyles(ctx, doc); err == nil {
		t.Error("ApplyStyles() ignored a canceled context")
	}
}

func TestEngine_ConcurrentApplies(t *testing.T) {
	e := newTestEngine(t, Options{Log: zap.NewNop()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := mustParseHTML(t, enginePage)
			if err := e.ApplyStyles(ctx, doc); err != nil {
				t.Errorf("ApplyStyles() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// whichever pass ran last, the sheet is complete and consistent
	out := e.Sheet().String()
	if !strings.Contains(out, "background-color: #FFFFFF;") || !strings.Contains(out, "@media (max-width: 767px)") {
		t.Errorf("sheet incomplete after concurrent passes:\n%s", out)
	}
}

func TestEngine_DumpTree(t *testing.T) {
	e := newTestEngine(t, Options{})
	doc := mustParseHTML(t, enginePage)
	if err := e.ApplyStyles(context.Background(), doc); err != nil {
		t.Fatalf("ApplyStyles() error = %v", err)
	}

	var buf bytes.Buffer
	e.DumpTree(&buf)
	out := buf.String()

	if !strings.Contains(out, "Generated rules:") {
		t.Errorf("dump missing header:\n%s", out)
	}
	if !strings.Contains(out, ".sads-id-1") {
		t.Errorf("dump missing selector:\n%s", out)
	}
	if !strings.Contains(out, `background-color: "#FFFFFF"`) {
		t.Errorf("dump missing declaration:\n%s", out)
	}
	if !strings.Contains(out, "@media (max-width: 767px)") {
		t.Errorf("dump missing media group:\n%s", out)
	}
}
