// Package dom gives the styling engine a uniform view of HTML and XHTML
// documents: which elements carry styling attributes, what those attributes
// say, and where generated stylesheets get injected.
package dom

import (
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AttrPrefix is the attribute namespace of the styling vocabulary.
const AttrPrefix = "data-sads-"

// Reserved attribute keys. They mark document structure and never produce
// declarations.
const (
	KeyComponent  = "component"  // component root marker
	KeyElement    = "element"    // sub-element marker
	KeyResponsive = "responsive" // responsive rules JSON payload
)

// StyleSheetID identifies the managed <style> element generated sheets are
// injected into.
const StyleSheetID = "sads-rules"

// styleClassPrefix prefixes synthetic selector marker classes.
const styleClassPrefix = "sads-id-"

// Attr is a single styling attribute with the prefix stripped and the key
// camelCased.
type Attr struct {
	Key   string
	Value string
}

// Element is one styleable document element.
type Element interface {
	// SadsAttrs returns the styling attributes in document order.
	SadsAttrs() []Attr
	// SadsAttr returns one styling attribute by camelCase key.
	SadsAttr(key string) (string, bool)
	// StyleID returns the synthetic selector ID from an existing marker
	// class, when the element carries one.
	StyleID() (int, bool)
	// SetStyleID attaches the marker class for the given ID.
	SetStyleID(n int)
	// Ref describes the element for logs.
	Ref() string
}

// Document is a parsed document holding styleable elements.
type Document interface {
	// StyledElements returns every element carrying at least one styling
	// attribute, in document order.
	StyledElements() []Element
	// InjectStylesheet replaces or creates the managed style element with
	// the given CSS text. Repeated injection never duplicates the element.
	InjectStylesheet(css string)
	// LinkStylesheet adds a stylesheet link for href unless one is present.
	LinkStylesheet(href string)
	// Title returns the document title text, empty when the document has
	// none.
	Title() string
	// Lang returns the root element's language attribute.
	Lang() string
	// Render writes the document back out.
	Render(w io.Writer) error
}

// camelKey converts a kebab attribute suffix to the camelCase key of the
// styling vocabulary, following DOM dataset semantics: "bg-color" becomes
// "bgColor". Keys without hyphens pass through untouched, so case-preserving
// documents may carry camelCase attributes directly.
func camelKey(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	parts := strings.Split(s, "-")
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}

// StyleClass returns the marker class for a synthetic selector ID.
func StyleClass(n int) string {
	return styleClassPrefix + strconv.Itoa(n)
}

// ParseStyleID extracts the ID from a marker class name.
func ParseStyleID(class string) (int, bool) {
	rest, ok := strings.CutPrefix(class, styleClassPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// styleIDFromClassList scans a space separated class list for a marker class.
func styleIDFromClassList(classes string) (int, bool) {
	for _, c := range strings.Fields(classes) {
		if n, ok := ParseStyleID(c); ok {
			return n, true
		}
	}
	return 0, false
}

// appendClass adds a class to a space separated class list.
func appendClass(classes, class string) string {
	if classes == "" {
		return class
	}
	return classes + " " + class
}
