package sads

import "strings"

// layoutTypeKey is consumed by layout composition, never by declaration
// generation.
const layoutTypeKey = "layout-type"

// propertyRenames maps kebab-cased attribute keys whose CSS property name
// differs from the key itself.
var propertyRenames = map[string]string{
	"bg-color":         "background-color",
	"text-color":       "color",
	"flex-justify":     "justify-content",
	"flex-align-items": "align-items",
	"shadow":           "box-shadow",
}

// knownProperties lists kebab-cased attribute keys that already are the CSS
// property they drive.
var knownProperties = map[string]struct{}{
	"font-size":             {},
	"font-weight":           {},
	"font-style":            {},
	"text-align":            {},
	"text-decoration":       {},
	"border-radius":         {},
	"border-width":          {},
	"border-style":          {},
	"border-color":          {},
	"max-width":             {},
	"width":                 {},
	"height":                {},
	"display":               {},
	"flex-direction":        {},
	"flex-wrap":             {},
	"flex-basis":            {},
	"gap":                   {},
	"object-fit":            {},
	"padding":               {},
	"padding-top":           {},
	"padding-bottom":        {},
	"padding-left":          {},
	"padding-right":         {},
	"margin":                {},
	"margin-top":            {},
	"margin-bottom":         {},
	"margin-left":           {},
	"margin-right":          {},
	"position":              {},
	"top":                   {},
	"left":                  {},
	"right":                 {},
	"bottom":                {},
	"z-index":               {},
	"overflow":              {},
	"list-style":            {},
	"border-bottom-width":   {},
	"border-bottom-style":   {},
	"border-bottom-color":   {},
	"min-height":            {},
	"flex-grow":             {},
	"grid-template-columns": {},
	"resize":                {},
	"cursor":                {},
	"transition":            {},
	"box-sizing":            {},
}

// MapKey translates a styling attribute key, camelCased the way it arrives
// from a document dataset, to the CSS property it drives. ok is false for
// empty input and for the reserved layout key, both of which produce no
// declaration. Keys outside the known vocabulary come back kebab-cased
// unchanged with ok true so generators can emit them and warn.
func MapKey(sadsKey string) (string, bool) {
	if sadsKey == "" {
		return "", false
	}
	kebab := kebabCase(sadsKey)
	if kebab == layoutTypeKey {
		return "", false
	}
	if prop, ok := propertyRenames[kebab]; ok {
		return prop, true
	}
	return kebab, true
}

// InVocabulary reports whether a styling attribute key belongs to the known
// vocabulary, reserved layout key included.
func InVocabulary(sadsKey string) bool {
	kebab := kebabCase(sadsKey)
	if kebab == layoutTypeKey {
		return true
	}
	if _, ok := propertyRenames[kebab]; ok {
		return true
	}
	_, ok := knownProperties[kebab]
	return ok
}

// kebabCase lowers a camelCased key, inserting a hyphen before an upper-case
// rune unless the previous rune was upper-case too. Kebab-cased input passes
// through unchanged.
func kebabCase(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(key[i-1])
			if prev < 'A' || prev > 'Z' {
				b.WriteRune('-')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
