// Package theme holds the styling vocabulary: token to CSS value tables per
// category plus named breakpoint media queries. Token and category names
// follow the data attribute conventions of the styled documents.
package theme

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Category names understood by resolvers and the offload protocol. These are
// wire names: they appear verbatim in serialized payloads, so they keep the
// camelCase spelling of the attribute vocabulary.
const (
	CategoryColors       = "colors"
	CategorySpacing      = "spacing"
	CategoryFontSize     = "fontSize"
	CategoryFontWeight   = "fontWeight"
	CategoryFontStyle    = "fontStyle"
	CategoryBorderRadius = "borderRadius"
	CategoryBorderStyle  = "borderStyle"
	CategoryShadow       = "shadow"
	CategoryMaxWidth     = "maxWidth"
	CategoryFlexBasis    = "flexBasis"
	CategoryObjectFit    = "objectFit"
	CategoryBreakpoints  = "breakpoints"
)

// categoryNames lists value categories in canonical order. Breakpoints are
// not a value category and are kept separate.
var categoryNames = []string{
	CategoryColors,
	CategorySpacing,
	CategoryFontSize,
	CategoryFontWeight,
	CategoryFontStyle,
	CategoryBorderRadius,
	CategoryBorderStyle,
	CategoryShadow,
	CategoryMaxWidth,
	CategoryFlexBasis,
	CategoryObjectFit,
}

// CategoryNames returns value category names in canonical order.
func CategoryNames() []string {
	out := make([]string, len(categoryNames))
	copy(out, categoryNames)
	return out
}

// Theme is a complete styling table. Color tokens may carry "-dark" variants
// which take precedence when dark mode is active. Breakpoint values are media
// query texts without the "@media" prefix.
type Theme struct {
	Colors       map[string]string `yaml:"colors,omitempty" json:"colors,omitempty"`
	Spacing      map[string]string `yaml:"spacing,omitempty" json:"spacing,omitempty"`
	FontSize     map[string]string `yaml:"fontSize,omitempty" json:"fontSize,omitempty"`
	FontWeight   map[string]string `yaml:"fontWeight,omitempty" json:"fontWeight,omitempty"`
	FontStyle    map[string]string `yaml:"fontStyle,omitempty" json:"fontStyle,omitempty"`
	BorderRadius map[string]string `yaml:"borderRadius,omitempty" json:"borderRadius,omitempty"`
	BorderStyle  map[string]string `yaml:"borderStyle,omitempty" json:"borderStyle,omitempty"`
	Shadow       map[string]string `yaml:"shadow,omitempty" json:"shadow,omitempty"`
	MaxWidth     map[string]string `yaml:"maxWidth,omitempty" json:"maxWidth,omitempty"`
	FlexBasis    map[string]string `yaml:"flexBasis,omitempty" json:"flexBasis,omitempty"`
	ObjectFit    map[string]string `yaml:"objectFit,omitempty" json:"objectFit,omitempty"`
	Breakpoints  map[string]string `yaml:"breakpoints,omitempty" json:"breakpoints,omitempty"`
}

// Default returns the built-in theme. Every category map is non-nil.
func Default() *Theme {
	return &Theme{
		Colors: map[string]string{
			"primary":             "#0d6efd",
			"primary-dark":        "#6ea8fe",
			"secondary":           "#6c757d",
			"secondary-dark":      "#adb5bd",
			"accent":              "#d63384",
			"accent-dark":         "#e685b5",
			"surface":             "#FFFFFF",
			"surface-dark":        "#2a2a2a",
			"background":          "#f8f9fa",
			"background-dark":     "#1a1a1a",
			"text-primary":        "#212529",
			"text-primary-dark":   "#e9ecef",
			"text-secondary":      "#495057",
			"text-secondary-dark": "#ced4da",
			"text-accent":         "#0a58ca",
			"text-accent-dark":    "#8bb9fe",
			"border-light":        "#dee2e6",
			"border-light-dark":   "#495057",
			"transparent":         "transparent",
		},
		Spacing: map[string]string{
			"none": "0",
			"xs":   "0.25rem",
			"s":    "0.5rem",
			"m":    "1rem",
			"l":    "1.5rem",
			"xl":   "2.5rem",
			"xxl":  "4rem",
			"auto": "auto",
		},
		FontSize: map[string]string{
			"xs":  "0.75rem",
			"s":   "0.875rem",
			"m":   "1rem",
			"l":   "1.25rem",
			"xl":  "1.5rem",
			"xxl": "2rem",
		},
		FontWeight: map[string]string{
			"normal": "400",
			"medium": "500",
			"bold":   "700",
		},
		FontStyle: map[string]string{
			"normal": "normal",
			"italic": "italic",
		},
		BorderRadius: map[string]string{
			"none":   "0",
			"s":      "0.25rem",
			"m":      "0.5rem",
			"l":      "1rem",
			"pill":   "50rem",
			"circle": "50%",
		},
		BorderStyle: map[string]string{
			"none":   "none",
			"solid":  "solid",
			"dashed": "dashed",
			"dotted": "dotted",
		},
		Shadow: map[string]string{
			"none": "none",
			"s":    "0 1px 2px rgba(0, 0, 0, 0.08)",
			"m":    "0 2px 8px rgba(0, 0, 0, 0.12)",
			"l":    "0 8px 24px rgba(0, 0, 0, 0.16)",
		},
		MaxWidth: map[string]string{
			"narrow":  "36rem",
			"content": "48rem",
			"wide":    "64rem",
			"full":    "100%",
		},
		FlexBasis: map[string]string{
			"full":    "100%",
			"half":    "50%",
			"third":   "33.333%",
			"quarter": "25%",
			"auto":    "auto",
		},
		ObjectFit: map[string]string{
			"cover":   "cover",
			"contain": "contain",
			"fill":    "fill",
			"none":    "none",
		},
		Breakpoints: map[string]string{
			"mobile":  "(max-width: 767px)",
			"tablet":  "(min-width: 768px) and (max-width: 1023px)",
			"desktop": "(min-width: 1024px)",
		},
	}
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy sharing no maps with the receiver.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	return &Theme{
		Colors:       cloneMap(t.Colors),
		Spacing:      cloneMap(t.Spacing),
		FontSize:     cloneMap(t.FontSize),
		FontWeight:   cloneMap(t.FontWeight),
		FontStyle:    cloneMap(t.FontStyle),
		BorderRadius: cloneMap(t.BorderRadius),
		BorderStyle:  cloneMap(t.BorderStyle),
		Shadow:       cloneMap(t.Shadow),
		MaxWidth:     cloneMap(t.MaxWidth),
		FlexBasis:    cloneMap(t.FlexBasis),
		ObjectFit:    cloneMap(t.ObjectFit),
		Breakpoints:  cloneMap(t.Breakpoints),
	}
}

func mergeMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Merge returns a new theme with override entries layered over base, category
// by category: same-name tokens are replaced, new tokens added, categories
// absent from the override pass through. Neither argument is mutated.
func Merge(base, override *Theme) *Theme {
	if base == nil {
		return override.Clone()
	}
	out := base.Clone()
	if override == nil {
		return out
	}
	out.Colors = mergeMap(out.Colors, override.Colors)
	out.Spacing = mergeMap(out.Spacing, override.Spacing)
	out.FontSize = mergeMap(out.FontSize, override.FontSize)
	out.FontWeight = mergeMap(out.FontWeight, override.FontWeight)
	out.FontStyle = mergeMap(out.FontStyle, override.FontStyle)
	out.BorderRadius = mergeMap(out.BorderRadius, override.BorderRadius)
	out.BorderStyle = mergeMap(out.BorderStyle, override.BorderStyle)
	out.Shadow = mergeMap(out.Shadow, override.Shadow)
	out.MaxWidth = mergeMap(out.MaxWidth, override.MaxWidth)
	out.FlexBasis = mergeMap(out.FlexBasis, override.FlexBasis)
	out.ObjectFit = mergeMap(out.ObjectFit, override.ObjectFit)
	out.Breakpoints = mergeMap(out.Breakpoints, override.Breakpoints)
	return out
}

// DeriveAliases fills color tokens which are defined in terms of other tokens
// unless an override already set them. Run after every merge.
func (t *Theme) DeriveAliases() {
	if t == nil || t.Colors == nil {
		return
	}
	derive := func(alias, source string) {
		if _, ok := t.Colors[alias]; ok {
			return
		}
		if v, ok := t.Colors[source]; ok {
			t.Colors[alias] = v
		}
	}
	derive("border-accent", "text-accent")
	derive("border-accent-dark", "text-accent-dark")
}

// Category returns the value table for a category wire name. Breakpoints are
// not addressable this way.
func (t *Theme) Category(name string) (map[string]string, bool) {
	if t == nil {
		return nil, false
	}
	switch name {
	case CategoryColors:
		return t.Colors, true
	case CategorySpacing:
		return t.Spacing, true
	case CategoryFontSize:
		return t.FontSize, true
	case CategoryFontWeight:
		return t.FontWeight, true
	case CategoryFontStyle:
		return t.FontStyle, true
	case CategoryBorderRadius:
		return t.BorderRadius, true
	case CategoryBorderStyle:
		return t.BorderStyle, true
	case CategoryShadow:
		return t.Shadow, true
	case CategoryMaxWidth:
		return t.MaxWidth, true
	case CategoryFlexBasis:
		return t.FlexBasis, true
	case CategoryObjectFit:
		return t.ObjectFit, true
	}
	return nil, false
}

// CategoryJSON serializes one category table (or breakpoints) for the offload
// protocol.
func (t *Theme) CategoryJSON(name string) ([]byte, error) {
	var m map[string]string
	if name == CategoryBreakpoints {
		m = t.Breakpoints
	} else {
		var ok bool
		if m, ok = t.Category(name); !ok {
			return nil, fmt.Errorf("unknown theme category '%s'", name)
		}
	}
	if m == nil {
		m = map[string]string{}
	}
	return json.Marshal(m)
}

// MarshalCategories serializes every category table plus breakpoints, keyed
// by wire name. This is the theme payload of offloaded responsive parsing.
func (t *Theme) MarshalCategories() (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(categoryNames)+1)
	for _, name := range categoryNames {
		data, err := t.CategoryJSON(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	data, err := t.CategoryJSON(CategoryBreakpoints)
	if err != nil {
		return nil, err
	}
	out[CategoryBreakpoints] = data
	return out, nil
}

// FromCategories rebuilds a theme from serialized category tables. Unknown
// names are rejected so protocol drift does not pass silently.
func FromCategories(cats map[string]json.RawMessage) (*Theme, error) {
	t := &Theme{}
	for name, data := range cats {
		m := map[string]string{}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("unable to deserialize theme category '%s': %w", name, err)
		}
		switch name {
		case CategoryColors:
			t.Colors = m
		case CategorySpacing:
			t.Spacing = m
		case CategoryFontSize:
			t.FontSize = m
		case CategoryFontWeight:
			t.FontWeight = m
		case CategoryFontStyle:
			t.FontStyle = m
		case CategoryBorderRadius:
			t.BorderRadius = m
		case CategoryBorderStyle:
			t.BorderStyle = m
		case CategoryShadow:
			t.Shadow = m
		case CategoryMaxWidth:
			t.MaxWidth = m
		case CategoryFlexBasis:
			t.FlexBasis = m
		case CategoryObjectFit:
			t.ObjectFit = m
		case CategoryBreakpoints:
			t.Breakpoints = m
		default:
			return nil, fmt.Errorf("unknown theme category '%s'", name)
		}
	}
	return t, nil
}

// Breakpoint returns the media query text for a named breakpoint.
func (t *Theme) Breakpoint(name string) (string, bool) {
	if t == nil || t.Breakpoints == nil {
		return "", false
	}
	mq, ok := t.Breakpoints[name]
	return mq, ok
}

// Load reads a theme override file (YAML, strict fields).
func Load(path string, log *zap.Logger) (*Theme, error) {
	if log == nil {
		log = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open theme file: %w", err)
	}
	defer f.Close()

	t := &Theme{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("unable to parse theme file '%s': %w", path, err)
	}
	log.Debug("Loaded theme overrides", zap.String("path", path))
	return t, nil
}

// Dump serializes the theme to YAML, used for debug reports.
func (t *Theme) Dump() ([]byte, error) {
	return yaml.Marshal(t)
}
