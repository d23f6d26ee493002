package sads

import (
	"context"

	"sade/theme"
)

// propertyCategories maps CSS properties to the theme category their values
// resolve against. Properties absent here take their values verbatim.
var propertyCategories = map[string]string{
	"padding":        theme.CategorySpacing,
	"padding-top":    theme.CategorySpacing,
	"padding-bottom": theme.CategorySpacing,
	"padding-left":   theme.CategorySpacing,
	"padding-right":  theme.CategorySpacing,
	"margin":         theme.CategorySpacing,
	"margin-top":     theme.CategorySpacing,
	"margin-bottom":  theme.CategorySpacing,
	"margin-left":    theme.CategorySpacing,
	"margin-right":   theme.CategorySpacing,
	"gap":            theme.CategorySpacing,
	"border-width":   theme.CategorySpacing,
	"width":          theme.CategorySpacing,
	"height":         theme.CategorySpacing,

	"background-color":    theme.CategoryColors,
	"color":               theme.CategoryColors,
	"border-color":        theme.CategoryColors,
	"border-bottom-color": theme.CategoryColors,

	"font-size":     theme.CategoryFontSize,
	"font-weight":   theme.CategoryFontWeight,
	"font-style":    theme.CategoryFontStyle,
	"border-radius": theme.CategoryBorderRadius,
	"border-style":  theme.CategoryBorderStyle,
	"box-shadow":    theme.CategoryShadow,
	"max-width":     theme.CategoryMaxWidth,
	"flex-basis":    theme.CategoryFlexBasis,
	"object-fit":    theme.CategoryObjectFit,
}

// CategoryForProperty returns the theme category a CSS property resolves
// against. ok is false for properties that take raw values.
func CategoryForProperty(cssProp string) (string, bool) {
	cat, ok := propertyCategories[cssProp]
	return cat, ok
}

// ColorResolver resolves color tokens against a theme color table. The
// engine routes every color through this seam so resolution can be served
// out of process.
type ColorResolver interface {
	ResolveColor(ctx context.Context, v Value, colors map[string]string, dark bool) string
}

// ResponsiveResolver turns a responsive rules payload into ordered media
// groups.
type ResponsiveResolver interface {
	ResolveResponsive(ctx context.Context, rulesJSON []byte, th *theme.Theme, dark bool) ([]MediaGroup, error)
}

// NativeResolver resolves styling values in process against the theme
// tables. It is the default for both resolver seams and the fallback
// behind the offloaded ones.
type NativeResolver struct{}

// ResolveColor maps a color token to its theme value. In dark mode the
// "-dark" variant of the token wins over the base token. Tokens absent
// from the table pass through as written.
func (NativeResolver) ResolveColor(_ context.Context, v Value, colors map[string]string, dark bool) string {
	if v.IsLiteral() {
		return v.Text()
	}
	token := v.Text()
	if token == "" {
		return ""
	}
	if dark {
		if val, ok := colors[token+"-dark"]; ok {
			return val
		}
	}
	if val, ok := colors[token]; ok {
		return val
	}
	return token
}

// resolveCategory looks a token up in one theme category table, keeping the
// token text on a miss.
func resolveCategory(v Value, table map[string]string) string {
	if v.IsLiteral() {
		return v.Text()
	}
	token := v.Text()
	if token == "" {
		return ""
	}
	if val, ok := table[token]; ok {
		return val
	}
	return token
}

// ResolveValue resolves one styling value for a CSS property. Colors go
// through cr, every other category uses the in-process table lookup and
// properties without a category take the value verbatim. Dark mode only
// affects colors.
func ResolveValue(ctx context.Context, cr ColorResolver, v Value, cssProp string, th *theme.Theme, dark bool) string {
	category, ok := CategoryForProperty(cssProp)
	if !ok {
		return v.Text()
	}
	if category == theme.CategoryColors {
		if cr == nil {
			cr = NativeResolver{}
		}
		return cr.ResolveColor(ctx, v, th.Colors, dark)
	}
	table, _ := th.Category(category)
	return resolveCategory(v, table)
}
