package sads

import (
	"context"
	"testing"

	"sade/theme"
)

func TestCategoryForProperty(t *testing.T) {
	tests := []struct {
		prop     string
		category string
		ok       bool
	}{
		{"padding", theme.CategorySpacing, true},
		{"margin-top", theme.CategorySpacing, true},
		{"gap", theme.CategorySpacing, true},
		{"width", theme.CategorySpacing, true},
		{"background-color", theme.CategoryColors, true},
		{"border-bottom-color", theme.CategoryColors, true},
		{"font-size", theme.CategoryFontSize, true},
		{"box-shadow", theme.CategoryShadow, true},
		{"flex-basis", theme.CategoryFlexBasis, true},
		{"object-fit", theme.CategoryObjectFit, true},
		{"display", "", false},
		{"text-align", "", false},
		{"justify-content", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.prop, func(t *testing.T) {
			category, ok := CategoryForProperty(tt.prop)
			if category != tt.category || ok != tt.ok {
				t.Errorf("CategoryForProperty(%q) = %q, %v, want %q, %v", tt.prop, category, ok, tt.category, tt.ok)
			}
		})
	}
}

func TestNativeResolver_ResolveColor(t *testing.T) {
	ctx := context.Background()
	colors := theme.Default().Colors
	var r NativeResolver

	tests := []struct {
		name string
		v    Value
		dark bool
		want string
	}{
		{"light surface", Tok("surface"), false, "#FFFFFF"},
		{"dark surface", Tok("surface"), true, "#2a2a2a"},
		{"dark without variant falls back", Tok("transparent"), true, "transparent"},
		{"unknown token passes through", Tok("not-a-real-token"), false, "not-a-real-token"},
		{"unknown token passes through dark", Tok("not-a-real-token"), true, "not-a-real-token"},
		{"literal bypasses the table", Lit("#abcdef"), true, "#abcdef"},
		{"empty token suppresses", Tok(""), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ResolveColor(ctx, tt.v, colors, tt.dark); got != tt.want {
				t.Errorf("ResolveColor(%v, dark=%v) = %q, want %q", tt.v, tt.dark, got, tt.want)
			}
		})
	}
}

func TestResolveValue(t *testing.T) {
	ctx := context.Background()
	th := theme.Default()

	tests := []struct {
		name string
		v    Value
		prop string
		dark bool
		want string
	}{
		{"spacing token", Tok("m"), "padding", false, "1rem"},
		{"spacing none", Tok("none"), "margin", false, "0"},
		{"font size", Tok("xl"), "font-size", false, th.FontSize["xl"]},
		{"font weight", Tok("bold"), "font-weight", false, "700"},
		{"shadow", Tok("m"), "box-shadow", false, th.Shadow["m"]},
		{"color light", Tok("surface"), "background-color", false, "#FFFFFF"},
		{"color dark", Tok("surface"), "background-color", true, "#2a2a2a"},
		{"uncategorized token verbatim", Tok("flex"), "display", false, "flex"},
		{"uncategorized literal verbatim", Lit("center"), "text-align", false, "center"},
		{"unknown spacing token verbatim", Tok("17px"), "padding", false, "17px"},
		{"literal beats the table", Lit("3px"), "gap", false, "3px"},
		{"empty token suppresses", Tok(""), "padding", false, ""},
		{"dark does not touch spacing", Tok("m"), "padding", true, "1rem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveValue(ctx, nil, tt.v, tt.prop, th, tt.dark); got != tt.want {
				t.Errorf("ResolveValue(%v, %q, dark=%v) = %q, want %q", tt.v, tt.prop, tt.dark, got, tt.want)
			}
		})
	}
}

// recordingColorResolver proves color dispatch goes through the seam.
type recordingColorResolver struct {
	calls int
}

func (r *recordingColorResolver) ResolveColor(context.Context, Value, map[string]string, bool) string {
	r.calls++
	return "#resolved"
}

func TestResolveValue_ColorSeam(t *testing.T) {
	ctx := context.Background()
	th := theme.Default()
	rec := &recordingColorResolver{}

	if got := ResolveValue(ctx, rec, Tok("surface"), "color", th, false); got != "#resolved" {
		t.Errorf("ResolveValue() = %q, want the seam result", got)
	}
	if rec.calls != 1 {
		t.Errorf("color resolver called %d times, want 1", rec.calls)
	}

	// non-color categories stay native
	if got := ResolveValue(ctx, rec, Tok("m"), "padding", th, false); got != "1rem" {
		t.Errorf("ResolveValue(padding) = %q, want 1rem", got)
	}
	if rec.calls != 1 {
		t.Errorf("color resolver called %d times after spacing lookup, want 1", rec.calls)
	}
}
