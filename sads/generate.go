package sads

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"sade/dom"
	"sade/theme"
)

// GenerateBase renders the base declaration block for one element from its
// styling attributes. Structural keys and the reserved layout key never
// produce declarations, values resolving to the empty string are
// suppressed. Keys are processed in sorted order so equal payloads render
// identical blocks. warn, when not nil, receives every key outside the
// known vocabulary.
func GenerateBase(ctx context.Context, cr ColorResolver, attrs []dom.Attr, th *theme.Theme, dark bool, warn func(key string)) string {
	if len(attrs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(attrs))
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, ok := values[a.Key]; !ok {
			keys = append(keys, a.Key)
		}
		values[a.Key] = a.Value
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch key {
		case dom.KeyComponent, dom.KeyElement, dom.KeyResponsive:
			continue
		}
		prop, ok := MapKey(key)
		if !ok {
			continue
		}
		if warn != nil && !InVocabulary(key) {
			warn(key)
		}
		val := ResolveValue(ctx, cr, ParseValue(values[key]), prop, th, dark)
		if val == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s;\n", prop, val)
	}
	return b.String()
}
