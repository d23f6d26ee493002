package sads

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"sade/theme"
)

// MediaGroup is one generated media-conditional declaration block.
type MediaGroup struct {
	Query string `json:"media"`
	CSS   string `json:"css"`
}

// responsiveRule is one entry of a responsive attribute payload, a
// breakpoint name and the style overrides active under it.
type responsiveRule struct {
	Breakpoint string            `json:"breakpoint"`
	Styles     map[string]string `json:"styles"`
}

// ResolveResponsive parses a responsive rules payload and resolves every
// override. Breakpoint names map to the theme's media query texts, unknown
// names are taken as raw media queries. Groups come back in first
// appearance order, rules sharing a query append to the same group and
// rules whose overrides all suppress produce no group.
func (NativeResolver) ResolveResponsive(ctx context.Context, rulesJSON []byte, th *theme.Theme, dark bool) ([]MediaGroup, error) {
	var rules []responsiveRule
	if err := json.Unmarshal(rulesJSON, &rules); err != nil {
		return nil, fmt.Errorf("parsing responsive rules: %w", err)
	}

	var (
		groups  []MediaGroup
		byQuery = make(map[string]int)
	)
	for _, rule := range rules {
		query, ok := th.Breakpoint(rule.Breakpoint)
		if !ok {
			query = rule.Breakpoint
		}

		keys := make([]string, 0, len(rule.Styles))
		for key := range rule.Styles {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, key := range keys {
			prop, ok := MapKey(key)
			if !ok {
				continue
			}
			val := ResolveValue(ctx, NativeResolver{}, ParseValue(rule.Styles[key]), prop, th, dark)
			if val == "" {
				continue
			}
			fmt.Fprintf(&b, "%s: %s !important;\n", prop, val)
		}
		if b.Len() == 0 {
			continue
		}

		if i, seen := byQuery[query]; seen {
			groups[i].CSS += b.String()
		} else {
			byQuery[query] = len(groups)
			groups = append(groups, MediaGroup{Query: query, CSS: b.String()})
		}
	}
	return groups, nil
}

// ParseResponsive processes an element's responsive payload into ordered
// media groups. An empty payload and a malformed one both come back nil,
// the latter after a warning through log.
func ParseResponsive(ctx context.Context, rr ResponsiveResolver, raw string, th *theme.Theme, dark bool, log *zap.Logger) []MediaGroup {
	if raw == "" {
		return nil
	}
	if rr == nil {
		rr = NativeResolver{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	groups, err := rr.ResolveResponsive(ctx, []byte(raw), th, dark)
	if err != nil {
		log.Warn("Ignoring malformed responsive rules", zap.Error(err))
		return nil
	}
	return groups
}
