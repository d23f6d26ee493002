// Package sads resolves semantic styling attributes against a theme and
// generates the stylesheet rules for a document. Attribute values are
// semantic tokens (colors, spacing, typography and friends) which the
// engine translates into concrete CSS declarations, base rules first,
// media-conditional overrides after them.
package sads

import (
	"context"
	"io"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"sade/css"
	"sade/dom"
	"sade/theme"
	"sade/utils/debug"
)

// Options configures a styling engine. Zero values select the built-in
// theme, light mode and in-process resolution.
type Options struct {
	Theme      *theme.Theme // nil selects theme.Default
	Overrides  *theme.Theme // layered over Theme, aliases derived after
	Dark       bool
	DarkFn     func() bool // optional, read fresh at the start of every pass
	Color      ColorResolver
	Responsive ResponsiveResolver
	Offload    Offloader // wraps unset resolvers with offloaded ones
	Log        *zap.Logger
}

// Engine owns the styling pass over a document: it walks styled elements,
// resolves their attribute payloads against the active theme and fills the
// rule sheet. One engine serves one sheet, passes are serialized.
type Engine struct {
	mu          sync.Mutex
	base        *theme.Theme
	overrides   *theme.Theme
	th          *theme.Theme
	dark        bool
	darkFn      func() bool
	color       ColorResolver
	responsive  ResponsiveResolver
	offload     Offloader
	offloadDown bool
	sheet       *css.Sheet
	nextID      int
	log         *zap.Logger
}

// NewEngine builds an engine from opts. The effective theme is the base
// theme with overrides merged in and color aliases derived. When an
// offloader is supplied it serves color and responsive resolution with the
// native code as fallback, explicitly set resolvers win over it.
func NewEngine(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	base := opts.Theme
	if base == nil {
		base = theme.Default()
	}
	base = base.Clone()
	overrides := opts.Overrides.Clone()
	th := theme.Merge(base, overrides)
	th.DeriveAliases()

	color := opts.Color
	responsive := opts.Responsive
	if opts.Offload != nil {
		if color == nil {
			color = NewOffloadColorResolver(opts.Offload, log)
		}
		if responsive == nil {
			responsive = NewOffloadResponsiveResolver(opts.Offload, log)
		}
	}
	if color == nil {
		color = NativeResolver{}
	}
	if responsive == nil {
		responsive = NativeResolver{}
	}

	return &Engine{
		base:       base,
		overrides:  overrides,
		th:         th,
		dark:       opts.Dark,
		darkFn:     opts.DarkFn,
		color:      color,
		responsive: responsive,
		offload:    opts.Offload,
		sheet:      css.NewSheet(log),
		nextID:     1,
		log:        log,
	}
}

// ApplyStyles restyles doc: the sheet is rebuilt from scratch and every
// styled element ends up carrying a marker class its rules select on.
// Concurrent calls queue, each pass sees one consistent theme. Rules that
// fail to insert are logged with the element reference and skipped, the
// pass continues.
func (e *Engine) ApplyStyles(ctx context.Context, doc dom.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	e.awaitOffload(ctx)

	dark := e.dark
	if e.darkFn != nil {
		dark = e.darkFn()
	}

	e.sheet.Reset()

	seen := make(map[string]struct{})
	warn := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		e.log.Warn("Styling key outside known vocabulary", zap.String("key", key))
	}

	els := doc.StyledElements()
	e.log.Debug("Styling pass started", zap.Int("elements", len(els)), zap.Bool("dark", dark))

	for _, el := range els {
		if err := ctx.Err(); err != nil {
			return err
		}

		id, ok := el.StyleID()
		if ok {
			if id >= e.nextID {
				e.nextID = id + 1
			}
		} else {
			id = e.nextID
			e.nextID++
			el.SetStyleID(id)
		}
		selector := "." + dom.StyleClass(id)

		if name, ok := el.SadsAttr(dom.KeyComponent); ok {
			e.log.Debug("Styling component root", zap.String("component", name), zap.String("ref", el.Ref()))
		} else if name, ok := el.SadsAttr(dom.KeyElement); ok {
			e.log.Debug("Styling component element", zap.String("element", name), zap.String("ref", el.Ref()))
		}

		if block := GenerateBase(ctx, e.color, el.SadsAttrs(), e.th, dark, warn); block != "" {
			if err := e.sheet.InsertRule(selector, block); err != nil {
				e.log.Error("Dropping base rule", zap.String("ref", el.Ref()), zap.Error(err))
			}
		}

		raw, ok := el.SadsAttr(dom.KeyResponsive)
		if !ok || raw == "" {
			continue
		}
		groups, err := e.responsive.ResolveResponsive(ctx, []byte(raw), e.th, dark)
		if err != nil {
			e.log.Warn("Ignoring malformed responsive rules", zap.String("ref", el.Ref()), zap.Error(err))
			continue
		}
		for _, g := range groups {
			if err := e.sheet.InsertMediaRule(g.Query, selector, g.CSS); err != nil {
				e.log.Error("Dropping media rule", zap.String("ref", el.Ref()), zap.String("media", g.Query), zap.Error(err))
			}
		}
	}

	e.log.Debug("Styling pass finished", zap.Int("rules", e.sheet.Len()))
	return nil
}

// awaitOffload blocks until the offload unit reports ready. A unit that
// fails to come up is never tried again, its resolvers are swapped for
// native ones for the life of the engine.
func (e *Engine) awaitOffload(ctx context.Context) {
	if e.offload == nil || e.offloadDown {
		return
	}
	if err := e.offload.Await(ctx); err != nil {
		e.offloadDown = true
		if _, ok := e.color.(*OffloadColorResolver); ok {
			e.color = NativeResolver{}
		}
		if _, ok := e.responsive.(*OffloadResponsiveResolver); ok {
			e.responsive = NativeResolver{}
		}
		e.log.Warn("Offload unit unavailable, resolving natively", zap.Error(err))
	}
}

// UpdateTheme replaces the override layer and rebuilds the effective
// theme. It does not restyle, callers re-run ApplyStyles to see the
// change.
func (e *Engine) UpdateTheme(overrides *theme.Theme) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.overrides = overrides.Clone()
	th := theme.Merge(e.base, e.overrides)
	th.DeriveAliases()
	e.th = th
}

// Theme returns a copy of the effective theme.
func (e *Engine) Theme() *theme.Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.th.Clone()
}

// Sheet returns the engine's rule sheet.
func (e *Engine) Sheet() *css.Sheet {
	return e.sheet
}

// DumpTree writes a readable tree of the generated rules for manual
// inspection and debug reports.
func (e *Engine) DumpTree(w io.Writer) {
	e.mu.Lock()
	sheet := e.sheet.Stylesheet()
	e.mu.Unlock()

	tw := debug.NewTreeWriter()
	tw.Line(0, "Generated rules: %d", len(sheet.Items))
	for _, item := range sheet.Items {
		switch {
		case item.Rule != nil:
			dumpRule(tw, 1, item.Rule)
		case item.MediaBlock != nil:
			tw.Line(1, "@media %s", item.MediaBlock.Query.Raw)
			for i := range item.MediaBlock.Rules {
				dumpRule(tw, 2, &item.MediaBlock.Rules[i])
			}
		}
	}
	_, _ = tw.WriteTo(w)
}

func dumpRule(tw *debug.TreeWriter, depth int, r *css.Rule) {
	tw.Line(depth, "%s (%d declarations)", r.Selector.Raw, len(r.Properties))
	props := slices.Collect(maps.Keys(r.Properties))
	sort.Sort(natural.StringSlice(props))
	for _, p := range props {
		tw.TextBlock(depth+1, p, r.Properties[p].Raw)
	}
}
