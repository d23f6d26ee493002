// Package apply implements batch styling of documents: resolving styling
// attributes into CSS rules and writing restyled copies of the inputs.
package apply

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"sade/config"
	"sade/css"
	"sade/dom"
	"sade/sads"
	"sade/state"
	"sade/theme"
)

//go:embed default.css
var defaultStylesheet []byte

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("apply")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if cmd.Bool("dark") {
		env.Cfg.Styling.ColorScheme = config.ColorSchemeDark
	}

	// Theme overrides: values from configuration first, --theme file on top
	overrides, err := env.Cfg.Styling.EffectiveOverrides(log)
	if err != nil {
		return err
	}
	if path := cmd.String("theme"); len(path) > 0 {
		t, err := theme.Load(path, log)
		if err != nil {
			return fmt.Errorf("unable to read theme overrides from %q: %w", path, err)
		}
		overrides = theme.Merge(overrides, t)
	}
	env.Overrides = overrides

	env.BaseStyle = defaultStylesheet
	if env.Cfg.Document.BaseStylesheet != "" {
		path, err := filepath.Abs(env.Cfg.Document.BaseStylesheet)
		if err != nil {
			return err
		}
		env.Cfg.Document.BaseStylesheet = path
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read base css from %q: %w", path, err)
		}
		env.BaseStyle = data
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs") || env.Cfg.Output.NoDirs, cmd.Bool("overwrite")

	// Legacy documents often lie about or omit their encoding so user may
	// force input character set for all HTML sources
	cp := env.Cfg.Document.ForceCharset
	if len(cp) > 0 {
		env.Charset, err = ianaindex.IANA.Encoding(cp)
		if err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.Charset = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.Charset)
			log.Debug("Forcefully decoding all HTML inputs", zap.String("charset", n))
		}
	}

	if env.Cfg.Styling.Offload.Enable {
		unit := sads.NewUnit(offloadConfig(&env.Cfg.Styling.Offload), log)
		defer unit.Close()
		env.Offload = unit
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("scheme", env.Cfg.Styling.ColorScheme))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// offloadConfig converts configuration values into the resolution unit's
// runtime settings.
func offloadConfig(conf *config.OffloadConfig) sads.OffloadConfig {
	return sads.OffloadConfig{
		Enable:         conf.Enable,
		Command:        conf.Command,
		Args:           conf.Args,
		StartupTimeout: time.Duration(conf.StartupTimeout),
	}
}

// process handles the core styling logic independently of CLI framework. It
// determines the input type (directory or single document) and processes
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s)", src)
	}

	if fi.Mode().IsDir() {
		if err := processDir(ctx, src, dst, log); err != nil {
			return errors.New("unable to process directory")
		}
		return nil
	}

	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if !isDocFile(src) {
		return fmt.Errorf("input was not recognized as a stylable document (%s)", src)
	}

	file, err := os.Open(src)
	if err != nil {
		log.Error("Unable to process file", zap.String("file", src), zap.Error(err))
		return nil
	}
	defer file.Close()

	if err := processDoc(ctx, file, filepath.Base(src), dst, log); err != nil {
		log.Error("Unable to process file", zap.String("file", src), zap.Error(err))
	}
	return nil
}

// isDocFile reports whether path looks like a document we know how to style.
func isDocFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// processDir walks directory tree collecting stylable documents and processes
// them in natural sort order.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !isDocFile(path) {
			log.Debug("Skipping file, not recognized as stylable document", zap.String("file", path))
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}
	sort.Sort(natural.StringSlice(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			continue
		}

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processDoc(ctx, file, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
		file.Close()
	}
	return nil
}

// processDoc styles a single document. "src" is part of the source path
// (always including file name) relative to the original path. When actual
// file was specified it will be just base file name without a path. When
// walking a directory it will be relative path inside that directory. "dst"
// is the destination directory where the styled document should be written.
func processDoc(ctx context.Context, r io.Reader, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	refID := uuid.Must(uuid.NewV7()).String()

	var outputName string

	log.Info("Styling starting", zap.String("from", src), zap.String("ref_id", refID))
	defer func(start time.Time) {
		// A malformed document must never stop the batch.
		if r := recover(); r != nil {
			log.Error("Styling ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("styling panic: %v", r)
		} else {
			log.Info("Styling completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.String("ref_id", refID))
		}
	}(time.Now())

	doc, err := parseDoc(r, src, env, log)
	if err != nil {
		return fmt.Errorf("unable to parse source (%s): %w", src, err)
	}

	engine := sads.NewEngine(sads.Options{
		Overrides: env.Overrides,
		Dark:      env.Cfg.Styling.ColorScheme.Dark(),
		Offload:   env.Offload,
		Log:       log,
	})
	if err := engine.ApplyStyles(ctx, doc); err != nil {
		return fmt.Errorf("unable to apply styles: %w", err)
	}

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(doc, src, dst, refID, env)

	outputName, err = resolveCollision(outputName, env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := placeStyles(doc, engine, outputName, env, log); err != nil {
		return err
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer out.Close()
	if err := doc.Render(out); err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}

	// Store styling results for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("sheet-%s.css", refID), []byte(engine.Sheet().String()))
		buf := new(bytes.Buffer)
		engine.DumpTree(buf)
		env.Rpt.StoreData(fmt.Sprintf("rules-%s.txt", refID), buf.Bytes())
		env.Rpt.Store(fmt.Sprintf("result-%s%s", refID, filepath.Ext(outputName)), outputName)
	}

	return nil
}

// parseDoc parses a document from reader. XML parsing is selected by
// configuration or the source extension. A forced character set reaches the
// HTML parser as transport metadata so it takes precedence over whatever the
// document declares about itself.
func parseDoc(r io.Reader, src string, env *state.LocalEnv, log *zap.Logger) (dom.Document, error) {
	if env.Cfg.Document.XHTML || strings.EqualFold(filepath.Ext(src), ".xhtml") {
		return dom.ParseXHTML(r, log)
	}

	contentType := ""
	if env.Charset != nil {
		if n, err := ianaindex.IANA.Name(env.Charset); err == nil {
			contentType = "text/html; charset=" + n
		}
	}
	return dom.ParseHTMLContentType(r, contentType, log)
}

// placeStyles attaches base and generated styling to the document according
// to the configured placement. The external stylesheet shares the output
// document's name so versioned copies stay paired.
func placeStyles(doc dom.Document, engine *sads.Engine, outputName string, env *state.LocalEnv, log *zap.Logger) error {
	base := baseStylesheet(outputName, env, log)
	generated := engine.Sheet().String()

	switch env.Cfg.Document.Placement {
	case config.PlacementInline:
		doc.InjectStylesheet(combineCSS(base, generated))
	case config.PlacementExternal:
		cssName := strings.TrimSuffix(outputName, filepath.Ext(outputName)) + ".css"
		if err := os.WriteFile(cssName, []byte(combineCSS(base, generated)), 0644); err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
		doc.LinkStylesheet(filepath.Base(cssName))
	case config.PlacementBoth:
		cssName := strings.TrimSuffix(outputName, filepath.Ext(outputName)) + ".css"
		if err := os.WriteFile(cssName, []byte(combineCSS(base, "")), 0644); err != nil {
			return fmt.Errorf("unable to write stylesheet: %w", err)
		}
		doc.LinkStylesheet(filepath.Base(cssName))
		doc.InjectStylesheet(combineCSS("", generated))
	}
	return nil
}

// baseStylesheet returns the base CSS adjusted for the output location. A
// stylesheet configured from a file may reference fonts or images relative to
// its own directory, those references are rewritten to stay valid next to the
// output document.
func baseStylesheet(outputName string, env *state.LocalEnv, log *zap.Logger) string {
	data := env.BaseStyle
	if env.Cfg.Document.BaseStylesheet == "" {
		return string(data)
	}

	baseDir := filepath.Dir(env.Cfg.Document.BaseStylesheet)
	outDir := filepath.Dir(outputName)
	if baseDir == outDir {
		return string(data)
	}

	sheet := css.NewParser(log).Parse(data, env.Cfg.Document.BaseStylesheet)
	for _, w := range sheet.Warnings {
		log.Warn("Dropping unsupported base stylesheet rule", zap.String("detail", w))
	}
	sheet.RewriteURLs(func(url string) string {
		return relocateURL(url, baseDir, outDir)
	})
	return sheet.String()
}

// relocateURL recomputes a relative url reference from the stylesheet's
// original directory to the output directory. Absolute, rooted and data URLs
// pass through untouched.
func relocateURL(url, baseDir, outDir string) string {
	if url == "" || strings.HasPrefix(url, "/") || strings.HasPrefix(url, "data:") || strings.Contains(url, "://") {
		return url
	}
	rel, err := filepath.Rel(outDir, filepath.Join(baseDir, filepath.FromSlash(url)))
	if err != nil {
		return url
	}
	return filepath.ToSlash(rel)
}

// combineCSS joins base and generated rules with the base first so generated
// declarations win ties in the cascade.
func combineCSS(base, generated string) string {
	b, g := strings.TrimSpace(base), strings.TrimSpace(generated)
	switch {
	case b == "" && g == "":
		return ""
	case b == "":
		return g + "\n"
	case g == "":
		return b + "\n"
	}
	return b + "\n\n" + g + "\n"
}
