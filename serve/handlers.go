package serve

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"sade/dom"
	"sade/sads"
	"sade/theme"
)

// maxFragmentSize caps /api/render request bodies.
const maxFragmentSize = 4 << 20

var errComponentNotFound = errors.New("component not found")

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.requestLog(r.Context()), http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": s.env.Uptime().Round(time.Millisecond).String(),
	})
}

// handleTheme reports the theme every render request resolves against:
// built-in defaults with configured overrides merged in.
func (s *server) handleTheme(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.requestLog(r.Context()), http.StatusOK, theme.Merge(theme.Default(), s.overrides))
}

// handleRender styles the HTML fragment from the request body and responds
// with the fragment carrying its generated stylesheet. The "dark" query
// parameter switches the color scheme for this request only.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFragmentSize))
	if err != nil {
		http.Error(w, "unable to read request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		http.Error(w, "empty fragment", http.StatusBadRequest)
		return
	}

	dark := false
	if v := r.URL.Query().Get("dark"); len(v) > 0 {
		if dark, err = strconv.ParseBool(v); err != nil {
			http.Error(w, "unrecognized dark flag: "+v, http.StatusBadRequest)
			return
		}
	}

	doc, err := dom.ParseHTML(bytes.NewReader(body), log)
	if err != nil {
		http.Error(w, "unable to parse fragment: "+err.Error(), http.StatusBadRequest)
		return
	}

	engine := sads.NewEngine(sads.Options{
		Overrides: s.overrides,
		Dark:      dark,
		Offload:   s.env.Offload,
		Log:       log,
	})
	if err := engine.ApplyStyles(r.Context(), doc); err != nil {
		http.Error(w, "unable to apply styles: "+err.Error(), http.StatusInternalServerError)
		return
	}
	doc.InjectStylesheet(engine.Sheet().String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := doc.Render(w); err != nil {
		log.Error("Unable to render response", zap.Error(err))
	}
}

func (s *server) handleComponents(w http.ResponseWriter, r *http.Request) {
	log := s.requestLog(r.Context())

	names, err := s.componentNames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, log, http.StatusOK, names)
}

func (s *server) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := s.componentBody(name)
	if errors.Is(err, errComponentNotFound) {
		http.Error(w, "component not found: "+name, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// componentNames lists available fragments in natural order. Without a
// configured components directory the built-in samples are listed.
func (s *server) componentNames() ([]string, error) {
	dir := s.env.Cfg.Serve.ComponentsDir
	if len(dir) == 0 {
		names := make([]string, 0, len(s.env.DefaultComponents))
		for name := range s.env.DefaultComponents {
			names = append(names, name)
		}
		sort.Sort(natural.StringSlice(names))
		return names, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read components directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isFragmentFile(entry.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

func (s *server) componentBody(name string) ([]byte, error) {
	dir := s.env.Cfg.Serve.ComponentsDir
	if len(dir) == 0 {
		body, ok := s.env.DefaultComponents[name]
		if !ok {
			return nil, errComponentNotFound
		}
		return body, nil
	}

	// Lookups stay pinned inside the components directory.
	if name != filepath.Base(name) {
		return nil, errComponentNotFound
	}
	for _, ext := range []string{".html", ".htm"} {
		body, err := os.ReadFile(filepath.Join(dir, name+ext))
		if err == nil {
			return body, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, errComponentNotFound
}

func isFragmentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}
