package apply

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"sade/config"
	"sade/dom"
	"sade/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.FileNameTransliterate = transliterate
	cfg.Output.OutputNameTemplate = template

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func setupTestDocForPath(t *testing.T) dom.Document {
	t.Helper()
	page := `<html lang="en"><head><title>Test Page</title></head><body><p data-sads-padding="m">x</p></body></html>`
	doc, err := dom.ParseHTML(strings.NewReader(page), zap.NewNop())
	if err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func TestBuildOutputPath_SimpleCase_NoDirs(t *testing.T) {
	doc := setupTestDocForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := buildOutputPath(doc, "pages/section/page.html", "/output", "ref-1", env)
	expected := filepath.Join("/output", "page.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_SimpleCase_WithDirs(t *testing.T) {
	doc := setupTestDocForPath(t)
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := buildOutputPath(doc, "pages/section/page.html", "/output", "ref-1", env)
	expected := filepath.Join("/output", "pages", "section", "page.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_KeepsSourceExtension(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ext  string
	}{
		{"html", "page.html", ".html"},
		{"htm", "page.htm", ".htm"},
		{"xhtml", "page.xhtml", ".xhtml"},
		{"uppercase", "PAGE.HTML", ".html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := setupTestDocForPath(t)
			env := setupTestEnvForOutputPath(t, true, false, "")

			result := buildOutputPath(doc, tt.src, "/output", "ref-1", env)
			if got := filepath.Ext(result); got != tt.ext {
				t.Errorf("buildOutputPath() extension = %q, want %q", got, tt.ext)
			}
		})
	}
}

func TestBuildOutputPath_Transliterate(t *testing.T) {
	doc := setupTestDocForPath(t)
	env := setupTestEnvForOutputPath(t, true, true, "")

	result := buildOutputPath(doc, "Книга.html", "/output", "ref-1", env)
	expected := filepath.Join("/output", "kniga.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_Template(t *testing.T) {
	doc := setupTestDocForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "styled/{{.Name}}-{{.Scheme}}")

	result := buildOutputPath(doc, "pages/page.html", "/output", "ref-1", env)
	expected := filepath.Join("/output", "styled", "page-light.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestBuildOutputPath_BadTemplateFallsBack(t *testing.T) {
	doc := setupTestDocForPath(t)
	env := setupTestEnvForOutputPath(t, true, false, "{{.Name")

	result := buildOutputPath(doc, "page.html", "/output", "ref-1", env)
	expected := filepath.Join("/output", "page.html")

	if result != expected {
		t.Errorf("buildOutputPath() = %q, want %q", result, expected)
	}
}

func TestDetermineOutputDir_NoDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := determineOutputDir("pages/section/page.html", "/output", env)
	expected := "/output"

	if result != expected {
		t.Errorf("determineOutputDir() = %q, want %q", result, expected)
	}
}

func TestDetermineOutputDir_WithDirs(t *testing.T) {
	env := setupTestEnvForOutputPath(t, false, false, "")

	result := determineOutputDir("pages/section/page.html", "/output", env)
	expected := filepath.Join("/output", "pages", "section")

	if result != expected {
		t.Errorf("determineOutputDir() = %q, want %q", result, expected)
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		expected      string
	}{
		{"simple", "page.html", false, "page.html"},
		{"with path", "path/to/page.html", false, "page.html"},
		{"no extension", "README", false, "README.html"},
		{"transliterate", "Книга.html", true, "kniga.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := buildDefaultFileName(tt.src, env)
			if result != tt.expected {
				t.Errorf("buildDefaultFileName() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSplitAndCleanPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "section/page", []string{"section", "page"}},
		{"single segment", "page", []string{"page"}},
		{"with trailing slash", "section/page/", []string{"section", "page"}},
		{"three levels", "site/section/page", []string{"site", "section", "page"}},
		{"empty path", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndCleanPath(tt.path)
			if len(result) != len(tt.expected) {
				t.Errorf("splitAndCleanPath() length = %d, want %d", len(result), len(tt.expected))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndCleanPath()[%d] = %q, want %q", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "section", false, "section"},
		{"with spaces", "My Page", false, "My Page"},
		{"transliterate cyrillic", "Раздел", true, "razdel"},
		{"special chars", "page:name", false, "pagename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := cleanPathSegment(tt.segment, env)
			if result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs(t *testing.T) {
	tests := []struct {
		name          string
		outDir        string
		expandedName  string
		transliterate bool
		expected      string
	}{
		{
			"simple template",
			"/output",
			"section/page",
			false,
			filepath.Join("/output", "section", "page.html"),
		},
		{
			"single level",
			"/output",
			"page",
			false,
			filepath.Join("/output", "page.html"),
		},
		{
			"with transliterate",
			"/output",
			"Раздел/Книга",
			true,
			filepath.Join("/output", "razdel", "kniga.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate, "")

			result := assemblePathWithSubdirs(tt.outDir, tt.expandedName, "page.html", env)
			if result != tt.expected {
				t.Errorf("assemblePathWithSubdirs() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestAssemblePathWithSubdirs_EmptyPath(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	result := assemblePathWithSubdirs("/output", "", "page.html", env)
	expected := "/output"

	if result != expected {
		t.Errorf("assemblePathWithSubdirs() with empty path = %q, want %q", result, expected)
	}
}

func TestResolveCollision_MissingFile(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")

	path := filepath.Join(t.TempDir(), "page.html")
	got, err := resolveCollision(path, env)
	if err != nil {
		t.Fatalf("resolveCollision() error = %v", err)
	}
	if got != path {
		t.Errorf("resolveCollision() = %q, want %q", got, path)
	}
}

func TestResolveCollision_FailMode(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Output.Overwrite = config.OverwriteFail

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := resolveCollision(path, env); err == nil {
		t.Error("expected error for existing file in fail mode")
	}
}

func TestResolveCollision_ReplaceMode(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Output.Overwrite = config.OverwriteReplace

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveCollision(path, env)
	if err != nil {
		t.Fatalf("resolveCollision() error = %v", err)
	}
	if got != path {
		t.Errorf("resolveCollision() = %q, want %q", got, path)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected existing file to be removed in replace mode")
	}
}

func TestResolveCollision_UniqueMode(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Output.Overwrite = config.OverwriteUnique

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	for _, name := range []string{"page.html", "page-1.html"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := resolveCollision(path, env)
	if err != nil {
		t.Fatalf("resolveCollision() error = %v", err)
	}
	expected := filepath.Join(dir, "page-2.html")
	if got != expected {
		t.Errorf("resolveCollision() = %q, want %q", got, expected)
	}
}

func TestResolveCollision_OverwriteFlagWins(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Output.Overwrite = config.OverwriteFail
	env.Overwrite = true

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveCollision(path, env)
	if err != nil {
		t.Fatalf("resolveCollision() error = %v", err)
	}
	if got != path {
		t.Errorf("resolveCollision() = %q, want %q", got, path)
	}
}
