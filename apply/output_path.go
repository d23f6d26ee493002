package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"sade/config"
	"sade/dom"
	"sade/state"
)

// buildOutputPath returns constructed output file path/name based on various
// input parameters. It uses either default naming scheme or user-defined
// template and takes into account whether to preserve source directory
// structure on the output. It cleans up path and if requested transliterates
// it
func buildOutputPath(doc dom.Document, src, dst, refID string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, env)

	if env.Cfg.Output.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(doc, src, refID, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}

	return assemblePathWithSubdirs(outDir, expandedName, src, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if env.Cfg.Output.FileNameTransliterate {
		baseName = slug.Make(baseName)
	}
	return config.CleanFileName(baseName) + outputExtension(src)
}

// outputExtension keeps the source extension so relative references stay
// valid. Sources without extension become ".html".
func outputExtension(src string) string {
	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		return ".html"
	}
	return ext
}

func expandOutputNameTemplate(doc dom.Document, src, refID string, env *state.LocalEnv) string {
	values := buildValues(config.OutputNameTemplateFieldName, doc, src, refID, env.Cfg.Styling.ColorScheme)
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Output.OutputNameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(expandedName)
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName, src string, env *state.LocalEnv) string {
	outExt := outputExtension(src)
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1], env) + outExt
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment, env))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
		path = head
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}

// resolveCollision applies the configured collision policy when the output
// file already exists and returns the path to actually write to.
func resolveCollision(outputName string, env *state.LocalEnv) (string, error) {
	if _, err := os.Stat(outputName); err != nil {
		if os.IsNotExist(err) {
			return outputName, nil
		}
		return "", err
	}

	mode := env.Cfg.Output.Overwrite
	if env.Overwrite {
		mode = config.OverwriteReplace
	}

	switch mode {
	case config.OverwriteReplace:
		env.Log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err := os.Remove(outputName); err != nil {
			return "", err
		}
		return outputName, nil
	case config.OverwriteUnique:
		ext := filepath.Ext(outputName)
		base := strings.TrimSuffix(outputName, ext)
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
			if _, err := os.Stat(candidate); err != nil {
				if os.IsNotExist(err) {
					return candidate, nil
				}
				return "", err
			}
		}
	default:
		return "", fmt.Errorf("output file already exists: %s", outputName)
	}
}
