package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Set by the linker during release builds.
var (
	version string
	gitHash string
)

// GetAppName returns the name of the running executable, without directory or
// extension. It is used for logger naming, temporary files and reports, so it
// must never fail.
func GetAppName() string {
	name, err := os.Executable()
	if err != nil {
		name = os.Args[0]
	}
	name = filepath.Base(name)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GetVersion returns the program version: the linker supplied one when
// present, otherwise whatever the module build information carries.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "unknown"
}

// GetGitHash returns the VCS revision recorded in the build information or
// the linker supplied value.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
