package misc

import (
	"strings"
	"testing"
)

func TestGetAppName(t *testing.T) {
	name := GetAppName()
	if len(name) == 0 {
		t.Fatal("GetAppName() returned empty string")
	}
	if strings.ContainsAny(name, `/\`) {
		t.Errorf("GetAppName() = %q, contains path separators", name)
	}
}

func TestGetVersion(t *testing.T) {
	if len(GetVersion()) == 0 {
		t.Error("GetVersion() returned empty string")
	}
}

func TestGetGitHash(t *testing.T) {
	if len(GetGitHash()) == 0 {
		t.Error("GetGitHash() returned empty string")
	}
}
