package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// testdataPath returns the path of a file under testdata. In Bazel tests it
// uses runfiles; outside of Bazel it falls back to finding go.mod and
// resolving the path from the module root.
func testdataPath(t *testing.T, name string) string {
	t.Helper()
	rel := filepath.Join("cmd", "enumdispatch", "commands", "testdata", name)
	if p, err := bazel.Runfile(rel); err == nil {
		return p
	}

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, rel)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above the working directory")
		}
		dir = parent
	}
}

// copyTestdata copies a testdata file into a fresh temporary directory.
func copyTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(testdataPath(t, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	dst := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
	return dst
}
