package cargo

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// fakeCargo installs a stub cargo binary on PATH that records its arguments
// and exits with the given status.
func fakeCargo(t *testing.T, exitCode int) string {
	t.Helper()
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\nprintf '%s' \"$*\" > " + argsFile + "\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(filepath.Join(dir, "cargo"), []byte(script), 0755); err != nil { //nolint:gosec // test executable
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile
}

func TestPublish(t *testing.T) {
	argsFile := fakeCargo(t, 0)
	c := New(t.TempDir())

	if err := c.Publish("/work/proj/Cargo.toml"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	want := "publish --manifest-path /work/proj/Cargo.toml"
	if string(args) != want {
		t.Errorf("cargo args = %q, want %q", args, want)
	}
}

func TestPublish_failure(t *testing.T) {
	fakeCargo(t, 1)
	c := New(t.TempDir())

	err := c.Publish("/work/proj/Cargo.toml")
	if err == nil {
		t.Fatal("expected error when cargo exits nonzero")
	}
	if !strings.Contains(err.Error(), "cargo publish") {
		t.Errorf("error = %v, want mention of the cargo command", err)
	}
}
