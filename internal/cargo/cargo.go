// Package cargo shells out to the cargo CLI for the registry operations the
// release flow needs.
package cargo

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Cargo runs cargo commands in a package directory.
type Cargo struct {
	dir string
}

// New returns a Cargo handle rooted at dir.
func New(dir string) *Cargo {
	return &Cargo{dir: dir}
}

// Publish uploads the package described by manifestPath to the registry.
// Output streams to the console and cargo's exit status decides success.
func (c *Cargo) Publish(manifestPath string) error {
	return run(c.dir, "publish", "--manifest-path", manifestPath)
}

// run executes a cargo command with output passed through to the console.
func run(dir string, args ...string) error {
	cmd := exec.Command("cargo", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
