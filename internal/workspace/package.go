package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fbkclanna/craterepo/internal/changelog"
	"github.com/fbkclanna/craterepo/internal/manifest"
	"github.com/fbkclanna/craterepo/internal/readme"
	"github.com/fbkclanna/craterepo/internal/semver"
)

// Package is one releasable crate: its manifest plus the metadata files
// living next to it.
type Package struct {
	Name         string
	Dir          string
	ManifestPath string
	Manifest     *manifest.Document
	IsRoot       bool
}

// Version returns the manifest version.
func (p *Package) Version() (semver.Version, error) {
	return p.Manifest.Version()
}

// Publishable reports whether the package may be published to a registry.
func (p *Package) Publishable() bool {
	return p.Manifest.Publishable()
}

// IsLib reports whether the package has a library target, declared or by
// the src/lib.rs convention.
func (p *Package) IsLib() bool {
	if p.Manifest.HasLibTarget() {
		return true
	}
	return fileExists(filepath.Join(p.Dir, "src", "lib.rs"))
}

// IsBin reports whether the package has a binary target, declared or by the
// src/main.rs and src/bin conventions.
func (p *Package) IsBin() bool {
	if p.Manifest.HasBinTarget() {
		return true
	}
	if fileExists(filepath.Join(p.Dir, "src", "main.rs")) {
		return true
	}
	entries, err := os.ReadDir(filepath.Join(p.Dir, "src", "bin"))
	return err == nil && len(entries) > 0
}

// TagPrefix returns the Git tag prefix for this package: none for a
// standalone or root package, the package name for other members.
func (p *Package) TagPrefix() string {
	if p.IsRoot {
		return ""
	}
	return p.Name
}

// Tag formats the Git tag naming v of this package.
func (p *Package) Tag(v semver.Version) string {
	return semver.FormatTag(v, p.TagPrefix())
}

func (p *Package) ChangelogPath() string { return filepath.Join(p.Dir, "CHANGELOG.md") }
func (p *Package) ReadmePath() string    { return filepath.Join(p.Dir, "README.md") }
func (p *Package) LicensePath() string   { return filepath.Join(p.Dir, "LICENSE") }

// HasLicense reports whether a LICENSE file exists next to the manifest.
func (p *Package) HasLicense() bool { return fileExists(p.LicensePath()) }

// ReadChangelog loads and parses CHANGELOG.md. A missing file is not an
// error; the second result reports presence.
func (p *Package) ReadChangelog() (*changelog.Document, bool, error) {
	data, err := os.ReadFile(p.ChangelogPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading changelog: %w", err)
	}
	d, err := changelog.Parse(string(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", p.ChangelogPath(), err)
	}
	return d, true, nil
}

// WriteChangelog writes CHANGELOG.md.
func (p *Package) WriteChangelog(d *changelog.Document) error {
	if err := os.WriteFile(p.ChangelogPath(), []byte(d.String()), 0644); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}
	return nil
}

// ReadReadme loads and parses README.md. A missing file is not an error;
// the second result reports presence.
func (p *Package) ReadReadme() (*readme.Document, bool, error) {
	data, err := os.ReadFile(p.ReadmePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading readme: %w", err)
	}
	d, err := readme.Parse(string(data))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", p.ReadmePath(), err)
	}
	return d, true, nil
}

// WriteReadme writes README.md.
func (p *Package) WriteReadme(d *readme.Document) error {
	if err := os.WriteFile(p.ReadmePath(), []byte(d.String()), 0644); err != nil {
		return fmt.Errorf("writing readme: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
