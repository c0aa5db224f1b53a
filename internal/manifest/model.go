package manifest

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// Document is a parsed manifest. It keeps the original lines for
// format-preserving edits alongside the decoded semantic view.
type Document struct {
	path  string
	lines []string
	data  manifestData
	meta  toml.MetaData
}

type manifestData struct {
	Package           *packageTable          `toml:"package"`
	Workspace         *workspaceTable        `toml:"workspace"`
	Dependencies      map[string]interface{} `toml:"dependencies"`
	DevDependencies   map[string]interface{} `toml:"dev-dependencies"`
	BuildDependencies map[string]interface{} `toml:"build-dependencies"`
}

type packageTable struct {
	Name        string      `toml:"name"`
	Version     string      `toml:"version"`
	Repository  string      `toml:"repository"`
	RustVersion string      `toml:"rust-version"`
	Publish     interface{} `toml:"publish"`
}

type workspaceTable struct {
	Members []string      `toml:"members"`
	Exclude []string      `toml:"exclude"`
	Package *packageTable `toml:"package"`
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// HasPackage reports whether the manifest declares a [package] table.
func (d *Document) HasPackage() bool { return d.data.Package != nil }

// HasWorkspace reports whether the manifest declares a [workspace] table.
func (d *Document) HasWorkspace() bool { return d.data.Workspace != nil }

// IsVirtualWorkspace reports whether the manifest is a workspace root with no
// package of its own.
func (d *Document) IsVirtualWorkspace() bool {
	return d.data.Workspace != nil && d.data.Package == nil
}

// WorkspaceMembers returns the member path globs of a workspace manifest.
func (d *Document) WorkspaceMembers() []string {
	if d.data.Workspace == nil {
		return nil
	}
	return d.data.Workspace.Members
}

// WorkspaceExcludes returns the excluded member paths of a workspace manifest.
func (d *Document) WorkspaceExcludes() []string {
	if d.data.Workspace == nil {
		return nil
	}
	return d.data.Workspace.Exclude
}

// Name returns the package name.
func (d *Document) Name() (string, error) {
	if d.data.Package == nil || d.data.Package.Name == "" {
		return "", fmt.Errorf("%s: %w %q", d.path, ErrMissingField, "package.name")
	}
	return d.data.Package.Name, nil
}

// Version returns the package version.
func (d *Document) Version() (semver.Version, error) {
	if d.data.Package == nil || (d.data.Package.Version == "" && !d.meta.IsDefined("package", "version")) {
		return semver.Version{}, fmt.Errorf("%s: %w %q", d.path, ErrMissingField, "package.version")
	}
	v, err := semver.Parse(d.data.Package.Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("%s: package.version: %w", d.path, err)
	}
	return v, nil
}

// Repository returns the package repository URL, or "". A workspace root
// may carry it under [workspace.package] instead.
func (d *Document) Repository() string {
	if d.data.Package != nil && d.data.Package.Repository != "" {
		return d.data.Package.Repository
	}
	if d.data.Workspace != nil && d.data.Workspace.Package != nil {
		return d.data.Workspace.Package.Repository
	}
	return ""
}

// RustVersion returns the package rust-version field, or "".
func (d *Document) RustVersion() string {
	if d.data.Package == nil {
		return ""
	}
	return d.data.Package.RustVersion
}

// Publishable reports whether the package may be published to a registry.
// `publish = false` and an empty registry list both disable publishing.
func (d *Document) Publishable() bool {
	if d.data.Package == nil {
		return false
	}
	switch v := d.data.Package.Publish.(type) {
	case nil:
		return true
	case bool:
		return v
	case []interface{}:
		return len(v) > 0
	default:
		return true
	}
}

// HasLibTarget reports whether the manifest declares an explicit [lib] table.
func (d *Document) HasLibTarget() bool { return d.meta.IsDefined("lib") }

// HasBinTarget reports whether the manifest declares an explicit [[bin]] entry.
func (d *Document) HasBinTarget() bool { return d.meta.IsDefined("bin") }

// Dependency is one entry of a dependency table.
type Dependency struct {
	// Name is the table key the dependency is declared under.
	Name string
	// Package is the real package name: the `package` field if renamed,
	// otherwise Name.
	Package string
	// Table is the dependency table: "dependencies", "dev-dependencies", or
	// "build-dependencies".
	Table string
	// Req is the version requirement spec, or "" for requirement-less (for
	// example path-only) dependencies.
	Req string
	// Path is the `path` field, or "".
	Path string
}

var depTables = []string{"dependencies", "dev-dependencies", "build-dependencies"}

// Dependencies lists the entries of all dependency tables in table order.
func (d *Document) Dependencies() []Dependency {
	var deps []Dependency
	for _, table := range depTables {
		m := d.depTable(table)
		for _, name := range d.tableKeys(table, m) {
			deps = append(deps, parseDep(name, table, m[name]))
		}
	}
	return deps
}

func (d *Document) depTable(table string) map[string]interface{} {
	switch table {
	case "dependencies":
		return d.data.Dependencies
	case "dev-dependencies":
		return d.data.DevDependencies
	default:
		return d.data.BuildDependencies
	}
}

// tableKeys returns the keys of a dependency table in declaration order,
// falling back to map order for keys the metadata does not cover.
func (d *Document) tableKeys(table string, m map[string]interface{}) []string {
	var keys []string
	seen := make(map[string]bool, len(m))
	for _, k := range d.meta.Keys() {
		if len(k) >= 2 && k[0] == table {
			if _, ok := m[k[1]]; ok && !seen[k[1]] {
				keys = append(keys, k[1])
				seen[k[1]] = true
			}
		}
	}
	for k := range m {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func parseDep(name, table string, v interface{}) Dependency {
	dep := Dependency{Name: name, Package: name, Table: table}
	switch val := v.(type) {
	case string:
		dep.Req = val
	case map[string]interface{}:
		if s, ok := val["version"].(string); ok {
			dep.Req = s
		}
		if s, ok := val["path"].(string); ok {
			dep.Path = s
		}
		if s, ok := val["package"].(string); ok {
			dep.Package = s
		}
	}
	return dep
}
