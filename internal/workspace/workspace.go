package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fbkclanna/craterepo/internal/manifest"
	"github.com/fbkclanna/craterepo/internal/semver"
)

// Workspace is the set of packages sharing one project root. A standalone
// package is a workspace of one.
type Workspace struct {
	RootDir      string
	RootManifest *manifest.Document
	Packages     []*Package
	byName       map[string]*Package
}

func (w *Workspace) add(p *Package) {
	w.Packages = append(w.Packages, p)
	w.byName[p.Name] = p
}

// ByName returns the member with the given package name.
func (w *Workspace) ByName(name string) (*Package, bool) {
	p, ok := w.byName[name]
	return p, ok
}

// Root returns the root package, absent for a virtual workspace.
func (w *Workspace) Root() (*Package, bool) {
	for _, p := range w.Packages {
		if p.IsRoot {
			return p, true
		}
	}
	return nil, false
}

// IsVirtual reports whether the root manifest declares members but no
// package of its own.
func (w *Workspace) IsVirtual() bool {
	return w.RootManifest.IsVirtualWorkspace()
}

// IsWorkspace reports whether the root manifest has a workspace table.
func (w *Workspace) IsWorkspace() bool {
	return w.RootManifest.HasWorkspace()
}

// LockfilePath returns the path of the shared Cargo.lock.
func (w *Workspace) LockfilePath() string {
	return filepath.Join(w.RootDir, "Cargo.lock")
}

// Current returns the member whose directory contains dir.
func (w *Workspace) Current(dir string) (*Package, error) {
	manifestPath, err := Find(dir)
	if err != nil {
		return nil, err
	}
	for _, p := range w.Packages {
		if p.ManifestPath == manifestPath {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no workspace package in %s", filepath.Dir(manifestPath))
}

// Edge is a dependency declaration by From on member To.
type Edge struct {
	From *Package
	To   *Package
	Dep  manifest.Dependency
}

// Edges returns every dependency edge between members. Only path
// dependencies resolving inside the workspace count; a registry dependency
// that happens to share a member's name is not an edge.
func (w *Workspace) Edges() []Edge {
	var edges []Edge
	for _, from := range w.Packages {
		for _, dep := range from.Manifest.Dependencies() {
			if dep.Path == "" {
				continue
			}
			to, ok := w.byName[dep.Package]
			if !ok || to == from {
				continue
			}
			if filepath.Clean(filepath.Join(from.Dir, dep.Path)) != to.Dir {
				continue
			}
			edges = append(edges, Edge{From: from, To: to, Dep: dep})
		}
	}
	return edges
}

// DependentsOf returns the members declaring a path dependency on pkg, in
// package order.
func (w *Workspace) DependentsOf(pkg *Package) []*Package {
	var out []*Package
	seen := make(map[string]bool)
	for _, e := range w.Edges() {
		if e.To == pkg && !seen[e.From.Name] {
			seen[e.From.Name] = true
			out = append(out, e.From)
		}
	}
	return out
}

// PropagateVersion rewrites every dependent's requirement on pkg that does
// not accept v, saving the touched manifests. When note is true each touched
// dependent that owns a changelog records the bump there. It returns the
// touched dependents.
func (w *Workspace) PropagateVersion(pkg *Package, v semver.Version, note bool) ([]*Package, error) {
	var touched []*Package
	for _, dep := range w.DependentsOf(pkg) {
		changed, err := dep.Manifest.UpdateRequirement(pkg.Name, v)
		if err != nil {
			return touched, err
		}
		if !changed {
			continue
		}
		if err := dep.Manifest.Save(); err != nil {
			return touched, err
		}
		touched = append(touched, dep)
		if !note {
			continue
		}
		log, ok, err := dep.ReadChangelog()
		if err != nil {
			return touched, err
		}
		if !ok {
			continue
		}
		log.EnsureOpenTop()
		prefix := fmt.Sprintf("- Update `%s` dependency to ", pkg.Name)
		log.UpsertTopNote(prefix, prefix+"v"+v.String())
		if err := dep.WriteChangelog(log); err != nil {
			return touched, err
		}
	}
	return touched, nil
}

// SetLockVersion updates the lockfile entry for pkg. A missing lockfile or
// entry is a no-op.
func (w *Workspace) SetLockVersion(pkg string, v semver.Version) error {
	lf, err := manifest.LoadLockfile(w.LockfilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if lf.SetVersion(pkg, v) {
		return lf.Save()
	}
	return nil
}
