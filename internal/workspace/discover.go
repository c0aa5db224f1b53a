package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fbkclanna/craterepo/internal/manifest"
)

// ErrMemberUnreadable is reported when a declared workspace member cannot be
// loaded.
var ErrMemberUnreadable = errors.New("workspace member unreadable")

// Find walks up from dir to the nearest directory containing a Cargo.toml
// and returns the manifest path.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}
	for {
		p := filepath.Join(dir, "Cargo.toml")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no Cargo.toml found in the current directory or any parent")
		}
		dir = parent
	}
}

// Discover loads the project enclosing dir: the manifest found by Find plus,
// for a workspace, every member resolved from the root's member globs.
func Discover(dir string) (*Workspace, error) {
	manifestPath, err := Find(dir)
	if err != nil {
		return nil, err
	}
	root, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if !root.HasWorkspace() {
		manifestPath, root = expandToWorkspaceRoot(manifestPath, root)
	}
	rootDir := filepath.Dir(manifestPath)

	w := &Workspace{
		RootDir:      rootDir,
		RootManifest: root,
		byName:       make(map[string]*Package),
	}
	if root.HasPackage() {
		p, err := newPackage(root, rootDir, true)
		if err != nil {
			return nil, err
		}
		w.add(p)
	}
	if root.HasWorkspace() {
		dirs, err := resolveMembers(rootDir, root.WorkspaceMembers(), root.WorkspaceExcludes())
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			if d == rootDir {
				continue
			}
			doc, err := manifest.Load(filepath.Join(d, "Cargo.toml"))
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMemberUnreadable, d, err)
			}
			p, err := newPackage(doc, d, false)
			if err != nil {
				return nil, err
			}
			if prev, ok := w.byName[p.Name]; ok {
				return nil, fmt.Errorf("workspace contains multiple packages named %q (%s, %s)",
					p.Name, prev.ManifestPath, p.ManifestPath)
			}
			w.add(p)
		}
	}
	sort.Slice(w.Packages, func(i, j int) bool { return w.Packages[i].Name < w.Packages[j].Name })
	return w, nil
}

func newPackage(doc *manifest.Document, dir string, isRoot bool) (*Package, error) {
	name, err := doc.Name()
	if err != nil {
		return nil, err
	}
	return &Package{
		Name:         name,
		Dir:          dir,
		ManifestPath: doc.Path(),
		Manifest:     doc,
		IsRoot:       isRoot,
	}, nil
}

// expandToWorkspaceRoot walks the ancestors of a member manifest looking for
// a workspace root that claims it. Without one the member stands alone.
func expandToWorkspaceRoot(manifestPath string, doc *manifest.Document) (string, *manifest.Document) {
	dir := filepath.Dir(manifestPath)
	for cur := filepath.Dir(dir); ; cur = filepath.Dir(cur) {
		p := filepath.Join(cur, "Cargo.toml")
		if _, err := os.Stat(p); err == nil {
			cand, err := manifest.Load(p)
			if err == nil && cand.HasWorkspace() {
				dirs, err := resolveMembers(cur, cand.WorkspaceMembers(), cand.WorkspaceExcludes())
				if err == nil {
					for _, d := range dirs {
						if d == dir {
							return p, cand
						}
					}
				}
			}
		}
		if cur == filepath.Dir(cur) {
			return manifestPath, doc
		}
	}
}

// resolveMembers expands member globs to directories, dropping excluded
// paths. A pattern without glob metacharacters must match something.
func resolveMembers(rootDir string, members, excludes []string) ([]string, error) {
	excluded := make(map[string]bool, len(excludes))
	for _, e := range excludes {
		excluded[filepath.Clean(filepath.Join(rootDir, e))] = true
	}
	var dirs []string
	seen := make(map[string]bool)
	for _, pattern := range members {
		matches, err := filepath.Glob(filepath.Join(rootDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("%w: bad member pattern %q: %v", ErrMemberUnreadable, pattern, err)
		}
		if len(matches) == 0 && !strings.ContainsAny(pattern, "*?[") {
			return nil, fmt.Errorf("%w: member %q does not exist", ErrMemberUnreadable, pattern)
		}
		for _, m := range matches {
			m = filepath.Clean(m)
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				continue
			}
			if excluded[m] || seen[m] {
				continue
			}
			seen[m] = true
			dirs = append(dirs, m)
		}
	}
	return dirs, nil
}
