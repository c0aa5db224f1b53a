package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// stash is a sibling directory that temporarily holds the repository's
// untracked files while the registry publish runs, so they cannot end up in
// the published package.
type stash struct {
	root string
	dir  string
}

func newStash(toplevel string) (*stash, error) {
	abs, err := filepath.Abs(toplevel)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(abs)
	if base == "/" || base == "." {
		return nil, fmt.Errorf("cannot determine sibling stash directory for %s", toplevel)
	}
	return &stash{root: abs, dir: filepath.Join(filepath.Dir(abs), base+".stash")}, nil
}

// put moves the given repository-relative paths into the stash, creating
// parent directories as needed.
func (s *stash) put(paths []string) error {
	for _, rel := range paths {
		src := filepath.Join(s.root, rel)
		dest := filepath.Join(s.dir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("stashing %s: %w", rel, err)
		}
		if err := renameExclusive(src, dest); err != nil {
			return fmt.Errorf("stashing %s: %w", rel, err)
		}
	}
	return nil
}

func (s *stash) exists() bool {
	_, err := os.Lstat(s.dir)
	return err == nil
}

// restore moves everything in the stash back under the repository root and
// removes the emptied stash directory.
func (s *stash) restore() error {
	return moveTreeInto(s.dir, s.root)
}

// moveTreeInto moves every entry under src to the same relative path under
// dest, merging into directories that exist on both sides, then removes the
// emptied src. A file already present at a target path is an error.
func moveTreeInto(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dest, e.Name())
		if !e.IsDir() {
			if err := renameExclusive(from, to); err != nil {
				return fmt.Errorf("restoring %s: %w", from, err)
			}
			continue
		}
		info, err := os.Lstat(to)
		switch {
		case err == nil && info.IsDir():
			if err := moveTreeInto(from, to); err != nil {
				return err
			}
		case err == nil:
			return fmt.Errorf("cannot restore directory %s over non-directory %s", from, to)
		case errors.Is(err, os.ErrNotExist):
			if err := os.Rename(from, to); err != nil {
				return fmt.Errorf("restoring %s: %w", from, err)
			}
		default:
			return err
		}
	}
	return os.Remove(src)
}

// renameExclusive renames src to dest, failing if dest already exists.
func renameExclusive(src, dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%s already exists", dest)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return os.Rename(src, dest)
}
