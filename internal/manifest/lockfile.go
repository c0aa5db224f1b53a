package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// Lockfile is a Cargo.lock held as raw lines so that version rewrites
// preserve the rest of the file byte for byte.
type Lockfile struct {
	path  string
	lines []string
}

type lockData struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// LoadLockfile reads and parses a lockfile.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile: %w", err)
	}
	var parsed lockData
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	return &Lockfile{path: path, lines: splitLines(string(data))}, nil
}

// SetVersion rewrites the version of every [[package]] entry named pkg and
// reports whether any entry was found.
func (l *Lockfile) SetVersion(pkg string, v semver.Version) bool {
	changed := false
	inBlock := false
	isPkg := false
	versionAt := -1
	flush := func() {
		if isPkg && versionAt >= 0 {
			if nl, ok := replaceStringValue(l.lines[versionAt], v.String()); ok {
				l.lines[versionAt] = nl
				changed = true
			}
		}
		isPkg = false
		versionAt = -1
	}
	for i, line := range l.lines {
		if hk := headerKey(line); hk != nil {
			flush()
			inBlock = equalKey(hk, []string{"package"})
			continue
		}
		if !inBlock {
			continue
		}
		k, ok := keyValueLine(line)
		if !ok {
			continue
		}
		switch k {
		case "name":
			if val, ok := quotedValue(line); ok && val == pkg {
				isPkg = true
			}
		case "version":
			versionAt = i
		}
	}
	flush()
	return changed
}

// Save writes the lockfile back to disk.
func (l *Lockfile) Save() error {
	if err := os.WriteFile(l.path, []byte(strings.Join(l.lines, "")), 0644); err != nil {
		return fmt.Errorf("writing lockfile: %w", err)
	}
	return nil
}

// quotedValue extracts the quoted scalar after the first top-level "=".
func quotedValue(line string) (string, bool) {
	eq := topLevelIndex(line, '=')
	if eq < 0 {
		return "", false
	}
	i := eq + 1
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || (line[i] != '"' && line[i] != '\'') {
		return "", false
	}
	q := line[i]
	j := i + 1
	for j < len(line) {
		if q == '"' && line[j] == '\\' {
			j += 2
			continue
		}
		if line[j] == q {
			return line[i+1 : j], true
		}
		j++
	}
	return "", false
}
