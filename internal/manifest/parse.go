package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a manifest file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(path, data)
}

// Parse parses manifest content. The path is recorded for error messages and
// for Save.
func Parse(path string, data []byte) (*Document, error) {
	d := &Document{path: path, lines: splitLines(string(data))}
	meta, err := toml.Decode(string(data), &d.data)
	if err != nil {
		return nil, &SyntaxError{Path: path, Err: err}
	}
	d.meta = meta
	return d, nil
}

// Bytes returns the current document content.
func (d *Document) Bytes() []byte {
	return []byte(strings.Join(d.lines, ""))
}

// Save writes the document back to its file.
func (d *Document) Save() error {
	if err := os.WriteFile(d.path, d.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// splitLines splits content into lines, each keeping its trailing newline.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// headerKey parses a table header line ("[package]", "[[bin]]",
// "[dependencies.foo]") into its key path, or nil for non-header lines.
func headerKey(line string) []string {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "[") {
		return nil
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimPrefix(s, "[")
	i := strings.IndexByte(s, ']')
	if i < 0 {
		return nil
	}
	return splitKey(s[:i])
}

// splitKey splits a dotted TOML key into segments, honoring quoting.
func splitKey(s string) []string {
	var (
		parts  []string
		cur    strings.Builder
		inStr  byte
		quoted bool
	)
	flush := func() {
		seg := cur.String()
		if !quoted {
			seg = strings.TrimSpace(seg)
		}
		parts = append(parts, seg)
		cur.Reset()
		quoted = false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inStr != 0:
			if c == inStr {
				inStr = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '"' || c == '\'':
			inStr = c
			quoted = true
		case c == '.':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return parts
}

// keyValueLine returns the normalized key of a "key = value" line.
func keyValueLine(line string) (string, bool) {
	eq := topLevelIndex(line, '=')
	if eq < 0 {
		return "", false
	}
	key := strings.TrimSpace(line[:eq])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "#") {
		return "", false
	}
	segs := splitKey(key)
	return strings.Join(segs, "."), true
}

// topLevelIndex returns the index of the first c outside strings and
// comments, or -1.
func topLevelIndex(s string, c byte) int {
	var inStr byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inStr != 0 {
			if inStr == '"' && ch == '\\' {
				i++
				continue
			}
			if ch == inStr {
				inStr = 0
			}
			continue
		}
		switch ch {
		case c:
			return i
		case '"', '\'':
			inStr = ch
		case '#':
			return -1
		}
	}
	return -1
}

// tableRange returns the half-open line range of a table's body: the lines
// after its header up to the next header or end of file.
func (d *Document) tableRange(key ...string) (int, int, bool) {
	start := -1
	for i, line := range d.lines {
		hk := headerKey(line)
		if hk == nil {
			continue
		}
		if start >= 0 {
			return start, i, true
		}
		if equalKey(hk, key) {
			start = i + 1
		}
	}
	if start >= 0 {
		return start, len(d.lines), true
	}
	return 0, 0, false
}

func equalKey(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
