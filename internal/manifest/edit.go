package manifest

import (
	"fmt"
	"strings"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// SetVersion rewrites the package version, leaving every other byte of the
// file untouched.
func (d *Document) SetVersion(v semver.Version) error {
	return d.SetPackageField("version", v.String())
}

// SetPackageField rewrites a string-valued field in the [package] table,
// appending the field to the table if it is not present yet.
func (d *Document) SetPackageField(key, value string) error {
	if d.data.Package == nil {
		return fmt.Errorf("%s: %w %q", d.path, ErrMissingField, "package")
	}
	if !d.setInTable([]string{"package"}, key, value) {
		if !d.appendToTable([]string{"package"}, key+" = "+quote(value)+"\n") {
			return fmt.Errorf("%s: %w %q", d.path, ErrMissingField, "package")
		}
	}
	switch key {
	case "version":
		d.data.Package.Version = value
	case "rust-version":
		d.data.Package.RustVersion = value
	case "repository":
		d.data.Package.Repository = value
	}
	return nil
}

// UpdateRequirement rewrites the version requirement of every dependency on
// pkg that does not already accept v. Dependencies declared without a
// requirement, such as pure path dependencies, are left alone. It reports
// whether anything changed.
func (d *Document) UpdateRequirement(pkg string, v semver.Version) (bool, error) {
	changed := false
	for _, dep := range d.Dependencies() {
		if dep.Package != pkg || dep.Req == "" {
			continue
		}
		ok, err := semver.RequirementAccepts(dep.Req, v)
		if err != nil {
			return changed, fmt.Errorf("%s: dependency %s: %w", d.path, dep.Name, err)
		}
		if ok {
			continue
		}
		newReq := semver.RewriteRequirement(dep.Req, v)
		if err := d.rewriteDepReq(dep.Table, dep.Name, newReq); err != nil {
			return changed, err
		}
		d.syncDepReq(dep.Table, dep.Name, newReq)
		changed = true
	}
	return changed, nil
}

// setInTable rewrites the string value of key inside the named table.
func (d *Document) setInTable(table []string, key, value string) bool {
	start, end, ok := d.tableRange(table...)
	if !ok {
		return false
	}
	for i := start; i < end; i++ {
		k, ok := keyValueLine(d.lines[i])
		if !ok || k != key {
			continue
		}
		if nl, ok := replaceStringValue(d.lines[i], value); ok {
			d.lines[i] = nl
			return true
		}
		return false
	}
	return false
}

// appendToTable inserts a raw line after the last non-blank line of the
// named table's body.
func (d *Document) appendToTable(table []string, raw string) bool {
	start, end, ok := d.tableRange(table...)
	if !ok {
		return false
	}
	pos := end
	for pos > start && strings.TrimSpace(d.lines[pos-1]) == "" {
		pos--
	}
	d.insertLine(pos, raw)
	return true
}

// insertLine inserts a raw line at index i, fixing up a missing final
// newline on the preceding line.
func (d *Document) insertLine(i int, raw string) {
	if i > 0 && !strings.HasSuffix(d.lines[i-1], "\n") {
		d.lines[i-1] += "\n"
	}
	d.lines = append(d.lines, "")
	copy(d.lines[i+1:], d.lines[i:])
	d.lines[i] = raw
}

// rewriteDepReq locates the requirement of a dependency, in either inline or
// full-table form, and replaces it.
func (d *Document) rewriteDepReq(table, name, newReq string) error {
	if start, end, ok := d.tableRange(table); ok {
		for i := start; i < end; i++ {
			k, ok := keyValueLine(d.lines[i])
			if !ok {
				continue
			}
			switch k {
			case name:
				if nl, ok := replaceStringValue(d.lines[i], newReq); ok {
					d.lines[i] = nl
					return nil
				}
				if nl, ok := replaceInlineVersion(d.lines[i], newReq); ok {
					d.lines[i] = nl
					return nil
				}
			case name + ".version":
				if nl, ok := replaceStringValue(d.lines[i], newReq); ok {
					d.lines[i] = nl
					return nil
				}
			}
		}
	}
	if d.setInTable([]string{table, name}, "version", newReq) {
		return nil
	}
	return fmt.Errorf("%s: dependency %s: requirement not found", d.path, name)
}

// syncDepReq updates the decoded dependency tables to match a rewrite.
func (d *Document) syncDepReq(table, name, newReq string) {
	var m map[string]interface{}
	switch table {
	case "dependencies":
		m = d.data.Dependencies
	case "dev-dependencies":
		m = d.data.DevDependencies
	case "build-dependencies":
		m = d.data.BuildDependencies
	}
	switch v := m[name].(type) {
	case string:
		m[name] = newReq
	case map[string]interface{}:
		v["version"] = newReq
	}
}

// replaceStringValue swaps the quoted scalar after the first top-level "=",
// keeping the quote style and everything around it.
func replaceStringValue(line, value string) (string, bool) {
	eq := topLevelIndex(line, '=')
	if eq < 0 {
		return line, false
	}
	return replaceQuotedAt(line, eq+1, value)
}

// replaceInlineVersion rewrites the version entry of an inline-table value
// such as `foo = { version = "1.2", features = ["x"] }`.
func replaceInlineVersion(line, value string) (string, bool) {
	eq := topLevelIndex(line, '=')
	if eq < 0 {
		return line, false
	}
	i := bareWordIndex(line, eq+1, "version")
	if i < 0 {
		return line, false
	}
	j := i + len("version")
	for j < len(line) && (line[j] == ' ' || line[j] == '\t') {
		j++
	}
	if j >= len(line) || line[j] != '=' {
		return line, false
	}
	return replaceQuotedAt(line, j+1, value)
}

// replaceQuotedAt replaces the content of the first quoted string at or
// after index from, preserving the quote character.
func replaceQuotedAt(line string, from int, value string) (string, bool) {
	i := from
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i >= len(line) || (line[i] != '"' && line[i] != '\'') {
		return line, false
	}
	q := line[i]
	j := i + 1
	for j < len(line) {
		if q == '"' && line[j] == '\\' {
			j += 2
			continue
		}
		if line[j] == q {
			break
		}
		j++
	}
	if j >= len(line) {
		return line, false
	}
	return line[:i+1] + value + line[j:], true
}

// bareWordIndex returns the index of word appearing outside strings at or
// after from, bounded by non-identifier characters.
func bareWordIndex(line string, from int, word string) int {
	var inStr byte
	for i := from; i < len(line); i++ {
		c := line[i]
		if inStr != 0 {
			if inStr == '"' && c == '\\' {
				i++
				continue
			}
			if c == inStr {
				inStr = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			inStr = c
			continue
		}
		if strings.HasPrefix(line[i:], word) {
			before := i == from || !isIdentChar(line[i-1])
			afterIdx := i + len(word)
			after := afterIdx >= len(line) || !isIdentChar(line[afterIdx])
			if before && after {
				return i
			}
			i = afterIdx - 1
		}
	}
	return -1
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func quote(s string) string {
	return `"` + s + `"`
}
