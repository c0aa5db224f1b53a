// Package license updates the copyright year ranges of LICENSE files.
package license

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrNoCopyrightLine is reported when a license file contains no parseable
// copyright line.
var ErrNoCopyrightLine = errors.New("copyright line not found")

// CopyrightLine is a parsed "Copyright (c) YEARS AUTHORS" line. The text up
// to the year list is kept verbatim, so a line without "(c)" stays without
// it when rewritten.
type CopyrightLine struct {
	prefix  string
	ranges  []yearRange
	authors string
}

type yearRange struct{ lo, hi int }

// ParseLine parses a copyright line. It reports false for lines that do not
// follow the form.
func ParseLine(line string) (CopyrightLine, bool) {
	i := skipSpace(line, 0)
	if !strings.HasPrefix(line[i:], "Copyright") {
		return CopyrightLine{}, false
	}
	i += len("Copyright")
	j := skipSpace(line, i)
	if j == i {
		return CopyrightLine{}, false
	}
	i = j
	if strings.HasPrefix(line[i:], "(c)") {
		i += len("(c)")
		j = skipSpace(line, i)
		if j == i {
			return CopyrightLine{}, false
		}
		i = j
	}
	ranges, end, ok := parseYearRanges(line, i)
	if !ok {
		return CopyrightLine{}, false
	}
	j = skipSpace(line, end)
	if j == end || j >= len(line) {
		return CopyrightLine{}, false
	}
	return CopyrightLine{
		prefix:  line[:i],
		ranges:  normalize(ranges),
		authors: line[j:],
	}, true
}

// AddYear extends the year set, merging into an adjacent range where
// possible.
func (c *CopyrightLine) AddYear(y int) {
	c.ranges = normalize(append(c.ranges, yearRange{y, y}))
}

// Covers reports whether the year set contains y.
func (c *CopyrightLine) Covers(y int) bool {
	for _, r := range c.ranges {
		if r.lo <= y && y <= r.hi {
			return true
		}
	}
	return false
}

func (c CopyrightLine) String() string {
	parts := make([]string, len(c.ranges))
	for i, r := range c.ranges {
		if r.lo == r.hi {
			parts[i] = strconv.Itoa(r.lo)
		} else {
			parts[i] = fmt.Sprintf("%d-%d", r.lo, r.hi)
		}
	}
	return c.prefix + strings.Join(parts, ", ") + " " + c.authors
}

// UpdateFile adds years to the first copyright line of the file at path,
// leaving every other line untouched.
func UpdateFile(path string, years []int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading license: %w", err)
	}
	lines := strings.SplitAfter(string(data), "\n")
	found := false
	for i, ln := range lines {
		text := strings.TrimSuffix(ln, "\n")
		cl, ok := ParseLine(text)
		if !ok {
			continue
		}
		for _, y := range years {
			cl.AddYear(y)
		}
		lines[i] = cl.String() + strings.TrimPrefix(ln, text)
		found = true
		break
	}
	if !found {
		return fmt.Errorf("%s: %w", path, ErrNoCopyrightLine)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0644); err != nil {
		return fmt.Errorf("writing license: %w", err)
	}
	return nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func scanInt(s string, i int) (val, end int, ok bool) {
	end = i
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == i {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s[i:end])
	if err != nil {
		return 0, 0, false
	}
	return n, end, true
}

// parseYearRanges parses "YYYY[-YYYY][, ...]" starting at pos, returning the
// index just past the final year.
func parseYearRanges(s string, pos int) ([]yearRange, int, bool) {
	var ranges []yearRange
	for {
		lo, p, ok := scanInt(s, pos)
		if !ok {
			return nil, 0, false
		}
		hi := lo
		pos = p
		q := skipSpace(s, pos)
		if q < len(s) && s[q] == '-' {
			q = skipSpace(s, q+1)
			hi, p, ok = scanInt(s, q)
			if !ok || hi < lo {
				return nil, 0, false
			}
			pos = p
			q = skipSpace(s, pos)
		}
		ranges = append(ranges, yearRange{lo, hi})
		if q < len(s) && s[q] == ',' {
			pos = skipSpace(s, q+1)
			continue
		}
		return ranges, pos, true
	}
}

// normalize sorts ranges and merges any that overlap or touch.
func normalize(ranges []yearRange) []yearRange {
	if len(ranges) == 0 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].lo != ranges[j].lo {
			return ranges[i].lo < ranges[j].lo
		}
		return ranges[i].hi < ranges[j].hi
	})
	out := ranges[:1:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.lo <= last.hi+1 {
			if r.hi > last.hi {
				last.hi = r.hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
