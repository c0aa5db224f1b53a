// Package readme parses and rewrites README.md files that follow the badge
// header layout: badge lines, a blank line, an optional pipe-separated link
// line, then freeform text.
package readme

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError describes a line that violates the readme grammar.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("readme line %d: %s", e.Line, e.Msg)
}

// Badge is one `[![alt](image)](target)` line.
type Badge struct {
	Alt    string
	Image  string
	Target string
}

func (b Badge) String() string {
	return "[![" + b.Alt + "](" + b.Image + ")](" + b.Target + ")"
}

// Link is one `[text](url)` entry of the header link line.
type Link struct {
	Text string
	URL  string
}

func (l Link) String() string {
	return "[" + l.Text + "](" + l.URL + ")"
}

// Header link texts recognized by UpsertHeaderLink, in canonical order.
const (
	LinkGitHub    = "GitHub"
	LinkCratesIO  = "crates.io"
	LinkDocs      = "Documentation"
	LinkChangelog = "Changelog"
)

var linkOrder = []string{LinkGitHub, LinkCratesIO, LinkDocs, LinkChangelog}

// Document is a parsed README. Untouched elements survive a parse/serialize
// round trip byte for byte.
type Document struct {
	badges          []Badge
	links           []Link
	hasLinks        bool
	linksNL         string
	blankAfterLinks bool
	rest            []string
}

var (
	badgeRe = regexp.MustCompile(`^\[!\[([^\]]+)\]\(([^)]+)\)\]\(([^)]+)\)$`)
	linkRe  = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)
)

// Parse parses readme text.
func Parse(text string) (*Document, error) {
	lines := splitLines(text)
	d := &Document{}
	i := 0
	for i < len(lines) {
		t := strings.TrimSuffix(lines[i], "\n")
		m := badgeRe.FindStringSubmatch(t)
		if m == nil {
			if strings.HasPrefix(t, "[![") {
				return nil, &SyntaxError{Line: i + 1, Msg: "malformed badge line"}
			}
			break
		}
		d.badges = append(d.badges, Badge{Alt: m[1], Image: m[2], Target: m[3]})
		i++
	}
	if len(d.badges) > 0 {
		if i >= len(lines) || strings.TrimSuffix(lines[i], "\n") != "" {
			return nil, &SyntaxError{Line: i + 1, Msg: "badge block not followed by a blank line"}
		}
		i++
	} else {
		for j := i; j < len(lines); j++ {
			t := strings.TrimSuffix(lines[j], "\n")
			if t == "" {
				break
			}
			if badgeRe.MatchString(t) {
				return nil, &SyntaxError{Line: j + 1, Msg: "content before badge block"}
			}
		}
	}
	if i < len(lines) {
		t := strings.TrimSuffix(lines[i], "\n")
		if strings.HasPrefix(t, "[") {
			links, err := parseLinks(t)
			if err != nil {
				return nil, &SyntaxError{Line: i + 1, Msg: err.Error()}
			}
			d.links = links
			d.hasLinks = true
			d.linksNL = strings.TrimPrefix(lines[i], t)
			i++
			if i < len(lines) && strings.TrimSuffix(lines[i], "\n") == "" {
				d.blankAfterLinks = true
				i++
			}
		}
	}
	d.rest = lines[i:]
	return d, nil
}

func parseLinks(line string) ([]Link, error) {
	var links []Link
	for _, part := range strings.Split(line, " | ") {
		m := linkRe.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("malformed header link %q", part)
		}
		links = append(links, Link{Text: m[1], URL: m[2]})
	}
	return links, nil
}

// Badges returns the parsed badge lines.
func (d *Document) Badges() []Badge { return d.badges }

// Links returns the header links, nil if the readme has no link line.
func (d *Document) Links() []Link { return d.links }

func (d *Document) String() string {
	var b strings.Builder
	for _, bd := range d.badges {
		b.WriteString(bd.String())
		b.WriteString("\n")
	}
	if len(d.badges) > 0 {
		b.WriteString("\n")
	}
	if d.hasLinks {
		parts := make([]string, len(d.links))
		for i, l := range d.links {
			parts[i] = l.String()
		}
		b.WriteString(strings.Join(parts, " | "))
		b.WriteString(d.linksNL)
		if d.blankAfterLinks {
			b.WriteString("\n")
		}
	}
	for _, ln := range d.rest {
		b.WriteString(ln)
	}
	return b.String()
}

// splitLines splits text into lines, each keeping its trailing newline.
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
