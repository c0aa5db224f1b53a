// Package changelog parses and rewrites CHANGELOG.md files made of setext
// style sections: a header line over a hyphen underline, newest first.
package changelog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fbkclanna/craterepo/internal/semver"
)

var (
	// ErrAlreadyReleased is reported when the top section already carries a
	// release date.
	ErrAlreadyReleased = errors.New("changelog section already released")

	// ErrOpenSectionMisplaced is reported when an undated section appears
	// anywhere but at the top.
	ErrOpenSectionMisplaced = errors.New("open changelog section not at top")

	// ErrNoSections is reported when an operation needs a section and the
	// document has none.
	ErrNoSections = errors.New("changelog has no sections")
)

// SyntaxError describes a line that violates the changelog grammar.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("changelog line %d: %s", e.Line, e.Msg)
}

// HeaderKind classifies a section header.
type HeaderKind int

const (
	// Released sections carry a version and a release date.
	Released HeaderKind = iota
	// InProgress sections carry a version still under development.
	InProgress
	// InDevelopment sections carry no version at all.
	InDevelopment
)

// Header is a parsed section header.
type Header struct {
	Kind    HeaderKind
	Version semver.Version
	Date    time.Time
}

// Open reports whether the header denotes unreleased work.
func (h Header) Open() bool { return h.Kind != Released }

func (h Header) String() string {
	switch h.Kind {
	case Released:
		return fmt.Sprintf("v%s (%s)", h.Version, h.Date.Format("2006-01-02"))
	case InProgress:
		return fmt.Sprintf("v%s (in development)", h.Version)
	default:
		return "In Development"
	}
}

type section struct {
	header     Header
	headerText string
	underline  string
	body       []string
}

// Document is an ordered list of changelog sections. The original bytes of
// every untouched element survive a parse/serialize round trip.
type Document struct {
	sections []section
}

// New creates a single-section document.
func New(h Header, body string) *Document {
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	text := h.String()
	return &Document{sections: []section{{
		header:     h,
		headerText: text,
		underline:  strings.Repeat("-", len(text)),
		body:       splitLines(body),
	}}}
}

// Parse parses changelog text.
func Parse(text string) (*Document, error) {
	lines := splitLines(text)
	type mark struct{ header, rule int }
	var marks []mark
	for i, raw := range lines {
		t := strings.TrimSuffix(raw, "\n")
		if t == "" || strings.Count(t, "-") != len(t) {
			continue
		}
		if len(t) < 3 {
			return nil, &SyntaxError{Line: i + 1, Msg: "section underline shorter than 3 hyphens"}
		}
		if i == 0 {
			return nil, &SyntaxError{Line: 1, Msg: "section underline with no header"}
		}
		marks = append(marks, mark{header: i - 1, rule: i})
	}
	if len(marks) == 0 {
		if strings.TrimSpace(text) != "" {
			return nil, &SyntaxError{Line: 1, Msg: "content before first section"}
		}
		return &Document{}, nil
	}
	if marks[0].header > 0 {
		return nil, &SyntaxError{Line: 1, Msg: "content before first section"}
	}
	d := &Document{}
	for k, m := range marks {
		text := strings.TrimSuffix(lines[m.header], "\n")
		h, err := parseHeader(text)
		if err != nil {
			return nil, &SyntaxError{Line: m.header + 1, Msg: err.Error()}
		}
		if h.Open() && k != 0 {
			return nil, fmt.Errorf("%w: %q", ErrOpenSectionMisplaced, text)
		}
		end := len(lines)
		if k+1 < len(marks) {
			end = marks[k+1].header
		}
		start := m.rule + 1
		if end < start {
			end = start
		}
		d.sections = append(d.sections, section{
			header:     h,
			headerText: text,
			underline:  strings.TrimSuffix(lines[m.rule], "\n"),
			body:       lines[start:end],
		})
	}
	return d, nil
}

// parseHeader parses "vVERSION (DATE)", "vVERSION (in development)", or
// "In Development". Nothing may precede or follow the form.
func parseHeader(s string) (Header, error) {
	if strings.EqualFold(s, "In Development") {
		return Header{Kind: InDevelopment}, nil
	}
	rest, ok := strings.CutPrefix(s, "v")
	if !ok {
		return Header{}, fmt.Errorf("invalid section header %q", s)
	}
	sp := strings.IndexAny(rest, " \t")
	if sp <= 0 {
		return Header{}, fmt.Errorf("invalid section header %q", s)
	}
	v, err := semver.Parse(rest[:sp])
	if err != nil {
		return Header{}, fmt.Errorf("invalid section header %q: %v", s, err)
	}
	rest = strings.TrimLeft(rest[sp:], " \t")
	if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
		return Header{}, fmt.Errorf("invalid section header %q", s)
	}
	inner := rest[1 : len(rest)-1]
	if strings.EqualFold(inner, "in development") {
		return Header{Kind: InProgress, Version: v}, nil
	}
	date, err := time.Parse("2006-01-02", inner)
	if err != nil {
		return Header{}, fmt.Errorf("invalid date %q in section header", inner)
	}
	return Header{Kind: Released, Version: v, Date: date}, nil
}

// Len returns the number of sections.
func (d *Document) Len() int { return len(d.sections) }

// Header returns the header of section i, newest first.
func (d *Document) Header(i int) Header { return d.sections[i].header }

// Body returns the body of section i with trailing blank lines removed.
func (d *Document) Body(i int) string {
	lines := d.sections[i].body
	end := len(lines)
	for end > 0 && strings.TrimSuffix(lines[end-1], "\n") == "" {
		end--
	}
	var b strings.Builder
	for _, ln := range lines[:end] {
		b.WriteString(ln)
	}
	s := b.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// TopOpen reports whether the document starts with an open section.
func (d *Document) TopOpen() bool {
	return len(d.sections) > 0 && d.sections[0].header.Open()
}

func (d *Document) String() string {
	var b strings.Builder
	for _, s := range d.sections {
		b.WriteString(s.headerText)
		b.WriteString("\n")
		b.WriteString(s.underline)
		b.WriteString("\n")
		for _, ln := range s.body {
			b.WriteString(ln)
		}
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
