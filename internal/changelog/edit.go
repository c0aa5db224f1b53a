package changelog

import (
	"strings"
	"time"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// ReleaseTop dates the top section, keeping its body and underline as they
// are. It fails with ErrAlreadyReleased if the top section is already dated.
func (d *Document) ReleaseTop(v semver.Version, date time.Time) error {
	if len(d.sections) == 0 {
		return ErrNoSections
	}
	s := &d.sections[0]
	if !s.header.Open() {
		return ErrAlreadyReleased
	}
	s.header = Header{Kind: Released, Version: v, Date: date}
	s.headerText = s.header.String()
	return nil
}

// Prepend inserts a new empty section above the current first one.
func (d *Document) Prepend(h Header) {
	text := h.String()
	s := section{
		header:     h,
		headerText: text,
		underline:  strings.Repeat("-", len(text)),
	}
	if len(d.sections) > 0 {
		s.body = []string{"\n"}
	}
	d.sections = append([]section{s}, d.sections...)
}

// EnsureOpenTop prepends a generic In Development section unless the top
// section is already open.
func (d *Document) EnsureOpenTop() {
	if !d.TopOpen() {
		d.Prepend(Header{Kind: InDevelopment})
	}
}

// UpsertTopNote records a note line in the top section: the first body line
// starting with prefix is replaced, otherwise the note is appended after the
// last non-blank body line.
func (d *Document) UpsertTopNote(prefix, note string) {
	if len(d.sections) == 0 {
		return
	}
	s := &d.sections[0]
	for i, ln := range s.body {
		if strings.HasPrefix(ln, prefix) {
			s.body[i] = note + "\n"
			return
		}
	}
	end := len(s.body)
	for end > 0 && strings.TrimSuffix(s.body[end-1], "\n") == "" {
		end--
	}
	if end > 0 && !strings.HasSuffix(s.body[end-1], "\n") {
		s.body[end-1] += "\n"
	}
	s.body = append(s.body, "")
	copy(s.body[end+1:], s.body[end:])
	s.body[end] = note + "\n"
}
