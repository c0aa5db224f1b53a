package readme

import (
	"errors"
	"strings"
	"testing"
)

const sampleReadme = `[![Project Status: WIP – Initial development is in progress, but there has not yet been a stable, usable release suitable for the public.](https://www.repostatus.org/badges/latest/wip.svg)](https://www.repostatus.org/#wip)
[![CI Status](https://github.com/jwodder/quux/actions/workflows/test.yml/badge.svg)](https://github.com/jwodder/quux/actions/workflows/test.yml)
[![MSRV](https://img.shields.io/badge/MSRV-1.70-orange)](https://www.rust-lang.org)

[GitHub](https://github.com/jwodder/quux) | [Documentation](https://docs.rs/quux)

Quux does a thing.
`

func TestParse_roundTrip(t *testing.T) {
	inputs := []string{
		sampleReadme,
		"Plain text readme.\n\nNo badges at all.\n",
		"[GitHub](https://github.com/jwodder/quux)\n\nbody\n",
		"[![MSRV](https://img.shields.io/badge/MSRV-1.70-orange)](https://www.rust-lang.org)\n\nbody without links\n",
		"[GitHub](https://github.com/jwodder/quux)\nbody right after links\n",
		"[GitHub](https://github.com/jwodder/quux)",
		"",
	}
	for _, in := range inputs {
		d, err := Parse(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got := d.String(); got != in {
			t.Errorf("round trip changed content:\ngot  %q\nwant %q", got, in)
		}
	}
}

func TestParse_badges(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	badges := d.Badges()
	if len(badges) != 3 {
		t.Fatalf("badges = %d, want 3", len(badges))
	}
	if got := badges[1].Alt; got != "CI Status" {
		t.Errorf("alt = %q, want %q", got, "CI Status")
	}
	if got := badges[1].Image; got != "https://github.com/jwodder/quux/actions/workflows/test.yml/badge.svg" {
		t.Errorf("image = %q", got)
	}
	if got := badges[1].Target; got != "https://github.com/jwodder/quux/actions/workflows/test.yml" {
		t.Errorf("target = %q", got)
	}
	links := d.Links()
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	if links[0].Text != "GitHub" || links[1].Text != "Documentation" {
		t.Errorf("link texts = %q, %q", links[0].Text, links[1].Text)
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"malformed badge", "[![broken](https://example.com/x.svg)](missing close\n\nbody\n"},
		{"badge without blank", "[![A](https://example.com/a.svg)](https://example.com)\nbody\n"},
		{"content before badges", "intro text\n[![A](https://example.com/a.svg)](https://example.com)\n\nbody\n"},
		{"malformed link line", "[GitHub](https://github.com/x/y) | [broken\n\nbody\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Errorf("error type = %T, want *SyntaxError", err)
			}
		})
	}
}

func TestRepoStatus(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	slug, ok := d.RepoStatus()
	if !ok {
		t.Fatal("RepoStatus not found")
	}
	if slug != "wip" {
		t.Errorf("slug = %q, want %q", slug, "wip")
	}
}

func TestSetRepoStatus(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.SetRepoStatus("active") {
		t.Fatal("SetRepoStatus = false, want true")
	}
	out := d.String()
	wantLine := "[![Project Status: Active – The project has reached a stable, usable state and is being actively developed.](https://www.repostatus.org/badges/latest/active.svg)](https://www.repostatus.org/#active)"
	if !strings.Contains(out, wantLine+"\n") {
		t.Errorf("active badge line missing from:\n%s", out)
	}
	if strings.Contains(out, "wip") {
		t.Error("wip segments still present after SetRepoStatus")
	}
	slug, _ := d.RepoStatus()
	if slug != "active" {
		t.Errorf("slug = %q, want %q", slug, "active")
	}
}

func TestSetRepoStatus_noBadge(t *testing.T) {
	d, err := Parse("Plain text readme.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.SetRepoStatus("active") {
		t.Error("SetRepoStatus = true, want false")
	}
}

func TestSetMSRV(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := d.MSRV(); !ok || v != "1.70" {
		t.Fatalf("MSRV = %q, %v, want 1.70, true", v, ok)
	}
	if !d.SetMSRV("1.74") {
		t.Fatal("SetMSRV = false, want true")
	}
	if !strings.Contains(d.String(), "https://img.shields.io/badge/MSRV-1.74-orange") {
		t.Errorf("badge not rewritten:\n%s", d.String())
	}
}

func TestUpsertHeaderLink_update(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.UpsertHeaderLink(LinkGitHub, "https://github.com/jwodder/renamed") {
		t.Error("changed = false, want true")
	}
	if d.UpsertHeaderLink(LinkGitHub, "https://github.com/jwodder/renamed") {
		t.Error("second upsert changed = true, want false")
	}
	if got := d.Links()[0].URL; got != "https://github.com/jwodder/renamed" {
		t.Errorf("url = %q", got)
	}
}

func TestUpsertHeaderLink_insertCanonicalOrder(t *testing.T) {
	d, err := Parse(sampleReadme)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.UpsertHeaderLink(LinkCratesIO, "https://crates.io/crates/quux") {
		t.Fatal("changed = false, want true")
	}
	var texts []string
	for _, l := range d.Links() {
		texts = append(texts, l.Text)
	}
	want := []string{"GitHub", "crates.io", "Documentation"}
	if len(texts) != len(want) {
		t.Fatalf("links = %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestUpsertHeaderLink_createsLine(t *testing.T) {
	d, err := Parse("[![MSRV](https://img.shields.io/badge/MSRV-1.70-orange)](https://www.rust-lang.org)\n\nThe body.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.UpsertHeaderLink(LinkChangelog, "https://github.com/jwodder/quux/blob/main/CHANGELOG.md") {
		t.Fatal("changed = false, want true")
	}
	want := "[![MSRV](https://img.shields.io/badge/MSRV-1.70-orange)](https://www.rust-lang.org)\n\n[Changelog](https://github.com/jwodder/quux/blob/main/CHANGELOG.md)\n\nThe body.\n"
	if got := d.String(); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}
