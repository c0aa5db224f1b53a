package readme

import "strings"

const (
	repostatusBadgePrefix = "https://www.repostatus.org/badges/latest/"
	repostatusTargetBase  = "https://www.repostatus.org/#"
	msrvBadgePrefix       = "https://img.shields.io/badge/MSRV-"
)

var repoStatuses = map[string]bool{
	"abandoned":   true,
	"active":      true,
	"concept":     true,
	"inactive":    true,
	"moved":       true,
	"suspended":   true,
	"unsupported": true,
	"wip":         true,
}

// Alt texts published by repostatus.org for the statuses the release flow
// writes itself. Other statuses keep whatever alt text they had.
var repostatusAlts = map[string]string{
	"active": "Project Status: Active – The project has reached a stable, usable state and is being actively developed.",
	"wip":    "Project Status: WIP – Initial development is in progress, but there has not yet been a stable, usable release suitable for the public.",
}

func repostatusSlug(imageURL string) (string, bool) {
	rest, ok := strings.CutPrefix(imageURL, repostatusBadgePrefix)
	if !ok {
		return "", false
	}
	slug, ok := strings.CutSuffix(rest, ".svg")
	if !ok {
		return "", false
	}
	slug = strings.ToLower(slug)
	if !repoStatuses[slug] {
		return "", false
	}
	return slug, true
}

// RepoStatus returns the status slug of the repostatus badge, if any.
func (d *Document) RepoStatus() (string, bool) {
	for _, b := range d.badges {
		if slug, ok := repostatusSlug(b.Image); ok {
			return slug, true
		}
	}
	return "", false
}

// SetRepoStatus rewrites the status segments of the repostatus badge and
// reports whether a badge was found.
func (d *Document) SetRepoStatus(slug string) bool {
	for i, b := range d.badges {
		if _, ok := repostatusSlug(b.Image); !ok {
			continue
		}
		d.badges[i].Image = repostatusBadgePrefix + slug + ".svg"
		d.badges[i].Target = repostatusTargetBase + slug
		if alt, ok := repostatusAlts[slug]; ok {
			d.badges[i].Alt = alt
		}
		return true
	}
	return false
}

func msrvParts(imageURL string) (version, color string, ok bool) {
	rest, ok := strings.CutPrefix(imageURL, msrvBadgePrefix)
	if !ok {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, '-')
	if i < 0 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}

// MSRV returns the version shown by the MSRV badge, if any.
func (d *Document) MSRV() (string, bool) {
	for _, b := range d.badges {
		if v, _, ok := msrvParts(b.Image); ok {
			return v, true
		}
	}
	return "", false
}

// SetMSRV rewrites the version segment of the MSRV badge, keeping its color,
// and reports whether a badge was found.
func (d *Document) SetMSRV(version string) bool {
	for i, b := range d.badges {
		if _, color, ok := msrvParts(b.Image); ok {
			d.badges[i].Image = msrvBadgePrefix + version + "-" + color
			return true
		}
	}
	return false
}

// UpsertHeaderLink sets the URL of the named header link, inserting the link
// in canonical order if absent and creating the link line if the readme has
// none. It reports whether anything changed.
func (d *Document) UpsertHeaderLink(text, url string) bool {
	for i, l := range d.links {
		if l.Text == text {
			if l.URL == url {
				return false
			}
			d.links[i].URL = url
			return true
		}
	}
	link := Link{Text: text, URL: url}
	if !d.hasLinks {
		d.hasLinks = true
		d.linksNL = "\n"
		d.blankAfterLinks = len(d.rest) > 0
		d.links = []Link{link}
		return true
	}
	at := len(d.links)
	for i, l := range d.links {
		if linkRank(l.Text) > linkRank(text) {
			at = i
			break
		}
	}
	d.links = append(d.links, Link{})
	copy(d.links[at+1:], d.links[at:])
	d.links[at] = link
	return true
}

// linkRank orders the known link texts. Unrecognized texts rank lowest and
// never force an insertion point, keeping their position.
func linkRank(text string) int {
	for i, t := range linkOrder {
		if t == text {
			return i
		}
	}
	return -1
}
