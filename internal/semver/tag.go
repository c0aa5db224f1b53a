package semver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTagSyntax is reported when a git tag does not name a version.
var ErrTagSyntax = errors.New("invalid release tag")

// FormatTag renders the tag name for a version: "v1.2.3" for a standalone or
// root package, "name/v1.2.3" when prefix is a package name.
func FormatTag(v Version, prefix string) string {
	if prefix == "" {
		return "v" + v.String()
	}
	return prefix + "/v" + v.String()
}

// ParseTag extracts the version from a tag name, stripping an optional
// "{prefix}/" and an optional leading "v".
func ParseTag(s, prefix string) (Version, error) {
	body := s
	if prefix != "" {
		body = strings.TrimPrefix(body, prefix+"/")
	}
	v, err := Parse(strings.TrimPrefix(body, "v"))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrTagSyntax, s)
	}
	return v, nil
}
