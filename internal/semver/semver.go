package semver

import (
	"errors"
	"fmt"
	"strings"

	mv "github.com/Masterminds/semver/v3"
)

// ErrSyntax is reported when a string is not a valid semantic version.
var ErrSyntax = errors.New("invalid semantic version")

// Level selects which version component a bump increments.
type Level int

const (
	Patch Level = iota
	Minor
	Major
)

func (l Level) String() string {
	switch l {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// Version is a semantic version. The zero Version is not meaningful; obtain
// values from Parse, ParseLax, or the arithmetic methods.
type Version struct {
	v *mv.Version
}

// Parse parses a strict major.minor.patch[-prerelease][+metadata] version.
func Parse(s string) (Version, error) {
	v, err := mv.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	return Version{v: v}, nil
}

// ParseLax parses a version, tolerating one leading "v".
func ParseLax(s string) (Version, error) {
	return Parse(strings.TrimPrefix(s, "v"))
}

// MustParse is Parse for literals in tests and fixtures; it panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return v.v.String()
}

func (v Version) Major() uint64 { return v.v.Major() }
func (v Version) Minor() uint64 { return v.v.Minor() }
func (v Version) Patch() uint64 { return v.v.Patch() }

// Prerelease returns the prerelease identifier, or "" for a release version.
func (v Version) Prerelease() string { return v.v.Prerelease() }

// Metadata returns the build metadata, excluded from ordering.
func (v Version) Metadata() string { return v.v.Metadata() }

// IsPrerelease reports whether the version carries a prerelease identifier.
func (v Version) IsPrerelease() bool { return v.v.Prerelease() != "" }

// Compare orders versions by semver precedence; build metadata is ignored.
func (v Version) Compare(o Version) int {
	return v.v.Compare(o.v)
}

// Equal reports identity: equal precedence and equal metadata.
func (v Version) Equal(o Version) bool {
	return v.v.Compare(o.v) == 0 && v.v.Metadata() == o.v.Metadata()
}

// Base returns the version with prerelease and metadata stripped.
func (v Version) Base() Version {
	return Version{v: mv.New(v.Major(), v.Minor(), v.Patch(), "", "")}
}

// Bump increments the named component, zeroes the less significant ones, and
// clears prerelease and metadata. The result always compares greater than v.
func (v Version) Bump(l Level) Version {
	switch l {
	case Major:
		return Version{v: mv.New(v.Major()+1, 0, 0, "", "")}
	case Minor:
		return Version{v: mv.New(v.Major(), v.Minor()+1, 0, "", "")}
	default:
		return Version{v: mv.New(v.Major(), v.Minor(), v.Patch()+1, "", "")}
	}
}

// NextDev returns the next minor version with a "dev" prerelease, the state a
// project enters after a release.
func (v Version) NextDev() Version {
	return Version{v: mv.New(v.Major(), v.Minor()+1, 0, "dev", "")}
}
