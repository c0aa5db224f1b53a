package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mv "github.com/Masterminds/semver/v3"
)

// ErrRequirementSyntax is reported when a requirement spec cannot be parsed.
var ErrRequirementSyntax = errors.New("invalid version requirement")

// Requirement is a dependency version requirement. The common caret forms,
// "^1.2.3" and the equivalent bare "1.2", are evaluated directly; tilde,
// wildcard, and comparator specs are delegated to a constraint engine that
// shares their semantics.
type Requirement struct {
	major uint64
	minor *uint64
	patch *uint64
	pre   string

	cons *mv.Constraints
}

// ParseRequirement parses a requirement spec: "^MAJOR[.MINOR[.PATCH[-PRE]]]"
// with the caret optional, or a tilde/wildcard/comparator expression. For
// the caret forms a prerelease is only allowed on a full three-part version.
func ParseRequirement(s string) (Requirement, error) {
	body := strings.TrimSpace(s)
	if body == "" {
		return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
	}
	if !strings.HasPrefix(body, "^") && !bareVersion(body) {
		cons, err := mv.NewConstraint(body)
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
		}
		return Requirement{cons: cons}, nil
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, "^"))
	if body == "" {
		return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
	}

	var pre string
	if i := strings.IndexByte(body, '-'); i >= 0 {
		body, pre = body[:i], body[i+1:]
		if pre == "" {
			return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
		}
	}

	parts := strings.Split(body, ".")
	if len(parts) > 3 || (pre != "" && len(parts) != 3) {
		return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrRequirementSyntax, s)
		}
		nums[i] = n
	}

	r := Requirement{major: nums[0], pre: pre}
	if len(nums) > 1 {
		r.minor = &nums[1]
	}
	if len(nums) > 2 {
		r.patch = &nums[2]
	}
	return r, nil
}

// bareVersion reports whether s is a plain version or version prefix with
// no operator, the form that means the same as its caret spelling.
func bareVersion(s string) bool {
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9', ch == '.':
		case ch == '-', ch == '+':
			// Prerelease or metadata suffix; everything before decided.
			return true
		default:
			return false
		}
	}
	return true
}

// Accepts reports whether the requirement is satisfied by v.
//
// A caret requirement whose base carries a prerelease pins that exact
// version: "^1.2.3-dev" accepts 1.2.3-dev and nothing else, in particular
// not the plain release 1.2.3. A requirement without a prerelease never
// accepts a prerelease candidate.
func (r Requirement) Accepts(v Version) bool {
	if r.cons != nil {
		return r.cons.Check(v.v)
	}
	if r.pre != "" {
		return v.Major() == r.major &&
			r.minor != nil && v.Minor() == *r.minor &&
			r.patch != nil && v.Patch() == *r.patch &&
			v.Prerelease() == r.pre
	}
	if v.IsPrerelease() {
		return false
	}
	if v.Compare(r.lowerBound()) < 0 {
		return false
	}
	return v.Compare(r.upperBound()) < 0
}

// lowerBound is the requirement with missing components filled with zero.
func (r Requirement) lowerBound() Version {
	var minor, patch uint64
	if r.minor != nil {
		minor = *r.minor
	}
	if r.patch != nil {
		patch = *r.patch
	}
	return Version{v: mv.New(r.major, minor, patch, "", "")}
}

// upperBound is the exclusive caret limit: the next increment of the
// leftmost nonzero component (or of the rightmost named one when all are
// zero).
func (r Requirement) upperBound() Version {
	switch {
	case r.major > 0:
		return Version{v: mv.New(r.major+1, 0, 0, "", "")}
	case r.minor != nil && *r.minor > 0:
		return Version{v: mv.New(0, *r.minor+1, 0, "", "")}
	case r.minor != nil && r.patch != nil:
		return Version{v: mv.New(0, 0, *r.patch+1, "", "")}
	case r.minor != nil:
		return Version{v: mv.New(0, 1, 0, "", "")}
	default:
		return Version{v: mv.New(1, 0, 0, "", "")}
	}
}

// RequirementAccepts parses req and reports whether it is satisfied by v.
func RequirementAccepts(req string, v Version) (bool, error) {
	r, err := ParseRequirement(req)
	if err != nil {
		return false, err
	}
	return r.Accepts(v), nil
}

// RewriteRequirement returns the requirement string selecting v, keeping the
// caret style of the old spec.
func RewriteRequirement(old string, v Version) string {
	if strings.HasPrefix(strings.TrimSpace(old), "^") {
		return "^" + v.String()
	}
	return v.String()
}
