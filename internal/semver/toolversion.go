package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrToolVersionSyntax is reported for malformed two- or three-part tool
// versions.
var ErrToolVersionSyntax = errors.New("invalid tool version")

// ToolVersion is an "X.Y" or "X.Y.Z" toolchain version, the form used by the
// manifest's rust-version field and the MSRV badge. It has no prerelease.
type ToolVersion struct {
	Major uint64
	Minor uint64
	Patch *uint64
}

// ParseToolVersion parses a tool version, tolerating one leading "v".
func ParseToolVersion(s string) (ToolVersion, error) {
	body := strings.TrimPrefix(s, "v")
	parts := strings.Split(body, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return ToolVersion{}, fmt.Errorf("%w: %q", ErrToolVersionSyntax, s)
	}
	nums := make([]uint64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return ToolVersion{}, fmt.Errorf("%w: %q", ErrToolVersionSyntax, s)
		}
		nums[i] = n
	}
	tv := ToolVersion{Major: nums[0], Minor: nums[1]}
	if len(nums) == 3 {
		tv.Patch = &nums[2]
	}
	return tv, nil
}

func (tv ToolVersion) String() string {
	s := fmt.Sprintf("%d.%d", tv.Major, tv.Minor)
	if tv.Patch != nil {
		s += fmt.Sprintf(".%d", *tv.Patch)
	}
	return s
}
