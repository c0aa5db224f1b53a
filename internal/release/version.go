package release

import (
	"errors"
	"fmt"

	"github.com/fbkclanna/craterepo/internal/semver"
)

// ErrVersionResolution is wrapped by every failure to settle on a
// releasable version.
var ErrVersionResolution = errors.New("cannot resolve release version")

// Request selects the version for a release run. The zero value derives the
// version from the manifest.
type Request struct {
	// Version, when non-nil, is released exactly as given.
	Version *semver.Version

	// Bump releases the next Level relative to the latest release tag.
	Bump  bool
	Level semver.Level
}

func (o *Orchestrator) resolveVersion(req Request, manifestVersion semver.Version) (semver.Version, error) {
	if req.Version != nil {
		return *req.Version, nil
	}
	prefix := o.Package.TagPrefix()
	tag, tagged, err := o.Git.LatestTag(prefix)
	if err != nil {
		return semver.Version{}, err
	}
	var tagVersion semver.Version
	if tagged {
		if tagVersion, err = semver.ParseTag(tag, prefix); err != nil {
			return semver.Version{}, err
		}
	}
	return resolve(req, tagVersion, tagged, manifestVersion)
}

// resolve applies the version-selection rules: a bump flag advances the
// latest tagged version, otherwise the manifest version is used with
// prerelease and metadata stripped and the latest tag must be older than
// the manifest version.
func resolve(req Request, tagVersion semver.Version, tagged bool, manifestVersion semver.Version) (semver.Version, error) {
	if req.Bump {
		if !tagged {
			return semver.Version{}, fmt.Errorf("%w: no tag to bump", ErrVersionResolution)
		}
		if tagVersion.IsPrerelease() {
			return semver.Version{}, fmt.Errorf("%w: latest tag v%s is a prerelease", ErrVersionResolution, tagVersion)
		}
		return tagVersion.Bump(req.Level), nil
	}
	if tagged && tagVersion.Compare(manifestVersion) >= 0 {
		return semver.Version{}, fmt.Errorf("%w: latest tagged version v%s exceeds manifest version %s",
			ErrVersionResolution, tagVersion, manifestVersion)
	}
	return manifestVersion.Base(), nil
}

// tagCandidates lists the tag names that would collide with releasing v,
// with and without the v prefix.
func tagCandidates(prefix string, v semver.Version) []string {
	if prefix != "" {
		return []string{prefix + "/" + v.String(), prefix + "/v" + v.String()}
	}
	return []string{v.String(), "v" + v.String()}
}
