package release

import (
	"fmt"
	"os"

	"github.com/fbkclanna/craterepo/internal/changelog"
	"github.com/fbkclanna/craterepo/internal/readme"
	"github.com/fbkclanna/craterepo/internal/semver"
)

// BeginDev starts the next development cycle without releasing: the minor
// version after the latest release tag (or after the manifest version when
// no tag exists) with a dev prerelease.
func (o *Orchestrator) BeginDev() (semver.Version, error) {
	pkg := o.Package
	current, err := pkg.Version()
	if err != nil {
		return semver.Version{}, err
	}
	if current.Prerelease() == "dev" {
		return semver.Version{}, fmt.Errorf("%s is already on a dev version (%s)", pkg.Name, current)
	}
	base := current
	prefix := pkg.TagPrefix()
	tag, tagged, err := o.Git.LatestTag(prefix)
	if err != nil {
		return semver.Version{}, err
	}
	if tagged {
		if base, err = semver.ParseTag(tag, prefix); err != nil {
			return semver.Version{}, err
		}
	}
	dev := base.NextDev()
	o.log().Info("Preparing for work on next version ...")
	if err := o.applyNextDev(dev, nil); err != nil {
		return semver.Version{}, err
	}
	return dev, nil
}

// applyNextDev rewrites the project files for work on the dev version: the
// manifest and lockfile versions, dependent requirements without changelog
// notes, an open changelog section, and the README changelog link. seed
// becomes the changelog when the package has none; with a nil seed a
// missing changelog starts from just the open section.
func (o *Orchestrator) applyNextDev(dev semver.Version, seed *changelog.Document) error {
	pkg := o.Package
	log := o.log()

	log.Info("Setting next version in Cargo.toml ...")
	if err := pkg.Manifest.SetVersion(dev); err != nil {
		return err
	}
	if err := pkg.Manifest.Save(); err != nil {
		return err
	}
	if _, err := os.Stat(o.Workspace.LockfilePath()); err == nil {
		if err := o.Workspace.SetLockVersion(pkg.Name, dev); err != nil {
			return err
		}
	}
	if len(o.Workspace.DependentsOf(pkg)) > 0 {
		if _, err := o.Workspace.PropagateVersion(pkg, dev, false); err != nil {
			return err
		}
	}

	log.Info("Adding next section to CHANGELOG.md ...")
	chlog, ok, err := pkg.ReadChangelog()
	if err != nil {
		return err
	}
	header := changelog.Header{Kind: changelog.InProgress, Version: dev.Base()}
	switch {
	case !ok && seed != nil:
		chlog = seed
		chlog.Prepend(header)
	case !ok:
		chlog = changelog.New(header, "")
	case chlog.TopOpen():
		// an open section is already in place
	default:
		chlog.Prepend(header)
	}
	if err := pkg.WriteChangelog(chlog); err != nil {
		return err
	}

	rd, ok, err := pkg.ReadReadme()
	if err != nil {
		return err
	}
	if ok {
		branch, err := o.Git.DefaultBranch()
		if err != nil {
			return err
		}
		url := o.Repo.URL() + "/blob/" + branch + "/CHANGELOG.md"
		if rd.UpsertHeaderLink(readme.LinkChangelog, url) {
			log.Info("Adding Changelog link to README.md ...")
			if err := pkg.WriteReadme(rd); err != nil {
				return err
			}
		}
	}
	return nil
}
