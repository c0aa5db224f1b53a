package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fbkclanna/craterepo/internal/changelog"
	"github.com/fbkclanna/craterepo/internal/config"
	"github.com/fbkclanna/craterepo/internal/git"
	"github.com/fbkclanna/craterepo/internal/github"
	"github.com/fbkclanna/craterepo/internal/license"
	"github.com/fbkclanna/craterepo/internal/readme"
	"github.com/fbkclanna/craterepo/internal/semver"
	"github.com/fbkclanna/craterepo/internal/workspace"
)

// VersionControl is the git surface the pipeline drives. *git.Git satisfies
// it.
type VersionControl interface {
	LatestTag(prefix string) (string, bool, error)
	TagExists(name string) (bool, error)
	CommitAll(templatePath string) error
	CreateSignedTag(name, message string) error
	Push() error
	CommitYears(path string) ([]int, error)
	CommitSubjectBody(rev string) (string, string, error)
	UntrackedFiles() ([]string, error)
	Toplevel() (string, error)
	DefaultBranch() (string, error)
}

// Registry publishes a package to its registry. *cargo.Cargo satisfies it.
type Registry interface {
	Publish(manifestPath string) error
}

// Hosted is the hosted-repository API surface used after a push.
// *github.Client satisfies it.
type Hosted interface {
	CreateRelease(ctx context.Context, repo github.Repo, tag, title, body string, prerelease bool) error
	ListTopics(ctx context.Context, repo github.Repo) ([]string, error)
	ReplaceTopics(ctx context.Context, repo github.Repo, topics []string) error
}

// PartialError reports a failure after the release passed the point of no
// return. Completed steps are never rolled back; the operator repairs or
// finishes the remainder by hand.
type PartialError struct {
	Step string
	Err  error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("release partially completed: %s failed: %v", e.Step, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Result describes how a release run ended.
type Result struct {
	Version semver.Version
	Tag     string

	// Cancelled is set when the operator declined the commit message.
	// Nothing after the commit step ran.
	Cancelled bool
}

// Orchestrator runs release operations for one package of a workspace.
type Orchestrator struct {
	Workspace *workspace.Workspace
	Package   *workspace.Package
	Git       VersionControl
	Registry  Registry
	Hosted    Hosted

	// Repo is the hosted repository, parsed from the origin remote.
	Repo github.Repo

	// Settings are the loaded user settings.
	Settings config.Settings

	// Log defaults to slog.Default.
	Log *slog.Logger

	// Now defaults to time.Now; the release date and the current copyright
	// year come from it.
	Now func() time.Time
}

func (o *Orchestrator) log() *slog.Logger {
	if o.Log != nil {
		return o.Log
	}
	return slog.Default()
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run executes the release pipeline for the orchestrator's package.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	pkg := o.Package
	oldVersion, err := pkg.Version()
	if err != nil {
		return nil, err
	}
	newVersion, err := o.resolveVersion(req, oldVersion)
	if err != nil {
		return nil, err
	}
	for _, name := range tagCandidates(pkg.TagPrefix(), newVersion) {
		exists, err := o.Git.TagExists(name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: version v%s is already tagged", ErrVersionResolution, newVersion)
		}
	}

	log := o.log()
	log.Info(fmt.Sprintf("Preparing version %s ...", newVersion))

	if !newVersion.Equal(oldVersion) {
		log.Info("Setting version in Cargo.toml ...")
		if err := pkg.Manifest.SetVersion(newVersion); err != nil {
			return nil, err
		}
		if err := pkg.Manifest.Save(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(o.Workspace.LockfilePath()); err == nil {
			log.Info("Setting version in Cargo.lock ...")
			if err := o.Workspace.SetLockVersion(pkg.Name, newVersion); err != nil {
				return nil, err
			}
		}
		if len(o.Workspace.DependentsOf(pkg)) > 0 {
			log.Info("Updating version requirements in dependent packages ...")
			if _, err := o.Workspace.PropagateVersion(pkg, newVersion, true); err != nil {
				return nil, err
			}
		}
	}

	releaseDate := o.now()
	var notes string
	haveNotes := false
	chlog, ok, err := pkg.ReadChangelog()
	if err != nil {
		return nil, err
	}
	if ok {
		log.Info("Updating CHANGELOG.md ...")
		if err := chlog.ReleaseTop(newVersion, releaseDate); err != nil {
			return nil, err
		}
		notes = chlog.Body(0)
		haveNotes = true
		if err := pkg.WriteChangelog(chlog); err != nil {
			return nil, err
		}
	}

	rd, haveReadme, err := pkg.ReadReadme()
	if err != nil {
		return nil, err
	}
	activated := false
	if haveReadme {
		changed := false
		if !newVersion.IsPrerelease() {
			if slug, ok := rd.RepoStatus(); ok && slug == "wip" {
				log.Info("Setting repostatus in README.md to Active ...")
				rd.SetRepoStatus("active")
				activated = true
				changed = true
			}
		}
		if pkg.Publishable() {
			added := rd.UpsertHeaderLink(readme.LinkCratesIO, "https://crates.io/crates/"+pkg.Name)
			if pkg.IsLib() && rd.UpsertHeaderLink(readme.LinkDocs, "https://docs.rs/"+pkg.Name) {
				added = true
			}
			if added {
				log.Info("Adding crates.io links to README.md ...")
				changed = true
			}
		}
		if changed {
			if err := pkg.WriteReadme(rd); err != nil {
				return nil, err
			}
		}
	}

	if pkg.HasLicense() {
		log.Info("Updating copyright years in LICENSE ...")
		scope, err := o.packagePath()
		if err != nil {
			return nil, err
		}
		years, err := o.Git.CommitYears(scope)
		if err != nil {
			return nil, err
		}
		years = append(years, releaseDate.Year())
		if err := license.UpdateFile(pkg.LicensePath(), years); err != nil {
			return nil, err
		}
	}

	log.Info("Committing ...")
	template, err := writeTemplateFile(commitTemplate(newVersion, notes, haveNotes))
	if err != nil {
		return nil, err
	}
	defer os.Remove(template)
	if err := o.Git.CommitAll(template); err != nil {
		if errors.Is(err, git.ErrCommitCancelled) {
			log.Info("Commit cancelled; aborting")
			return &Result{Version: newVersion, Cancelled: true}, nil
		}
		return nil, err
	}

	log.Info("Tagging ...")
	tagName := pkg.Tag(newVersion)
	if err := o.Git.CreateSignedTag(tagName, "Version "+newVersion.String()); err != nil {
		return nil, &PartialError{Step: "tag", Err: err}
	}

	if pkg.Publishable() {
		if err := o.publish(pkg); err != nil {
			return nil, err
		}
	}

	log.Info("Pushing tag to GitHub ...")
	if err := o.Git.Push(); err != nil {
		return nil, &PartialError{Step: "push", Err: err}
	}

	if err := o.createHostedRelease(ctx, tagName, newVersion); err != nil {
		return nil, &PartialError{Step: "GitHub release", Err: err}
	}

	if activated {
		if err := o.updateTopics(ctx, pkg.Publishable()); err != nil {
			return nil, &PartialError{Step: "topics", Err: err}
		}
	}

	log.Info("Preparing for work on next version ...")
	seed := changelog.New(
		changelog.Header{Kind: changelog.Released, Version: newVersion, Date: releaseDate},
		"Initial release",
	)
	if err := o.applyNextDev(newVersion.NextDev(), seed); err != nil {
		return nil, err
	}

	return &Result{Version: newVersion, Tag: tagName}, nil
}

// publish stashes untracked files next to the repository, runs the registry
// publish, and always moves the files back before reporting the outcome.
func (o *Orchestrator) publish(pkg *workspace.Package) error {
	top, err := o.Git.Toplevel()
	if err != nil {
		return fmt.Errorf("locating repository root: %w", err)
	}
	st, err := newStash(top)
	if err != nil {
		return err
	}
	untracked, err := o.Git.UntrackedFiles()
	if err != nil {
		return err
	}
	if len(untracked) > 0 {
		o.log().Info(fmt.Sprintf("Moving untracked files to %s ...", st.dir))
		if err := st.put(untracked); err != nil {
			return err
		}
	}
	o.log().Info("Publishing ...")
	pubErr := o.Registry.Publish(pkg.ManifestPath)
	var restoreErr error
	if st.exists() {
		o.log().Info(fmt.Sprintf("Moving untracked files back from %s ...", st.dir))
		restoreErr = st.restore()
	}
	return errors.Join(pubErr, restoreErr)
}

func (o *Orchestrator) createHostedRelease(ctx context.Context, tagName string, v semver.Version) error {
	top, err := o.Git.Toplevel()
	if err != nil {
		return err
	}
	delegated, err := github.HasReleaseWorkflow(top)
	if err != nil {
		return err
	}
	if delegated {
		o.log().Info("Release workflow found; leaving the GitHub release to it")
		return nil
	}
	o.log().Info("Creating GitHub release ...")
	subject, body, err := o.Git.CommitSubjectBody(tagName + "^{commit}")
	if err != nil {
		return err
	}
	return o.Hosted.CreateRelease(ctx, o.Repo, tagName, subject, body, v.IsPrerelease())
}

func (o *Orchestrator) updateTopics(ctx context.Context, publishable bool) error {
	topics, err := o.Hosted.ListTopics(ctx, o.Repo)
	if err != nil {
		return err
	}
	next, changed := nextTopics(topics, publishable)
	if !changed {
		return nil
	}
	o.log().Info("Updating GitHub repository topics ...")
	return o.Hosted.ReplaceTopics(ctx, o.Repo, next)
}

// nextTopics drops the work-in-progress topic and, for publishable
// packages, adds available-on-crates-io. It reports whether the set
// changed.
func nextTopics(topics []string, publishable bool) ([]string, bool) {
	out := make([]string, 0, len(topics)+1)
	changed := false
	have := false
	for _, t := range topics {
		if t == "work-in-progress" {
			changed = true
			continue
		}
		if t == "available-on-crates-io" {
			have = true
		}
		out = append(out, t)
	}
	if publishable && !have {
		out = append(out, "available-on-crates-io")
		changed = true
	}
	return out, changed
}

// packagePath returns the package directory relative to the workspace root,
// empty for the root itself.
func (o *Orchestrator) packagePath() (string, error) {
	rel, err := filepath.Rel(o.Workspace.RootDir, o.Package.Dir)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

func writeTemplateFile(content string) (string, error) {
	f, err := os.CreateTemp("", "craterepo-commit-*")
	if err != nil {
		return "", fmt.Errorf("creating commit template: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing commit template: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing commit template: %w", err)
	}
	return f.Name(), nil
}
