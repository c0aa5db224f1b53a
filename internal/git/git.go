package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// ErrCommitCancelled is reported when git rejects an interactive commit,
// which happens when the user quits the editor without writing a message.
var ErrCommitCancelled = errors.New("commit cancelled")

// Git runs git commands against one repository working tree.
type Git struct {
	dir string
}

// New returns a Git handle for the repository containing dir.
func New(dir string) *Git {
	return &Git{dir: dir}
}

// LatestTag returns the most recently created tag for the given tag prefix.
// An empty prefix selects only unprefixed tags; a non-empty prefix selects
// tags of the form "prefix/...". The second return is false when no tag
// matches.
func (g *Git) LatestTag(prefix string) (string, bool, error) {
	out, err := outputQuiet(g.dir, "tag", "-l", "--sort=-creatordate")
	if err != nil {
		return "", false, err
	}
	for _, tag := range nonEmptyLines(out) {
		if prefix == "" {
			if !strings.Contains(tag, "/") {
				return tag, true, nil
			}
		} else if strings.HasPrefix(tag, prefix+"/") {
			return tag, true, nil
		}
	}
	return "", false, nil
}

// TagExists reports whether a tag with the given name exists.
func (g *Git) TagExists(name string) (bool, error) {
	err := runQuiet(g.dir, "show-ref", "--verify", "--quiet", "refs/tags/"+name)
	if err != nil {
		if isExitError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CommitAll commits every tracked change, opening the configured editor with
// the given message template. Returns ErrCommitCancelled if the user aborts
// the editor session.
func (g *Git) CommitAll(templatePath string) error {
	if err := runInteractive(g.dir, "commit", "-a", "-v", "--template", templatePath); err != nil {
		if isExitError(err) {
			return ErrCommitCancelled
		}
		return err
	}
	return nil
}

// CreateSignedTag creates a signed annotated tag at HEAD. Signing may prompt
// for a key passphrase, so the command runs attached to the terminal.
func (g *Git) CreateSignedTag(name, message string) error {
	return runInteractive(g.dir, "tag", "-s", "-m", message, name)
}

// Push pushes the current branch along with the annotated tags that point
// into it.
func (g *Git) Push() error {
	return run(g.dir, "push", "--follow-tags")
}

// CommitYears returns the sorted set of years in which commits reachable from
// HEAD were authored. A non-empty path restricts the log to commits touching
// that path.
func (g *Git) CommitYears(path string) ([]int, error) {
	args := []string{"log", "--format=%ad", "--date=format:%Y"}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := outputQuiet(g.dir, args...)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	var years []int
	for _, line := range nonEmptyLines(out) {
		y, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("parsing commit year %q: %w", line, err)
		}
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years, nil
}

// CommitSubjectBody returns the subject line and trimmed body of the commit
// named by rev.
func (g *Git) CommitSubjectBody(rev string) (string, string, error) {
	out, err := outputQuiet(g.dir, "show", "-s", "--format=%s%x00%b", rev)
	if err != nil {
		return "", "", err
	}
	subject, body, ok := strings.Cut(out, "\x00")
	if !ok {
		return "", "", fmt.Errorf("no NUL separator in git show output for %s", rev)
	}
	return subject, strings.TrimSpace(body), nil
}

// UntrackedFiles lists working-tree files that are neither tracked nor
// ignored, relative to the repository toplevel.
func (g *Git) UntrackedFiles() ([]string, error) {
	out, err := outputQuiet(g.dir, "ls-files", "-z", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// Toplevel returns the absolute path of the repository root.
func (g *Git) Toplevel() (string, error) {
	out, err := outputQuiet(g.dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the fetch URL of the named remote.
func (g *Git) RemoteURL(remote string) (string, error) {
	out, err := outputQuiet(g.dir, "remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DefaultBranch guesses the repository's default branch from the local branch
// list, preferring the configured init.defaultBranch and then a few common
// names.
func (g *Git) DefaultBranch() (string, error) {
	out, err := outputQuiet(g.dir, "branch", "--format=%(refname:short)")
	if err != nil {
		return "", err
	}
	branches := make(map[string]bool)
	for _, b := range nonEmptyLines(out) {
		branches[b] = true
	}
	if configured, ok, err := g.getConfig("init.defaultBranch"); err != nil {
		return "", err
	} else if ok && branches[configured] {
		return configured, nil
	}
	for _, guess := range []string{"main", "master", "trunk", "draft"} {
		if branches[guess] {
			return guess, nil
		}
	}
	return "", errors.New("could not determine default git branch")
}

// getConfig reads one git config value. The second return is false when the
// key is unset.
func (g *Git) getConfig(key string) (string, bool, error) {
	out, err := outputQuiet(g.dir, "config", "--get", "--", key)
	if err != nil {
		var exitErr *exec.ExitError
		// git config exits 1 for an unset key.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(out), true, nil
}

// run executes a git command with output passed through to the console.
func run(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// runInteractive executes a git command attached to the caller's terminal,
// for commands that open an editor or prompt for input.
func runInteractive(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// runQuiet executes a git command without printing stdout.
// Stderr is captured and included in the error message on failure.
func runQuiet(dir string, args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return nil
}

// outputQuiet executes a git command and returns its stdout without printing
// to the console.
func outputQuiet(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
