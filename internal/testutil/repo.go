package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// CreateBareRepo creates a bare git repository with an initial commit in a
// temp directory. Returns the path to the bare repo.
func CreateBareRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bare := filepath.Join(dir, "repo.git")

	// Create a working repo first, then clone it bare.
	work := filepath.Join(dir, "work")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	readme := filepath.Join(work, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	InitRepo(t, work)

	run(t, dir, "git", "clone", "--bare", work, bare)
	return bare
}

// InitRepo initializes a git repository in dir with a local identity and
// commits whatever files are already present.
func InitRepo(t *testing.T, dir string) {
	t.Helper()
	run(t, dir, "git", "init", "-b", "main")
	run(t, dir, "git", "config", "user.email", "test@example.com")
	run(t, dir, "git", "config", "user.name", "Test")
	run(t, dir, "git", "add", "-A")
	run(t, dir, "git", "commit", "--allow-empty", "-m", "initial commit")
}

// Clone clones src into dest and configures a local identity there.
func Clone(t *testing.T, src, dest string) {
	t.Helper()
	run(t, filepath.Dir(dest), "git", "clone", src, dest)
	run(t, dest, "git", "config", "user.email", "test@example.com")
	run(t, dest, "git", "config", "user.name", "Test")
}

// CommitAll stages and commits every change in dir.
func CommitAll(t *testing.T, dir, message string) {
	t.Helper()
	run(t, dir, "git", "add", "-A")
	run(t, dir, "git", "commit", "-m", message)
}

// Tag creates an annotated tag in dir. The when string (any git-parseable
// date) sets the tag's creation date so tests can rely on creation order.
func Tag(t *testing.T, dir, name, when string) {
	t.Helper()
	cmd := exec.Command("git", "tag", "-a", "-m", name, name)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_COMMITTER_DATE="+when)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command git tag %s failed: %v", name, err)
	}
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("command %s %v failed: %v", name, args, err)
	}
}
