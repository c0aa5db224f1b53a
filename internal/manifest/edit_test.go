package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fbkclanna/craterepo/internal/semver"
)

func TestSetVersion_preservesLayout(t *testing.T) {
	in := `# top comment
[package]
name  =  "quux"   # odd spacing
version = '0.3.1'  # single quotes
edition = "2021"

[dependencies]
serde = "1.0"
`
	want := `# top comment
[package]
name  =  "quux"   # odd spacing
version = '1.0.0'  # single quotes
edition = "2021"

[dependencies]
serde = "1.0"
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetVersion(semver.MustParse("1.0.0")); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
	v, err := doc.Version()
	if err != nil {
		t.Fatalf("Version after set: %v", err)
	}
	if v.String() != "1.0.0" {
		t.Errorf("version = %q, want %q", v, "1.0.0")
	}
}

func TestSetVersion_ignoresOtherVersionKeys(t *testing.T) {
	in := `[package]
name = "quux"
version = "0.1.0"

[dependencies]
version = "9.9.9"
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetVersion(semver.MustParse("0.2.0")); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	want := `[package]
name = "quux"
version = "0.2.0"

[dependencies]
version = "9.9.9"
`
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestSetPackageField_insert(t *testing.T) {
	in := `[package]
name = "quux"
version = "0.1.0"

[dependencies]
serde = "1.0"
`
	want := `[package]
name = "quux"
version = "0.1.0"
rust-version = "1.74"

[dependencies]
serde = "1.0"
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetPackageField("rust-version", "1.74"); err != nil {
		t.Fatalf("SetPackageField: %v", err)
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
	if got := doc.RustVersion(); got != "1.74" {
		t.Errorf("RustVersion = %q, want %q", got, "1.74")
	}
}

func TestSetPackageField_insertAtEOF(t *testing.T) {
	in := "[package]\nname = \"quux\"\nversion = \"0.1.0\""
	want := "[package]\nname = \"quux\"\nversion = \"0.1.0\"\nrust-version = \"1.74\"\n"
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetPackageField("rust-version", "1.74"); err != nil {
		t.Fatalf("SetPackageField: %v", err)
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestSetPackageField_rewrite(t *testing.T) {
	in := `[package]
name = "quux"
version = "0.1.0"
rust-version = "1.70"
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := doc.SetPackageField("rust-version", "1.74"); err != nil {
		t.Fatalf("SetPackageField: %v", err)
	}
	if got := doc.RustVersion(); got != "1.74" {
		t.Errorf("RustVersion = %q, want %q", got, "1.74")
	}
}

func TestUpdateRequirement(t *testing.T) {
	in := `[package]
name = "app"
version = "1.0.0"

[dependencies]
alpha = "^1.0"
beta = { version = "1.0", path = "../beta", features = ["fast"] }
gamma = { path = "../gamma" }

[dev-dependencies]
alpha = "1"

[build-dependencies.alpha]
version = "^1.0"
optional = true
`
	want := `[package]
name = "app"
version = "1.0.0"

[dependencies]
alpha = "^2.0.0"
beta = { version = "1.0", path = "../beta", features = ["fast"] }
gamma = { path = "../gamma" }

[dev-dependencies]
alpha = "2.0.0"

[build-dependencies.alpha]
version = "^2.0.0"
optional = true
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := doc.UpdateRequirement("alpha", semver.MustParse("2.0.0"))
	if err != nil {
		t.Fatalf("UpdateRequirement: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestUpdateRequirement_inlineTable(t *testing.T) {
	in := `[package]
name = "app"
version = "1.0.0"

[dependencies]
beta = { path = "../beta", version = "^1.0" }
`
	want := `[package]
name = "app"
version = "1.0.0"

[dependencies]
beta = { path = "../beta", version = "^2.0.0" }
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := doc.UpdateRequirement("beta", semver.MustParse("2.0.0"))
	if err != nil {
		t.Fatalf("UpdateRequirement: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestUpdateRequirement_pathValueNotMistaken(t *testing.T) {
	// The word "version" inside string values must not be rewritten.
	in := `[package]
name = "app"
version = "1.0.0"

[dependencies]
beta = { path = "../version", version = "^1.0" }
`
	want := `[package]
name = "app"
version = "1.0.0"

[dependencies]
beta = { path = "../version", version = "^2.0.0" }
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := doc.UpdateRequirement("beta", semver.MustParse("2.0.0")); err != nil {
		t.Fatalf("UpdateRequirement: %v", err)
	}
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestUpdateRequirement_alreadySatisfied(t *testing.T) {
	in := `[package]
name = "app"
version = "1.0.0"

[dependencies]
alpha = "^1.0"
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := doc.UpdateRequirement("alpha", semver.MustParse("1.2.3"))
	if err != nil {
		t.Fatalf("UpdateRequirement: %v", err)
	}
	if changed {
		t.Error("changed = true, want false")
	}
	if got := string(doc.Bytes()); got != in {
		t.Errorf("content changed:\ngot  %q\nwant %q", got, in)
	}
}

func TestUpdateRequirement_renamedPackage(t *testing.T) {
	in := `[package]
name = "app"
version = "1.0.0"

[dependencies]
local-alpha = { package = "alpha", version = "^1.0", path = "../alpha" }
`
	doc, err := Parse("Cargo.toml", []byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	changed, err := doc.UpdateRequirement("alpha", semver.MustParse("2.0.0"))
	if err != nil {
		t.Fatalf("UpdateRequirement: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	want := `[package]
name = "app"
version = "1.0.0"

[dependencies]
local-alpha = { package = "alpha", version = "^2.0.0", path = "../alpha" }
`
	if got := string(doc.Bytes()); got != want {
		t.Errorf("content:\ngot  %q\nwant %q", got, want)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	in := "[package]\nname = \"quux\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(path, []byte(in), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := doc.SetVersion(semver.MustParse("0.2.0")); err != nil {
		t.Fatalf("SetVersion: %v", err)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[package]\nname = \"quux\"\nversion = \"0.2.0\"\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}
}

const sampleLock = `# This file is automatically @generated by Cargo.
# It is not intended for manual editing.
version = 3

[[package]]
name = "anyhow"
version = "1.0.75"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "a4668cab20f66d8d020e1fbc0ebe47217433c1b6c8f2040faf858554e394ace6"

[[package]]
name = "quux"
version = "0.3.1"
dependencies = [
 "anyhow",
]
`

func TestLockfile_SetVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.lock")
	if err := os.WriteFile(path, []byte(sampleLock), 0644); err != nil {
		t.Fatal(err)
	}
	lf, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if !lf.SetVersion("quux", semver.MustParse("1.0.0")) {
		t.Error("SetVersion = false, want true")
	}
	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	want := `# This file is automatically @generated by Cargo.
# It is not intended for manual editing.
version = 3

[[package]]
name = "anyhow"
version = "1.0.75"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "a4668cab20f66d8d020e1fbc0ebe47217433c1b6c8f2040faf858554e394ace6"

[[package]]
name = "quux"
version = "1.0.0"
dependencies = [
 "anyhow",
]
`
	if got != want {
		t.Errorf("lockfile:\ngot  %q\nwant %q", got, want)
	}
}

func TestLockfile_SetVersion_unknownPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.lock")
	if err := os.WriteFile(path, []byte(sampleLock), 0644); err != nil {
		t.Fatal(err)
	}
	lf, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if lf.SetVersion("nosuch", semver.MustParse("1.0.0")) {
		t.Error("SetVersion = true, want false")
	}
}
