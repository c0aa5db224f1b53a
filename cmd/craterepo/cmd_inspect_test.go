package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunInspect(t *testing.T) {
	_, dir := multiWorkspace(t)
	chdir(t, filepath.Join(dir, "crates", "foo"))

	cmd := newInspectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.Flags().Set("workspace", "true"); err != nil {
		t.Fatal(err)
	}
	if err := runInspect(cmd, nil); err != nil {
		t.Fatalf("runInspect: %v", err)
	}

	var details struct {
		ManifestPath       string  `json:"manifest_path"`
		IsWorkspace        bool    `json:"is_workspace"`
		IsVirtualWorkspace bool    `json:"is_virtual_workspace"`
		Repository         *string `json:"repository"`
		CurrentPackage     *struct {
			Name        string `json:"name"`
			Bin         bool   `json:"bin"`
			Lib         bool   `json:"lib"`
			RootPackage bool   `json:"root_package"`
		} `json:"current_package"`
		Packages []struct {
			Name string `json:"name"`
		} `json:"packages"`
	}
	if err := json.Unmarshal(out.Bytes(), &details); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}

	if filepath.Base(details.ManifestPath) != "Cargo.toml" {
		t.Errorf("manifest_path = %q", details.ManifestPath)
	}
	if !details.IsWorkspace || !details.IsVirtualWorkspace {
		t.Errorf("workspace flags = %v/%v, want true/true",
			details.IsWorkspace, details.IsVirtualWorkspace)
	}
	if details.Repository == nil || *details.Repository != "https://github.com/octocat/widgets" {
		t.Errorf("repository = %v, want workspace.package value", details.Repository)
	}
	if details.CurrentPackage == nil {
		t.Fatal("current_package missing")
	}
	if details.CurrentPackage.Name != "foo" {
		t.Errorf("current_package.name = %q, want %q", details.CurrentPackage.Name, "foo")
	}
	if !details.CurrentPackage.Lib || details.CurrentPackage.Bin {
		t.Errorf("current_package targets = bin:%v lib:%v, want lib only",
			details.CurrentPackage.Bin, details.CurrentPackage.Lib)
	}
	if details.CurrentPackage.RootPackage {
		t.Error("current_package.root_package = true for a virtual workspace member")
	}

	if len(details.Packages) != 2 {
		t.Fatalf("packages count = %d, want 2", len(details.Packages))
	}
	names := map[string]bool{}
	for _, p := range details.Packages {
		names[p.Name] = true
	}
	if !names["foo"] || !names["bar"] {
		t.Errorf("packages = %v, want foo and bar", names)
	}
}

func TestRunInspectOutsideMember(t *testing.T) {
	_, dir := multiWorkspace(t)
	chdir(t, dir)

	cmd := newInspectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runInspect(cmd, nil); err != nil {
		t.Fatalf("runInspect: %v", err)
	}

	// The virtual root has no current package; the field stays in the
	// output as an explicit null.
	if !strings.Contains(out.String(), `"current_package": null`) {
		t.Errorf("output missing null current_package:\n%s", out.String())
	}
	if strings.Contains(out.String(), `"packages"`) {
		t.Errorf("packages listed without --workspace:\n%s", out.String())
	}
}

func TestRunInspectStandalone(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Cargo.toml"),
		"[package]\nname = \"solo\"\nversion = \"0.1.0\"\n")
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "")
	chdir(t, dir)

	cmd := newInspectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := runInspect(cmd, nil); err != nil {
		t.Fatalf("runInspect: %v", err)
	}

	var details struct {
		IsWorkspace        bool    `json:"is_workspace"`
		IsVirtualWorkspace bool    `json:"is_virtual_workspace"`
		Repository         *string `json:"repository"`
		CurrentPackage     *struct {
			Name        string `json:"name"`
			Bin         bool   `json:"bin"`
			RootPackage bool   `json:"root_package"`
		} `json:"current_package"`
	}
	if err := json.Unmarshal(out.Bytes(), &details); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if details.IsWorkspace || details.IsVirtualWorkspace {
		t.Errorf("workspace flags = %v/%v, want false/false",
			details.IsWorkspace, details.IsVirtualWorkspace)
	}
	if details.Repository != nil {
		t.Errorf("repository = %q, want null", *details.Repository)
	}
	if details.CurrentPackage == nil {
		t.Fatal("current_package missing")
	}
	if !details.CurrentPackage.Bin || !details.CurrentPackage.RootPackage {
		t.Errorf("current_package = %+v, want root bin package", details.CurrentPackage)
	}
}
