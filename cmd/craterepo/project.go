package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fbkclanna/craterepo/internal/cargo"
	"github.com/fbkclanna/craterepo/internal/config"
	"github.com/fbkclanna/craterepo/internal/git"
	"github.com/fbkclanna/craterepo/internal/github"
	"github.com/fbkclanna/craterepo/internal/release"
	"github.com/fbkclanna/craterepo/internal/workspace"
)

// newOrchestrator discovers the workspace around the current directory and
// assembles the release pipeline for one of its packages. The hosted API
// client is left unset; commands that need it attach their own.
func newOrchestrator(cmd *cobra.Command, packageName string) (*release.Orchestrator, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	ws, err := workspace.Discover(wd)
	if err != nil {
		return nil, err
	}
	pkg, err := selectPackage(ws, wd, packageName)
	if err != nil {
		return nil, err
	}

	g := git.New(ws.RootDir)
	remote, err := g.RemoteURL("origin")
	if err != nil {
		return nil, err
	}
	repo, err := github.ParseRepo(remote)
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return &release.Orchestrator{
		Workspace: ws,
		Package:   pkg,
		Git:       g,
		Registry:  cargo.New(ws.RootDir),
		Repo:      repo,
		Settings:  settings,
	}, nil
}

// selectPackage resolves which workspace package a command operates on:
// the named one, the one containing dir, the sole member, or, on a
// terminal, whichever the user picks.
func selectPackage(ws *workspace.Workspace, dir, name string) (*workspace.Package, error) {
	if name != "" {
		pkg, ok := ws.ByName(name)
		if !ok {
			return nil, fmt.Errorf("no package named %q in this workspace", name)
		}
		return pkg, nil
	}

	pkg, err := ws.Current(dir)
	if err == nil {
		return pkg, nil
	}
	if len(ws.Packages) == 1 {
		return ws.Packages[0], nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, err
	}
	return promptPackage(ws.Packages)
}
