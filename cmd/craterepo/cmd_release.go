package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/craterepo/internal/github"
	"github.com/fbkclanna/craterepo/internal/release"
	"github.com/fbkclanna/craterepo/internal/semver"
)

func newReleaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release [VERSION]",
		Short: "Release a new version of a package",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRelease,
	}
	cmd.Flags().Bool("major", false, "Bump to the next major version")
	cmd.Flags().Bool("minor", false, "Bump to the next minor version")
	cmd.Flags().Bool("patch", false, "Bump to the next patch version")
	cmd.MarkFlagsMutuallyExclusive("major", "minor", "patch")
	cmd.Flags().StringP("package", "p", "", "Workspace package to release")
	return cmd
}

func runRelease(cmd *cobra.Command, args []string) error {
	req, err := releaseRequest(cmd, args)
	if err != nil {
		return err
	}

	pkgName, _ := cmd.Flags().GetString("package")
	orch, err := newOrchestrator(cmd, pkgName)
	if err != nil {
		return err
	}
	client, err := github.NewClient(cmd.Context())
	if err != nil {
		return err
	}
	orch.Hosted = client

	_, err = orch.Run(cmd.Context(), req)
	return err
}

// releaseRequest turns the bump flags or the version argument into a release
// request. An explicit version tolerates a leading "v".
func releaseRequest(cmd *cobra.Command, args []string) (release.Request, error) {
	major, _ := cmd.Flags().GetBool("major")
	minor, _ := cmd.Flags().GetBool("minor")
	patch, _ := cmd.Flags().GetBool("patch")
	bump := major || minor || patch

	if len(args) == 1 {
		if bump {
			return release.Request{}, errors.New("cannot combine a version argument with a bump flag")
		}
		v, err := semver.ParseLax(args[0])
		if err != nil {
			return release.Request{}, err
		}
		return release.Request{Version: &v}, nil
	}

	req := release.Request{Bump: bump}
	switch {
	case major:
		req.Level = semver.Major
	case minor:
		req.Level = semver.Minor
	case patch:
		req.Level = semver.Patch
	}
	return req, nil
}
