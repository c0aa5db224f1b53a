package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/craterepo/internal/semver"
	"github.com/fbkclanna/craterepo/internal/workspace"
)

func newSetMsrvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-msrv VERSION",
		Short: "Update the minimum supported Rust version of the current package",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetMsrv,
	}
}

func runSetMsrv(_ *cobra.Command, args []string) error {
	msrv, err := semver.ParseToolVersion(args[0])
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	ws, err := workspace.Discover(wd)
	if err != nil {
		return err
	}
	pkg, err := ws.Current(wd)
	if err != nil {
		return err
	}
	log := slog.Default()

	log.Info("Updating Cargo.toml ...")
	if err := pkg.Manifest.SetPackageField("rust-version", msrv.String()); err != nil {
		return err
	}
	if err := pkg.Manifest.Save(); err != nil {
		return err
	}

	rd, ok, err := pkg.ReadReadme()
	if err != nil {
		return err
	}
	if ok {
		log.Info("Updating README.md ...")
		rd.SetMSRV(msrv.String())
		if err := pkg.WriteReadme(rd); err != nil {
			return err
		}
	}

	chlog, ok, err := pkg.ReadChangelog()
	if err != nil {
		return err
	}
	if ok {
		log.Info("Updating CHANGELOG.md ...")
		chlog.UpsertTopNote("- Increased MSRV to ", "- Increased MSRV to "+msrv.String())
		if err := pkg.WriteChangelog(chlog); err != nil {
			return err
		}
	}
	return nil
}
