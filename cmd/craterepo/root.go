package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/craterepo/internal/ui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "craterepo",
		Short:             "Release Rust crates the same way every time",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupRoot,
	}

	cmd.PersistentFlags().StringP("chdir", "C", "", "Run as if started in this directory")
	cmd.PersistentFlags().String("config", "", "Settings file (default ~/.config/craterepo/config.toml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: off, error, warn, info, debug, trace")

	cmd.AddCommand(
		newReleaseCmd(),
		newBeginDevCmd(),
		newInspectCmd(),
		newSetMsrvCmd(),
	)

	return cmd
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	if dir, _ := cmd.Flags().GetString("chdir"); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return err
		}
	}

	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := ui.ParseLevel(levelName)
	if err != nil {
		return err
	}
	slog.SetDefault(ui.NewLogger(cmd.ErrOrStderr(), level))
	return nil
}
