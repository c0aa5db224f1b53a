package main

import (
	"github.com/spf13/cobra"
)

func newBeginDevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "begin-dev",
		Short: "Start development on the next version of a package",
		Args:  cobra.NoArgs,
		RunE:  runBeginDev,
	}
	cmd.Flags().StringP("package", "p", "", "Workspace package to operate on")
	return cmd
}

func runBeginDev(cmd *cobra.Command, _ []string) error {
	pkgName, _ := cmd.Flags().GetString("package")
	orch, err := newOrchestrator(cmd, pkgName)
	if err != nil {
		return err
	}
	_, err = orch.BeginDev()
	return err
}
