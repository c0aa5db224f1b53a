package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/craterepo/internal/workspace"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print project details as JSON",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
	cmd.Flags().Bool("workspace", false, "Include every workspace member")
	return cmd
}

type projectDetails struct {
	ManifestPath       string           `json:"manifest_path"`
	IsWorkspace        bool             `json:"is_workspace"`
	IsVirtualWorkspace bool             `json:"is_virtual_workspace"`
	Repository         *string          `json:"repository"`
	CurrentPackage     *packageDetails  `json:"current_package"`
	Packages           []packageDetails `json:"packages,omitempty"`
}

type packageDetails struct {
	Name         string `json:"name"`
	ManifestPath string `json:"manifest_path"`
	Bin          bool   `json:"bin"`
	Lib          bool   `json:"lib"`
	RootPackage  bool   `json:"root_package"`
}

func runInspect(cmd *cobra.Command, _ []string) error {
	withMembers, _ := cmd.Flags().GetBool("workspace")

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	ws, err := workspace.Discover(wd)
	if err != nil {
		return err
	}

	details := projectDetails{
		ManifestPath:       ws.RootManifest.Path(),
		IsWorkspace:        ws.IsWorkspace(),
		IsVirtualWorkspace: ws.IsVirtual(),
	}
	if url := ws.RootManifest.Repository(); url != "" {
		details.Repository = &url
	}
	if pkg, err := ws.Current(wd); err == nil {
		d := newPackageDetails(pkg)
		details.CurrentPackage = &d
	}
	if withMembers {
		details.Packages = make([]packageDetails, 0, len(ws.Packages))
		for _, pkg := range ws.Packages {
			details.Packages = append(details.Packages, newPackageDetails(pkg))
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(details)
}

func newPackageDetails(p *workspace.Package) packageDetails {
	return packageDetails{
		Name:         p.Name,
		ManifestPath: p.ManifestPath,
		Bin:          p.IsBin(),
		Lib:          p.IsLib(),
		RootPackage:  p.IsRoot,
	}
}
