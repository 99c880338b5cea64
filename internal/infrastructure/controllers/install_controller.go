package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// InstallController handles the "install" subcommand.
type InstallController struct {
	command commands.Install
}

// NewInstallController creates a new InstallController.
func NewInstallController(command commands.Install) *InstallController {
	return &InstallController{command: command}
}

// GetBind returns the Cobra command metadata for the install controller.
func (it *InstallController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "install <agent[@version]>...",
		Short: "Install agents from the marketplace",
		Long: `Install one or more agents from the Trinity marketplace.

Each agent is given as "name" (latest release) or "name@version".
Packages are downloaded into a staging directory, verified against the
published checksum, validated against their agent.yaml manifest and only
then moved into the install directory.`,
		Args: cobra.MinimumNArgs(1),
	}
}

// Execute installs the given agents.
func (it *InstallController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	results, err := it.command.Execute(commandContext(cmd), settings, commands.InstallOptions{
		References: args,
		Force:      force,
		DryRun:     dryRun,
	})

	out := cmd.OutOrStdout()
	for _, result := range results {
		switch result.Status {
		case commands.StatusInstalled:
			_, _ = fmt.Fprintf(out, "installed %s@%s\n", result.Release.Name, result.Release.Version)
		case commands.StatusSkipped:
			_, _ = fmt.Fprintf(out, "%s@%s already installed\n", result.Release.Name, result.Release.Version)
		case commands.StatusPlanned:
			_, _ = fmt.Fprintf(out, "would install %s@%s\n", result.Release.Name, result.Release.Version)
		}
	}
	return err
}

// AddFlags adds the install-specific flags to the given Cobra command.
func (it *InstallController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("force", "f", false, "Reinstall even if the same version is already installed")
	cmd.Flags().Bool("dry-run", false, "Show what would be installed without making changes")
}
