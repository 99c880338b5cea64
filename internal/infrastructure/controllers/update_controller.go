package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update [agent...]",
		Short: "Update installed agents to their latest release",
		Long: `Compare installed agents with the latest release on the marketplace
and reinstall the ones that are behind. Without arguments every installed
agent is checked.`,
		Args: cobra.ArbitraryArgs,
	}
}

// Execute updates the selected agents.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	results, err := it.command.Execute(commandContext(cmd), settings, commands.UpdateOptions{
		Names:  args,
		DryRun: dryRun,
	})

	out := cmd.OutOrStdout()
	for _, result := range results {
		switch result.Status {
		case commands.StatusInstalled:
			_, _ = fmt.Fprintf(out, "updated %s %s -> %s\n", result.Name, result.FromVersion, result.ToVersion)
		case commands.StatusPlanned:
			_, _ = fmt.Fprintf(out, "would update %s %s -> %s\n", result.Name, result.FromVersion, result.ToVersion)
		case commands.StatusSkipped:
			_, _ = fmt.Fprintf(out, "%s %s is up to date\n", result.Name, result.FromVersion)
		}
	}
	return err
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "Show what would be updated without making changes")
}
