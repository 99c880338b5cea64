package controllers

import (
	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// UninstallController handles the "uninstall" subcommand.
type UninstallController struct {
	command commands.Uninstall
}

// NewUninstallController creates a new UninstallController.
func NewUninstallController(command commands.Uninstall) *UninstallController {
	return &UninstallController{command: command}
}

// GetBind returns the Cobra command metadata for the uninstall controller.
func (it *UninstallController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "uninstall <agent>...",
		Short: "Remove installed agents",
		Long:  `Remove installed agents from the install directory and the lockfile.`,
		Args:  cobra.MinimumNArgs(1),
	}
}

// Execute removes the given agents.
func (it *UninstallController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	return it.command.Execute(commandContext(cmd), settings, args)
}
