package controllers

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List installed agents",
		Long:  `List the agents recorded in the lockfile of the install directory.`,
		Args:  cobra.NoArgs,
	}
}

// Execute prints the installed agents as a table.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	agents, err := it.command.Execute(commandContext(cmd), settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(agents) == 0 {
		_, _ = fmt.Fprintln(out, "No agents installed.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintln(writer, "NAME\tVERSION\tSOURCE\tINSTALLED")
	for _, agent := range agents {
		_, _ = fmt.Fprintf(
			writer, "%s\t%s\t%s\t%s\n",
			agent.Name, agent.Version, agent.Source, agent.InstalledAt.Format(time.RFC3339),
		)
	}
	return writer.Flush()
}
