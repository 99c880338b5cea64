package controllers

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// VersionController handles the "version" subcommand.
type VersionController struct {
	command commands.Version
}

// NewVersionController creates a new VersionController.
func NewVersionController(command commands.Version) *VersionController {
	return &VersionController{command: command}
}

// GetBind returns the Cobra command metadata for the version controller.
func (it *VersionController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "version",
		Short: "Print the trinity-market version",
		Args:  cobra.NoArgs,
	}
}

// Execute prints the version, and with --verbose the runtime requirements.
func (it *VersionController) Execute(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	result := it.command.Execute(runtime.Version())

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, result.Distribution.String())
	if !verbose {
		return result.RuntimeErr
	}

	_, _ = fmt.Fprintln(out, result.Distribution.Description)
	_, _ = fmt.Fprintf(out, "go: %s (requires %s or newer)\n", result.GoVersion, result.Distribution.MinRuntime)
	for _, dep := range result.Dependencies {
		resolved := dep.Resolved
		if resolved == "" {
			resolved = "unknown"
		}
		_, _ = fmt.Fprintf(out, "%s: %s >= %s (resolved %s)\n", dep.Role, dep.Module, dep.MinVersion, resolved)
	}
	return result.RuntimeErr
}
