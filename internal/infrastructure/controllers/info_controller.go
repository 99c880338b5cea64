package controllers

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// InfoController handles the "info" subcommand.
type InfoController struct {
	command commands.Info
}

// NewInfoController creates a new InfoController.
func NewInfoController(command commands.Info) *InfoController {
	return &InfoController{command: command}
}

// GetBind returns the Cobra command metadata for the info controller.
func (it *InfoController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "info <agent>",
		Short: "Show details about an agent",
		Long:  `Show the marketplace listing of an agent and whether it is installed locally.`,
		Args:  cobra.ExactArgs(1),
	}
}

// Execute prints the agent details.
func (it *InfoController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	result, err := it.command.Execute(commandContext(cmd), settings, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	listing := result.Listing
	_, _ = fmt.Fprintf(out, "Name:        %s\n", listing.Name)
	_, _ = fmt.Fprintf(out, "Latest:      %s\n", listing.LatestVersion)
	if listing.Description != "" {
		_, _ = fmt.Fprintf(out, "Description: %s\n", listing.Description)
	}
	if listing.Author != "" {
		_, _ = fmt.Fprintf(out, "Author:      %s\n", listing.Author)
	}
	if listing.Homepage != "" {
		_, _ = fmt.Fprintf(out, "Homepage:    %s\n", listing.Homepage)
	}
	if len(listing.Tags) > 0 {
		_, _ = fmt.Fprintf(out, "Tags:        %s\n", strings.Join(listing.Tags, ", "))
	}
	if len(listing.Versions) > 0 {
		_, _ = fmt.Fprintf(out, "Versions:    %s\n", strings.Join(listing.Versions, ", "))
	}

	switch {
	case result.Installed == nil:
		_, _ = fmt.Fprintln(out, "Installed:   no")
	case result.UpdateAvailable():
		_, _ = fmt.Fprintf(out, "Installed:   %s (update available)\n", result.Installed.Version)
	default:
		_, _ = fmt.Fprintf(out, "Installed:   %s\n", result.Installed.Version)
	}
	return nil
}
