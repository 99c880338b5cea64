package controllers

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// SearchController handles the "search" subcommand.
type SearchController struct {
	command commands.Search
}

// NewSearchController creates a new SearchController.
func NewSearchController(command commands.Search) *SearchController {
	return &SearchController{command: command}
}

// GetBind returns the Cobra command metadata for the search controller.
func (it *SearchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "search [query]",
		Short: "Search the marketplace for agents",
		Long: `Search the Trinity marketplace for agents whose name, description
or tags match the query. Without a query the whole catalog is listed.`,
		Args: cobra.ArbitraryArgs,
	}
}

// Execute prints the matching agents as a table.
func (it *SearchController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	listings, err := it.command.Execute(commandContext(cmd), settings, strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(listings) == 0 {
		_, _ = fmt.Fprintln(out, "No agents found.")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
	_, _ = fmt.Fprintln(writer, "NAME\tVERSION\tDESCRIPTION")
	for _, listing := range listings {
		_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\n", listing.Name, listing.LatestVersion, listing.Description)
	}
	return writer.Flush()
}
