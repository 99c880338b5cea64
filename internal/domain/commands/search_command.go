package commands

import (
	"context"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// Search is the interface for the search command.
type Search interface {
	Execute(ctx context.Context, settings *entities.Settings, query string) ([]entities.AgentListing, error)
}

// SearchCommand queries the marketplace catalog.
type SearchCommand struct {
	registry *infraRepos.RepositoryRegistry
}

// NewSearchCommand creates a new SearchCommand.
func NewSearchCommand(registry *infraRepos.RepositoryRegistry) *SearchCommand {
	return &SearchCommand{registry: registry}
}

// Execute returns the agents matching query, sorted by name.
func (it *SearchCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	query string,
) ([]entities.AgentListing, error) {
	marketplace, err := it.registry.Marketplace(settings)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Searching marketplace for %q", query)
	listings, err := marketplace.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Name < listings[j].Name
	})
	return listings, nil
}
