package commands

import (
	"context"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings) ([]entities.InstalledAgent, error)
}

// ListCommand reports the locally installed agents.
type ListCommand struct {
	registry *infraRepos.RepositoryRegistry
}

// NewListCommand creates a new ListCommand.
func NewListCommand(registry *infraRepos.RepositoryRegistry) *ListCommand {
	return &ListCommand{registry: registry}
}

// Execute returns the installed agents sorted by name.
func (it *ListCommand) Execute(_ context.Context, settings *entities.Settings) ([]entities.InstalledAgent, error) {
	store, err := it.registry.Installation(settings)
	if err != nil {
		return nil, err
	}
	return store.List()
}
