package commands

import (
	"context"
	"errors"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// Info is the interface for the info command.
type Info interface {
	Execute(ctx context.Context, settings *entities.Settings, name string) (*InfoResult, error)
}

// InfoResult combines the marketplace listing with the local installation, if any.
type InfoResult struct {
	Listing   entities.AgentListing
	Installed *entities.InstalledAgent
}

// UpdateAvailable reports whether the marketplace has a newer version than the installed one.
func (r *InfoResult) UpdateAvailable() bool {
	return r.Installed != nil && entities.IsNewer(r.Listing.LatestVersion, r.Installed.Version)
}

// InfoCommand describes a single agent.
type InfoCommand struct {
	registry *infraRepos.RepositoryRegistry
}

// NewInfoCommand creates a new InfoCommand.
func NewInfoCommand(registry *infraRepos.RepositoryRegistry) *InfoCommand {
	return &InfoCommand{registry: registry}
}

// Execute fetches the listing of name and looks it up in the local installation.
func (it *InfoCommand) Execute(ctx context.Context, settings *entities.Settings, name string) (*InfoResult, error) {
	ref, err := entities.ParseAgentReference(name)
	if err != nil {
		return nil, err
	}

	ws, err := newWorkspace(it.registry, settings)
	if err != nil {
		return nil, err
	}

	listing, err := ws.marketplace.GetAgent(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	entities.SortVersionsDescending(listing.Versions)

	result := &InfoResult{Listing: *listing}
	installed, err := ws.store.Get(ref.Name)
	switch {
	case err == nil:
		result.Installed = installed
	case !errors.Is(err, entities.ErrNotInstalled):
		return nil, err
	}
	return result, nil
}
