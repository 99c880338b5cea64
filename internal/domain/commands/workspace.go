package commands

import (
	"fmt"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// workspace bundles the repositories a command needs for one invocation.
type workspace struct {
	marketplace repositories.MarketplaceRepository
	store       repositories.InstallationRepository
	fetchers    []repositories.FetcherRepository
}

func newWorkspace(registry *infraRepos.RepositoryRegistry, settings *entities.Settings) (*workspace, error) {
	marketplace, err := registry.Marketplace(settings)
	if err != nil {
		return nil, err
	}
	store, err := registry.Installation(settings)
	if err != nil {
		return nil, err
	}
	return &workspace{
		marketplace: marketplace,
		store:       store,
		fetchers:    registry.Fetchers(settings, marketplace),
	}, nil
}

// fetcherFor returns the first fetcher able to deliver release.
func (w *workspace) fetcherFor(release entities.AgentRelease) (repositories.FetcherRepository, error) {
	for _, fetcher := range w.fetchers {
		if fetcher.Supports(release) {
			return fetcher, nil
		}
	}
	return nil, fmt.Errorf(
		"%w: %s@%s is distributed as %q", entities.ErrUnsupportedSource,
		release.Name, release.Version, release.SourceType(),
	)
}
