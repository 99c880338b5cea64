package repositories

import (
	"errors"

	"github.com/vybe/trinity-market/internal/domain/entities"
	domainRepos "github.com/vybe/trinity-market/internal/domain/repositories"
)

// MarketplaceFactory builds a marketplace client for the given settings.
type MarketplaceFactory func(settings *entities.Settings) domainRepos.MarketplaceRepository

// InstallationFactory builds the local installation store for the given settings.
type InstallationFactory func(settings *entities.Settings) domainRepos.InstallationRepository

// FetcherFactory builds a fetcher. Fetchers that download through the marketplace receive it.
type FetcherFactory func(
	settings *entities.Settings,
	marketplace domainRepos.MarketplaceRepository,
) domainRepos.FetcherRepository

// RepositoryRegistry wires settings-dependent repositories. Settings are only known once the
// CLI flags are parsed, so commands ask the registry for concrete repositories at run time.
type RepositoryRegistry struct {
	marketplace  MarketplaceFactory
	installation InstallationFactory
	fetchers     map[string]FetcherFactory
	order        []string
}

// NewRepositoryRegistry creates an empty registry.
func NewRepositoryRegistry() *RepositoryRegistry {
	return &RepositoryRegistry{
		fetchers: make(map[string]FetcherFactory),
	}
}

// SetMarketplace registers the marketplace factory.
func (r *RepositoryRegistry) SetMarketplace(factory MarketplaceFactory) {
	r.marketplace = factory
}

// SetInstallation registers the installation store factory.
func (r *RepositoryRegistry) SetInstallation(factory InstallationFactory) {
	r.installation = factory
}

// RegisterFetcher adds a fetcher factory under the given name. Fetchers are consulted in
// registration order; registering an existing name replaces it in place.
func (r *RepositoryRegistry) RegisterFetcher(name string, factory FetcherFactory) {
	if _, exists := r.fetchers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.fetchers[name] = factory
}

// Marketplace returns a marketplace client configured with settings.
func (r *RepositoryRegistry) Marketplace(settings *entities.Settings) (domainRepos.MarketplaceRepository, error) {
	if r.marketplace == nil {
		return nil, errors.New("no marketplace repository registered")
	}
	return r.marketplace(settings), nil
}

// Installation returns the installation store configured with settings.
func (r *RepositoryRegistry) Installation(settings *entities.Settings) (domainRepos.InstallationRepository, error) {
	if r.installation == nil {
		return nil, errors.New("no installation repository registered")
	}
	return r.installation(settings), nil
}

// Fetchers returns one instance of every registered fetcher, in registration order.
func (r *RepositoryRegistry) Fetchers(
	settings *entities.Settings,
	marketplace domainRepos.MarketplaceRepository,
) []domainRepos.FetcherRepository {
	result := make([]domainRepos.FetcherRepository, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.fetchers[name](settings, marketplace))
	}
	return result
}

// FetcherNames returns the registered fetcher names in registration order.
func (r *RepositoryRegistry) FetcherNames() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
