//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/vybe/trinity-market/internal/domain/entities"
	domainRepos "github.com/vybe/trinity-market/internal/domain/repositories"
	"github.com/vybe/trinity-market/internal/infrastructure/repositories"
	doubles "github.com/vybe/trinity-market/test/infrastructure/repositorydoubles"
)

func TestRepositoryRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should fail when no marketplace or installation factory is registered", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewRepositoryRegistry()

		// when
		_, marketErr := registry.Marketplace(entities.NewDefaultSettings())
		_, installErr := registry.Installation(entities.NewDefaultSettings())

		// then
		require.Error(t, marketErr)
		require.Error(t, installErr)
		assert.Empty(t, registry.Fetchers(entities.NewDefaultSettings(), nil))
	})

	t.Run("should build fetchers in registration order and hand them the marketplace", func(t *testing.T) {
		t.Parallel()

		// given
		market := &doubles.SpyMarketplaceRepository{}
		var received domainRepos.MarketplaceRepository
		registry := repositories.NewRepositoryRegistry()
		registry.SetMarketplace(func(*entities.Settings) domainRepos.MarketplaceRepository { return market })
		registry.RegisterFetcher("second", func(
			_ *entities.Settings,
			mkt domainRepos.MarketplaceRepository,
		) domainRepos.FetcherRepository {
			received = mkt
			return &doubles.SpyFetcherRepository{FetcherName: "second"}
		})
		registry.RegisterFetcher("first", func(
			*entities.Settings,
			domainRepos.MarketplaceRepository,
		) domainRepos.FetcherRepository {
			return &doubles.SpyFetcherRepository{FetcherName: "first"}
		})
		registry.RegisterFetcher("second", func(
			_ *entities.Settings,
			mkt domainRepos.MarketplaceRepository,
		) domainRepos.FetcherRepository {
			received = mkt
			return &doubles.SpyFetcherRepository{FetcherName: "second-replaced"}
		})

		// when
		mkt, err := registry.Marketplace(entities.NewDefaultSettings())
		require.NoError(t, err)
		fetchers := registry.Fetchers(entities.NewDefaultSettings(), mkt)

		// then
		assert.Equal(t, []string{"second", "first"}, registry.FetcherNames())
		require.Len(t, fetchers, 2)
		assert.Equal(t, "second-replaced", fetchers[0].Name())
		assert.Equal(t, "first", fetchers[1].Name())
		assert.Same(t, market, received)
	})
}

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	// given
	container := dig.New()
	require.NoError(t, repositories.RegisterProviders(container))

	// when
	var registry *repositories.RepositoryRegistry
	require.NoError(t, container.Invoke(func(reg *repositories.RepositoryRegistry) { registry = reg }))

	// then
	assert.Equal(t, []string{"archive", "git"}, registry.FetcherNames())
	_, err := registry.Marketplace(entities.NewDefaultSettings())
	require.NoError(t, err)
}
