//go:build unit

package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
	domainRepos "github.com/vybe/trinity-market/internal/domain/repositories"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
	fsRepo "github.com/vybe/trinity-market/internal/infrastructure/repositories/filesystem"
	"github.com/vybe/trinity-market/test/domain/entitybuilders"
	doubles "github.com/vybe/trinity-market/test/infrastructure/repositorydoubles"
)

// fixture wires spy marketplace and fetcher repositories around a real installation store
// rooted in a temporary directory.
type fixture struct {
	settings *entities.Settings
	market   *doubles.SpyMarketplaceRepository
	fetcher  *doubles.SpyFetcherRepository
	registry *infraRepos.RepositoryRegistry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := entities.NewDefaultSettings()
	settings.Install.Dir = t.TempDir()

	f := &fixture{
		settings: settings,
		market: &doubles.SpyMarketplaceRepository{
			Agents:   map[string]entities.AgentListing{},
			Releases: map[string]entities.AgentRelease{},
		},
		fetcher: &doubles.SpyFetcherRepository{
			FetcherName: "spy",
			SourceType:  entities.SourceArchive,
			FilesFor:    doubles.ManifestForRelease,
		},
		registry: infraRepos.NewRepositoryRegistry(),
	}
	f.registry.SetMarketplace(func(*entities.Settings) domainRepos.MarketplaceRepository { return f.market })
	f.registry.SetInstallation(fsRepo.NewInstallationRepository)
	f.registry.RegisterFetcher("spy", func(
		*entities.Settings,
		domainRepos.MarketplaceRepository,
	) domainRepos.FetcherRepository {
		return f.fetcher
	})
	return f
}

// publish lists name on the marketplace with the given versions; the last one is the latest.
func (f *fixture) publish(name string, versions ...string) {
	f.market.Agents[name] = entitybuilders.NewListingBuilder().
		WithName(name).
		WithVersions(versions...).
		BuildListing()
	for _, version := range versions {
		f.market.Releases[name+"@"+version] = entitybuilders.NewReleaseBuilder().
			WithName(name).
			WithVersion(version).
			WithArchive("/dl/" + name + "-" + version + ".tar.gz").
			BuildRelease()
	}
}

func (f *fixture) store() *fsRepo.InstallationRepository {
	return fsRepo.NewInstallationRepositoryAt(f.settings.Install.Dir)
}

func (f *fixture) install(t *testing.T, refs ...string) {
	t.Helper()
	_, err := commands.NewInstallCommand(f.registry).Execute(
		context.Background(), f.settings, commands.InstallOptions{References: refs},
	)
	require.NoError(t, err)
}

func TestInstallCommand_Execute(t *testing.T) {
	t.Parallel()

	t.Run("should install the latest release when no version is given", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0", "1.2.0")
		command := commands.NewInstallCommand(f.registry)

		// when
		results, err := command.Execute(context.Background(), f.settings, commands.InstallOptions{
			References: []string{"Summarizer"},
		})

		// then
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, commands.StatusInstalled, results[0].Status)
		assert.Equal(t, "1.2.0", results[0].Agent.Version)
		assert.Equal(t, "main.py", results[0].Manifest.Entrypoint)
		assert.Equal(t, []string{"summarizer@"}, f.market.ReleaseRequests)
		assert.FileExists(t, filepath.Join(results[0].Agent.Path, entities.ManifestFileName))

		installed, getErr := f.store().Get("summarizer")
		require.NoError(t, getErr)
		assert.Equal(t, "1.2.0", installed.Version)
		assert.Equal(t, entities.SourceArchive, installed.Source)
	})

	t.Run("should install a pinned version", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0", "1.2.0")

		// when
		results, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings, commands.InstallOptions{References: []string{"summarizer@1.0.0"}},
		)

		// then
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "1.0.0", results[0].Agent.Version)
	})

	t.Run("should skip an agent already installed at the same version unless forced", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")
		f.install(t, "summarizer")
		command := commands.NewInstallCommand(f.registry)

		// when
		skipped, skipErr := command.Execute(context.Background(), f.settings, commands.InstallOptions{
			References: []string{"summarizer"},
		})
		forced, forceErr := command.Execute(context.Background(), f.settings, commands.InstallOptions{
			References: []string{"summarizer"},
			Force:      true,
		})

		// then
		require.NoError(t, skipErr)
		require.NoError(t, forceErr)
		assert.Equal(t, commands.StatusSkipped, skipped[0].Status)
		assert.Equal(t, commands.StatusInstalled, forced[0].Status)
		assert.Len(t, f.fetcher.Fetched, 2)
	})

	t.Run("should only plan the install on a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")

		// when
		results, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings,
			commands.InstallOptions{References: []string{"summarizer"}, DryRun: true},
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, commands.StatusPlanned, results[0].Status)
		assert.Empty(t, f.fetcher.Fetched)
		agents, listErr := f.store().List()
		require.NoError(t, listErr)
		assert.Empty(t, agents)
	})

	t.Run("should reject a package whose manifest names another agent", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")
		f.fetcher.FilesFor = func(release entities.AgentRelease) map[string]string {
			return doubles.ManifestFiles("impostor", release.Version)
		}

		// when
		_, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings, commands.InstallOptions{References: []string{"summarizer"}},
		)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidManifest)
		_, getErr := f.store().Get("summarizer")
		require.ErrorIs(t, getErr, entities.ErrNotInstalled)
		require.Len(t, f.fetcher.Destination, 1)
		assert.NoDirExists(t, f.fetcher.Destination[0])
	})

	t.Run("should keep the previous installation when the new release fails to fetch", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0", "1.2.0")
		f.install(t, "summarizer@1.0.0")
		f.fetcher.FetchErr = errors.New("network down")

		// when
		_, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings, commands.InstallOptions{References: []string{"summarizer@1.2.0"}},
		)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network down")
		installed, getErr := f.store().Get("summarizer")
		require.NoError(t, getErr)
		assert.Equal(t, "1.0.0", installed.Version)
		assert.FileExists(t, filepath.Join(installed.Path, entities.ManifestFileName))
	})

	t.Run("should fail with ErrUnsupportedSource when no fetcher handles the release", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")
		f.market.Releases["summarizer@1.0.0"] = entitybuilders.NewReleaseBuilder().
			WithName("summarizer").
			WithSource("docker").
			BuildRelease()

		// when
		_, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings, commands.InstallOptions{References: []string{"summarizer"}},
		)

		// then
		require.ErrorIs(t, err, entities.ErrUnsupportedSource)
		assert.Empty(t, f.fetcher.Fetched)
	})

	t.Run("should keep installing after one reference fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")

		// when
		results, err := commands.NewInstallCommand(f.registry).Execute(
			context.Background(), f.settings,
			commands.InstallOptions{References: []string{"missing", "summarizer"}},
		)

		// then
		require.ErrorIs(t, err, entities.ErrAgentNotFound)
		require.Len(t, results, 1)
		assert.Equal(t, "summarizer", results[0].Agent.Name)
	})

	t.Run("should reject invalid references before contacting the marketplace", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		command := commands.NewInstallCommand(f.registry)

		// when
		_, emptyErr := command.Execute(context.Background(), f.settings, commands.InstallOptions{})
		_, invalidErr := command.Execute(context.Background(), f.settings, commands.InstallOptions{
			References: []string{"summarizer", "../etc"},
		})

		// then
		require.ErrorIs(t, emptyErr, entities.ErrInvalidReference)
		require.ErrorIs(t, invalidErr, entities.ErrInvalidReference)
		assert.Empty(t, f.market.ReleaseRequests)
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		f := newFixture(t)
		f.publish("summarizer", "1.0.0")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		_, err := commands.NewInstallCommand(f.registry).Execute(
			ctx, f.settings, commands.InstallOptions{References: []string{"summarizer"}},
		)

		// then
		require.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(filepath.Join(f.settings.Install.Dir, "summarizer"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
