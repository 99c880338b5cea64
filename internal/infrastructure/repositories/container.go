package repositories

import (
	"go.uber.org/dig"

	archiveRepo "github.com/vybe/trinity-market/internal/infrastructure/repositories/archive"
	fsRepo "github.com/vybe/trinity-market/internal/infrastructure/repositories/filesystem"
	gitRepo "github.com/vybe/trinity-market/internal/infrastructure/repositories/git"
	marketRepo "github.com/vybe/trinity-market/internal/infrastructure/repositories/marketplace"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	return container.Provide(func() *RepositoryRegistry {
		reg := NewRepositoryRegistry()
		reg.SetMarketplace(marketRepo.NewMarketplaceRepository)
		reg.SetInstallation(fsRepo.NewInstallationRepository)
		reg.RegisterFetcher("archive", archiveRepo.NewFetcherRepository)
		reg.RegisterFetcher("git", gitRepo.NewFetcherRepository)
		return reg
	})
}
