package controllers

import (
	"go.uber.org/dig"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		NewSearchController,
		NewInfoController,
		NewInstallController,
		NewUninstallController,
		NewListController,
		NewUpdateController,
		NewVersionController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}
	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	searchController *SearchController,
	infoController *InfoController,
	installController *InstallController,
	uninstallController *UninstallController,
	listController *ListController,
	updateController *UpdateController,
	versionController *VersionController,
) *[]entities.Controller {
	return &[]entities.Controller{
		searchController,
		infoController,
		installController,
		uninstallController,
		listController,
		updateController,
		versionController,
	}
}
