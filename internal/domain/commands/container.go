package commands

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	constructors := []any{
		NewSearchCommand,
		NewInfoCommand,
		NewInstallCommand,
		NewUninstallCommand,
		NewListCommand,
		NewUpdateCommand,
		NewVersionCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *SearchCommand) Search { return impl },
		func(impl *InfoCommand) Info { return impl },
		func(impl *InstallCommand) Install { return impl },
		func(impl *UninstallCommand) Uninstall { return impl },
		func(impl *ListCommand) List { return impl },
		func(impl *UpdateCommand) Update { return impl },
		func(impl *VersionCommand) Version { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
