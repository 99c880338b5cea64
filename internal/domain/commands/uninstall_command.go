package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// Uninstall is the interface for the uninstall command.
type Uninstall interface {
	Execute(ctx context.Context, settings *entities.Settings, names []string) error
}

// UninstallCommand removes installed agents.
type UninstallCommand struct {
	registry *infraRepos.RepositoryRegistry
}

// NewUninstallCommand creates a new UninstallCommand.
func NewUninstallCommand(registry *infraRepos.RepositoryRegistry) *UninstallCommand {
	return &UninstallCommand{registry: registry}
}

// Execute removes every named agent. It keeps going after a failure and returns all of them.
func (it *UninstallCommand) Execute(ctx context.Context, settings *entities.Settings, names []string) error {
	store, err := it.registry.Installation(settings)
	if err != nil {
		return err
	}

	var errs []error
	for _, name := range names {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ref, parseErr := entities.ParseAgentReference(name)
		if parseErr != nil {
			errs = append(errs, parseErr)
			continue
		}
		if removeErr := store.Remove(ref.Name); removeErr != nil {
			logger.Errorf("Failed to uninstall %s: %v", ref.Name, removeErr)
			errs = append(errs, fmt.Errorf("uninstall %s: %w", ref.Name, removeErr))
			continue
		}
		logger.Infof("Uninstalled %s", ref.Name)
	}
	return errors.Join(errs...)
}
