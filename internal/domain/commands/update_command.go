package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// Update is the interface for the update command.
type Update interface {
	Execute(ctx context.Context, settings *entities.Settings, opts UpdateOptions) ([]UpdateResult, error)
}

// UpdateOptions holds runtime options for an update run.
type UpdateOptions struct {
	Names  []string // If empty, every installed agent is considered
	DryRun bool
}

// UpdateResult reports the outcome for one installed agent.
type UpdateResult struct {
	Name        string
	FromVersion string
	ToVersion   string
	Status      InstallStatus
}

// UpdateCommand upgrades installed agents to the marketplace's latest release.
type UpdateCommand struct {
	registry  *infraRepos.RepositoryRegistry
	installer *InstallCommand
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(registry *infraRepos.RepositoryRegistry, installer *InstallCommand) *UpdateCommand {
	return &UpdateCommand{registry: registry, installer: installer}
}

// Execute compares every selected installed agent with the latest marketplace release and
// reinstalls the ones that are behind. Failures are counted and reported together at the end.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts UpdateOptions,
) ([]UpdateResult, error) {
	ws, err := newWorkspace(it.registry, settings)
	if err != nil {
		return nil, err
	}

	targets, err := selectInstalled(ws, opts.Names)
	if err != nil {
		return nil, err
	}

	results := make([]UpdateResult, 0, len(targets))
	var errs []error
	for _, installed := range targets {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, updateErr := it.updateAgent(ctx, ws, installed, opts.DryRun)
		if updateErr != nil {
			logger.Errorf("Failed to update %s: %v", installed.Name, updateErr)
			errs = append(errs, fmt.Errorf("update %s: %w", installed.Name, updateErr))
			continue
		}
		results = append(results, *result)
	}

	updated := 0
	for _, result := range results {
		if result.Status != StatusSkipped {
			updated++
		}
	}
	logger.Infof(
		"Update complete: %d agents checked, %d updated, %d errors",
		len(targets), updated, len(errs),
	)
	return results, errors.Join(errs...)
}

func (it *UpdateCommand) updateAgent(
	ctx context.Context,
	ws *workspace,
	installed entities.InstalledAgent,
	dryRun bool,
) (*UpdateResult, error) {
	result := &UpdateResult{
		Name:        installed.Name,
		FromVersion: installed.Version,
		ToVersion:   installed.Version,
		Status:      StatusSkipped,
	}

	listing, err := ws.marketplace.GetAgent(ctx, installed.Name)
	if err != nil {
		return nil, err
	}
	if !entities.IsNewer(listing.LatestVersion, installed.Version) {
		logger.Infof("%s@%s is up to date", installed.Name, installed.Version)
		return result, nil
	}

	release, err := ws.marketplace.GetRelease(ctx, installed.Name, listing.LatestVersion)
	if err != nil {
		return nil, err
	}

	ref := entities.AgentReference{Name: installed.Name, Version: release.Version}
	installResult, err := it.installer.installRelease(ctx, ws, ref, *release, dryRun)
	if err != nil {
		return nil, err
	}

	result.ToVersion = release.Version
	result.Status = installResult.Status
	return result, nil
}

// selectInstalled returns the installed agents named in names, or all of them when names is empty.
func selectInstalled(ws *workspace, names []string) ([]entities.InstalledAgent, error) {
	if len(names) == 0 {
		return ws.store.List()
	}

	selected := make([]entities.InstalledAgent, 0, len(names))
	for _, name := range names {
		ref, err := entities.ParseAgentReference(name)
		if err != nil {
			return nil, err
		}
		installed, err := ws.store.Get(ref.Name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, *installed)
	}
	return selected, nil
}
