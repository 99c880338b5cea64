package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	infraRepos "github.com/vybe/trinity-market/internal/infrastructure/repositories"
)

// InstallStatus describes what happened to a single agent reference.
type InstallStatus string

const (
	StatusInstalled InstallStatus = "installed"
	StatusSkipped   InstallStatus = "skipped"
	StatusPlanned   InstallStatus = "planned"
)

// Install is the interface for the install command.
type Install interface {
	Execute(ctx context.Context, settings *entities.Settings, opts InstallOptions) ([]InstallResult, error)
}

// InstallOptions holds runtime options for an install run.
type InstallOptions struct {
	References []string // "name" or "name@version"
	Force      bool     // Reinstall even when the same version is present
	DryRun     bool
}

// InstallResult reports the outcome for one reference.
type InstallResult struct {
	Reference entities.AgentReference
	Release   entities.AgentRelease
	Status    InstallStatus
	Agent     *entities.InstalledAgent
	Manifest  *entities.AgentManifest
}

// InstallCommand resolves agents on the marketplace, fetches them into a staging directory,
// validates their manifest and commits them into the install directory.
type InstallCommand struct {
	registry *infraRepos.RepositoryRegistry
}

// NewInstallCommand creates a new InstallCommand.
func NewInstallCommand(registry *infraRepos.RepositoryRegistry) *InstallCommand {
	return &InstallCommand{registry: registry}
}

// Execute installs every reference. It keeps going after a failure and returns the results
// that succeeded together with all errors.
func (it *InstallCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts InstallOptions,
) ([]InstallResult, error) {
	if len(opts.References) == 0 {
		return nil, fmt.Errorf("%w: no agent given", entities.ErrInvalidReference)
	}

	refs := make([]entities.AgentReference, 0, len(opts.References))
	for _, raw := range opts.References {
		ref, err := entities.ParseAgentReference(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	ws, err := newWorkspace(it.registry, settings)
	if err != nil {
		return nil, err
	}

	results := make([]InstallResult, 0, len(refs))
	var errs []error
	for _, ref := range refs {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		result, installErr := it.installReference(ctx, ws, ref, opts)
		if installErr != nil {
			logger.Errorf("Failed to install %s: %v", ref, installErr)
			errs = append(errs, fmt.Errorf("install %s: %w", ref, installErr))
			continue
		}
		results = append(results, *result)
	}

	return results, errors.Join(errs...)
}

func (it *InstallCommand) installReference(
	ctx context.Context,
	ws *workspace,
	ref entities.AgentReference,
	opts InstallOptions,
) (*InstallResult, error) {
	release, err := ws.marketplace.GetRelease(ctx, ref.Name, ref.Version)
	if err != nil {
		return nil, err
	}

	installed, err := ws.store.Get(ref.Name)
	switch {
	case err == nil:
		if !opts.Force && entities.SameVersion(installed.Version, release.Version) {
			logger.Infof("%s@%s is already installed, skipping", ref.Name, installed.Version)
			return &InstallResult{Reference: ref, Release: *release, Status: StatusSkipped, Agent: installed}, nil
		}
	case !errors.Is(err, entities.ErrNotInstalled):
		return nil, err
	}

	return it.installRelease(ctx, ws, ref, *release, opts.DryRun)
}

// installRelease stages, fetches, validates and commits a resolved release. The previous
// installation, if any, is only replaced once everything else succeeded.
func (it *InstallCommand) installRelease(
	ctx context.Context,
	ws *workspace,
	ref entities.AgentReference,
	release entities.AgentRelease,
	dryRun bool,
) (*InstallResult, error) {
	fetcher, err := ws.fetcherFor(release)
	if err != nil {
		return nil, err
	}

	if dryRun {
		logger.Infof(
			"[DRY RUN] Would install %s@%s from %s source",
			release.Name, release.Version, fetcher.Name(),
		)
		return &InstallResult{Reference: ref, Release: release, Status: StatusPlanned}, nil
	}

	logger.Infof("Installing %s@%s (%s)", release.Name, release.Version, fetcher.Name())

	stageDir, err := ws.store.Stage()
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			ws.store.Discard(stageDir)
		}
	}()

	fetched, err := fetcher.Fetch(ctx, release, stageDir)
	if err != nil {
		return nil, err
	}

	manifest, err := entities.LoadManifest(stageDir)
	if err != nil {
		return nil, err
	}
	if validateErr := manifest.Validate(ref.Name, release.Version); validateErr != nil {
		return nil, validateErr
	}

	agent, err := ws.store.Commit(stageDir, entities.InstalledAgent{
		Name:     ref.Name,
		Version:  release.Version,
		Source:   release.SourceType(),
		Checksum: fetched.Checksum,
		Commit:   fetched.Commit,
	})
	if err != nil {
		return nil, err
	}
	committed = true

	logger.Infof("Installed %s@%s into %s", agent.Name, agent.Version, agent.Path)
	for _, name := range manifest.RequiredEnv() {
		if _, ok := os.LookupEnv(name); !ok {
			logger.Warnf("%s requires the environment variable %s", agent.Name, name)
		}
	}

	return &InstallResult{
		Reference: ref,
		Release:   release,
		Status:    StatusInstalled,
		Agent:     agent,
		Manifest:  manifest,
	}, nil
}
