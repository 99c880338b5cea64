//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// StubInstallCommand is a stub implementation of commands.Install.
type StubInstallCommand struct {
	ExecuteCallCount int
	ExecuteResults   []commands.InstallResult
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.InstallOptions
}

var _ commands.Install = (*StubInstallCommand)(nil)

func (s *StubInstallCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.InstallOptions,
) ([]commands.InstallResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteResults, s.ExecuteErr
}
