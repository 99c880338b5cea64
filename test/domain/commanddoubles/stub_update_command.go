//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	ExecuteCallCount int
	ExecuteResults   []commands.UpdateResult
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastOpts         commands.UpdateOptions
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.UpdateOptions,
) ([]commands.UpdateResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.ExecuteResults, s.ExecuteErr
}
