//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// StubSearchCommand is a stub implementation of commands.Search.
type StubSearchCommand struct {
	ExecuteCallCount int
	ExecuteListings  []entities.AgentListing
	ExecuteErr       error
	LastQuery        string
}

var _ commands.Search = (*StubSearchCommand)(nil)

func (s *StubSearchCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	query string,
) ([]entities.AgentListing, error) {
	s.ExecuteCallCount++
	s.LastQuery = query
	return s.ExecuteListings, s.ExecuteErr
}
