package repositories

import (
	"context"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// FetcherRepository materializes an agent release into a local directory.
// Each implementation handles one distribution channel (archives, Git repositories, ...).
type FetcherRepository interface {
	// Name returns the fetcher identifier (e.g. "archive", "git").
	Name() string

	// Supports returns true if this fetcher can deliver the given release.
	Supports(release entities.AgentRelease) bool

	// Fetch writes the release contents into destDir, which must already exist and be empty.
	Fetch(ctx context.Context, release entities.AgentRelease, destDir string) (*entities.FetchResult, error)
}
