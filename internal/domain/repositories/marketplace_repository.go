package repositories

import (
	"context"
	"io"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// MarketplaceRepository abstracts the Trinity marketplace catalog.
type MarketplaceRepository interface {
	// Search returns the agents matching query. An empty query lists the whole catalog.
	Search(ctx context.Context, query string) ([]entities.AgentListing, error)

	// GetAgent returns the catalog entry for name, or entities.ErrAgentNotFound.
	GetAgent(ctx context.Context, name string) (*entities.AgentListing, error)

	// GetRelease returns a published version of name. An empty version resolves to the latest
	// release. Unknown versions yield entities.ErrReleaseNotFound.
	GetRelease(ctx context.Context, name, version string) (*entities.AgentRelease, error)

	// Download streams the package archive of release. The caller closes the reader.
	Download(ctx context.Context, release entities.AgentRelease) (io.ReadCloser, error)
}
