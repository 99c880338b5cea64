//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
)

// SpyMarketplaceRepository implements repositories.MarketplaceRepository as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyMarketplaceRepository struct {
	// --- Search ---
	Listings  []entities.AgentListing
	SearchErr error
	// spy: queries received
	Queries []string

	// --- GetAgent ---
	Agents      map[string]entities.AgentListing // name -> listing
	GetAgentErr error
	// spy: names requested
	AgentRequests []string

	// --- GetRelease ---
	Releases      map[string]entities.AgentRelease // "name@version" -> release
	GetReleaseErr error
	// spy: "name@version" requested ("name@" for latest)
	ReleaseRequests []string

	// --- Download ---
	Archives    map[string][]byte // archive URL -> body
	DownloadErr error
	// spy: releases downloaded
	Downloads []entities.AgentRelease
}

var _ repositories.MarketplaceRepository = (*SpyMarketplaceRepository)(nil)

func (m *SpyMarketplaceRepository) Search(_ context.Context, query string) ([]entities.AgentListing, error) {
	m.Queries = append(m.Queries, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	result := make([]entities.AgentListing, len(m.Listings))
	copy(result, m.Listings)
	return result, nil
}

func (m *SpyMarketplaceRepository) GetAgent(_ context.Context, name string) (*entities.AgentListing, error) {
	m.AgentRequests = append(m.AgentRequests, name)
	if m.GetAgentErr != nil {
		return nil, m.GetAgentErr
	}
	listing, ok := m.Agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrAgentNotFound, name)
	}
	return &listing, nil
}

func (m *SpyMarketplaceRepository) GetRelease(
	_ context.Context,
	name, version string,
) (*entities.AgentRelease, error) {
	m.ReleaseRequests = append(m.ReleaseRequests, name+"@"+version)
	if m.GetReleaseErr != nil {
		return nil, m.GetReleaseErr
	}
	if version == "" {
		listing, ok := m.Agents[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", entities.ErrAgentNotFound, name)
		}
		version = listing.LatestVersion
	}
	release, ok := m.Releases[name+"@"+version]
	if !ok {
		return nil, fmt.Errorf("%w: %s@%s", entities.ErrReleaseNotFound, name, version)
	}
	return &release, nil
}

func (m *SpyMarketplaceRepository) Download(
	_ context.Context,
	release entities.AgentRelease,
) (io.ReadCloser, error) {
	m.Downloads = append(m.Downloads, release)
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	body, ok := m.Archives[release.ArchiveURL]
	if !ok {
		return nil, fmt.Errorf("%w: no archive at %s", entities.ErrReleaseNotFound, release.ArchiveURL)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
