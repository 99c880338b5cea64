//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
)

// SpyFetcherRepository implements repositories.FetcherRepository by writing a fixed set of
// files into the destination directory.
type SpyFetcherRepository struct {
	// --- identity ---
	FetcherName string
	SourceType  string // releases with this source are supported

	// --- Fetch ---
	Files    map[string]string // relative path -> content, written on every fetch
	FilesFor func(release entities.AgentRelease) map[string]string // overrides Files when set
	Result   entities.FetchResult
	FetchErr error
	// spy: releases fetched and the directories they were fetched into
	Fetched     []entities.AgentRelease
	Destination []string
}

var _ repositories.FetcherRepository = (*SpyFetcherRepository)(nil)

func (f *SpyFetcherRepository) Name() string { return f.FetcherName }

func (f *SpyFetcherRepository) Supports(release entities.AgentRelease) bool {
	return release.SourceType() == f.SourceType
}

func (f *SpyFetcherRepository) Fetch(
	_ context.Context,
	release entities.AgentRelease,
	destDir string,
) (*entities.FetchResult, error) {
	f.Fetched = append(f.Fetched, release)
	f.Destination = append(f.Destination, destDir)

	files := f.Files
	if f.FilesFor != nil {
		files = f.FilesFor(release)
	}
	for name, content := range files {
		path := filepath.Join(destDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // test fixture
			return nil, err
		}
	}

	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	result := f.Result
	return &result, nil
}

// ManifestFiles returns a minimal valid agent package for name at version.
func ManifestFiles(name, version string) map[string]string {
	return map[string]string{
		entities.ManifestFileName: "name: " + name + "\nversion: " + version + "\nentrypoint: main.py\n",
		"main.py":                 "print('hello from " + name + "')\n",
	}
}

// ManifestForRelease builds the package of whichever release is being fetched.
func ManifestForRelease(release entities.AgentRelease) map[string]string {
	return ManifestFiles(release.Name, release.Version)
}
