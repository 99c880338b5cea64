package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
)

const fetcherName = "archive"

// FetcherRepository implements repositories.FetcherRepository for releases published as
// gzip-compressed tarballs on the marketplace.
type FetcherRepository struct {
	marketplace repositories.MarketplaceRepository
	limits      Limits
}

// NewFetcherRepository creates an archive fetcher that downloads through marketplace.
func NewFetcherRepository(
	_ *entities.Settings,
	marketplace repositories.MarketplaceRepository,
) repositories.FetcherRepository {
	return NewFetcherRepositoryWithLimits(marketplace, DefaultLimits())
}

// NewFetcherRepositoryWithLimits creates an archive fetcher with custom extraction limits.
func NewFetcherRepositoryWithLimits(
	marketplace repositories.MarketplaceRepository,
	limits Limits,
) *FetcherRepository {
	return &FetcherRepository{marketplace: marketplace, limits: limits}
}

func (f *FetcherRepository) Name() string { return fetcherName }

// Supports returns true for archive releases that carry a download URL.
func (f *FetcherRepository) Supports(release entities.AgentRelease) bool {
	return release.SourceType() == entities.SourceArchive && release.ArchiveURL != ""
}

// Fetch downloads the archive to a temporary file, verifies its checksum and only then
// extracts it into destDir.
func (f *FetcherRepository) Fetch(
	ctx context.Context,
	release entities.AgentRelease,
	destDir string,
) (*entities.FetchResult, error) {
	expected, err := release.ChecksumDigest()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrChecksumMismatch, err)
	}

	body, err := f.marketplace.Download(ctx, release)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "trinity-agent-*.tar.gz")
	if err != nil {
		return nil, fmt.Errorf("failed to create download file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, hasher), io.LimitReader(body, f.limits.MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to download %s@%s: %w", release.Name, release.Version, err)
	}
	if written > f.limits.MaxDownloadBytes {
		return nil, fmt.Errorf(
			"%w: archive exceeds %d bytes", entities.ErrUnsafePath, f.limits.MaxDownloadBytes,
		)
	}

	actual := hex.EncodeToString(hasher.Sum(nil))
	if expected == "" {
		logger.Warnf("[archive] %s@%s has no published checksum, skipping verification", release.Name, release.Version)
	} else if actual != expected {
		return nil, fmt.Errorf(
			"%w: %s@%s expected sha256:%s, got sha256:%s",
			entities.ErrChecksumMismatch, release.Name, release.Version, expected, actual,
		)
	}
	logger.Debugf("[archive] Downloaded %d bytes (sha256:%s)", written, actual)

	if _, seekErr := tmp.Seek(0, io.SeekStart); seekErr != nil {
		return nil, fmt.Errorf("failed to rewind download: %w", seekErr)
	}
	if extractErr := Extract(tmp, destDir, f.limits); extractErr != nil {
		return nil, extractErr
	}

	return &entities.FetchResult{Checksum: "sha256:" + actual}, nil
}
