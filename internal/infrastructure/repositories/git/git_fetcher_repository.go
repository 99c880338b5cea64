package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/domain/repositories"
	"github.com/vybe/trinity-market/internal/infrastructure/repositories/pathguard"
)

const (
	fetcherName       = "git"
	tokenUsername     = "x-access-token"
	minCommitPrefix   = 7
	gitMetadataFolder = ".git"
)

// FetcherRepository implements repositories.FetcherRepository for agents published as a tag
// (or branch) of a Git repository.
type FetcherRepository struct {
	token string
}

// NewFetcherRepository creates a Git fetcher using the Git token from settings.
func NewFetcherRepository(
	settings *entities.Settings,
	_ repositories.MarketplaceRepository,
) repositories.FetcherRepository {
	return &FetcherRepository{token: settings.Git.Token}
}

func (f *FetcherRepository) Name() string { return fetcherName }

// Supports returns true for Git releases that name a repository.
func (f *FetcherRepository) Supports(release entities.AgentRelease) bool {
	return release.SourceType() == entities.SourceGit && release.Repository != ""
}

// Fetch shallow-clones the release ref into destDir, verifies the pinned commit if any and
// strips the Git metadata so only the agent files remain. Checkouts holding symlinks that
// resolve outside destDir fail with entities.ErrUnsafePath.
func (f *FetcherRepository) Fetch(
	ctx context.Context,
	release entities.AgentRelease,
	destDir string,
) (*entities.FetchResult, error) {
	auth := f.authFor(release.Repository)

	var repo *gogit.Repository
	var cloneErr error
	for _, ref := range ReferenceCandidates(release) {
		logger.Debugf("[git] Cloning %s at %s", release.Repository, ref)
		//nolint:exhaustruct // Minimal CloneOptions initialization with required fields only
		repo, cloneErr = gogit.PlainCloneContext(ctx, destDir, false, &gogit.CloneOptions{
			URL:           release.Repository,
			Auth:          auth,
			ReferenceName: ref,
			SingleBranch:  true,
			Depth:         1,
			Tags:          gogit.NoTags,
		})
		if cloneErr == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if clearErr := clearDir(destDir); clearErr != nil {
			return nil, clearErr
		}
	}
	if cloneErr != nil {
		return nil, fmt.Errorf("failed to clone %s: %w", release.Repository, cloneErr)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD of %s: %w", release.Repository, err)
	}
	commit := head.Hash().String()
	if !CommitMatches(release.Commit, commit) {
		return nil, fmt.Errorf(
			"%w: %s@%s expected commit %s, got %s",
			entities.ErrChecksumMismatch, release.Name, release.Version, release.Commit, commit,
		)
	}

	if removeErr := os.RemoveAll(filepath.Join(destDir, gitMetadataFolder)); removeErr != nil {
		return nil, fmt.Errorf("failed to strip git metadata: %w", removeErr)
	}
	if linkErr := pathguard.CheckTree(destDir); linkErr != nil {
		return nil, linkErr
	}
	return &entities.FetchResult{Commit: commit}, nil
}

// ReferenceCandidates lists the refs tried, in order, to find a release. A fully qualified
// ref is used as-is; otherwise the ref (or the version when no ref is given) is tried as a
// tag, as a "v"-prefixed tag and finally as a branch.
func ReferenceCandidates(release entities.AgentRelease) []plumbing.ReferenceName {
	ref := strings.TrimSpace(release.Ref)
	if strings.HasPrefix(ref, "refs/") {
		return []plumbing.ReferenceName{plumbing.ReferenceName(ref)}
	}
	if ref == "" {
		ref = release.Version
	}
	if ref == "" {
		return []plumbing.ReferenceName{plumbing.HEAD}
	}

	candidates := []plumbing.ReferenceName{plumbing.NewTagReferenceName(ref)}
	if !strings.HasPrefix(ref, "v") && entities.ValidVersion(ref) {
		candidates = append(candidates, plumbing.NewTagReferenceName("v"+ref))
	}
	return append(candidates, plumbing.NewBranchReferenceName(ref))
}

// CommitMatches reports whether actual satisfies the pinned commit. An empty pin matches any
// commit; abbreviated pins need at least seven hex characters.
func CommitMatches(pinned, actual string) bool {
	pinned = strings.ToLower(strings.TrimSpace(pinned))
	if pinned == "" {
		return true
	}
	if len(pinned) < minCommitPrefix {
		return false
	}
	return strings.HasPrefix(strings.ToLower(actual), pinned)
}

func (f *FetcherRepository) authFor(repository string) transport.AuthMethod {
	if f.token == "" {
		return nil
	}
	endpoint, err := transport.NewEndpoint(repository)
	if err != nil || (endpoint.Protocol != "http" && endpoint.Protocol != "https") {
		return nil
	}
	return &githttp.BasicAuth{Username: tokenUsername, Password: f.token}
}

// clearDir empties dir without removing it, so the next clone attempt starts clean.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(dir, 0o755) //nolint:mnd // directory permissions
		}
		return fmt.Errorf("failed to reset %s: %w", dir, err)
	}
	for _, entry := range entries {
		if removeErr := os.RemoveAll(filepath.Join(dir, entry.Name())); removeErr != nil {
			return fmt.Errorf("failed to reset %s: %w", dir, removeErr)
		}
	}
	return nil
}
