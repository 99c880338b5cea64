package entities

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// SourceArchive marks a release distributed as a gzip-compressed tarball.
	SourceArchive = "archive"
	// SourceGit marks a release distributed as a tag or commit of a Git repository.
	SourceGit = "git"

	checksumAlgorithm = "sha256"
)

// AgentListing is the marketplace catalog entry for an agent.
type AgentListing struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Author        string   `json:"author"`
	LatestVersion string   `json:"latest_version"`
	Versions      []string `json:"versions"`
	Tags          []string `json:"tags"`
	Homepage      string   `json:"homepage"`
}

// AgentRelease describes a single published version of an agent and where to fetch it from.
type AgentRelease struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	ArchiveURL  string    `json:"archive_url"`
	Checksum    string    `json:"checksum"`
	Repository  string    `json:"repository"`
	Ref         string    `json:"ref"`
	Commit      string    `json:"commit"`
	PublishedAt time.Time `json:"published_at"`
}

// SourceType returns the release source, defaulting to an archive when the marketplace omits it.
func (r AgentRelease) SourceType() string {
	if r.Source == "" {
		return SourceArchive
	}
	return strings.ToLower(r.Source)
}

// ChecksumDigest returns the hex-encoded sha256 digest of the release checksum.
// Both "sha256:<hex>" and a bare hex digest are accepted. An empty checksum yields "".
func (r AgentRelease) ChecksumDigest() (string, error) {
	raw := strings.TrimSpace(r.Checksum)
	if raw == "" {
		return "", nil
	}

	algorithm, digest, found := strings.Cut(raw, ":")
	if !found {
		algorithm, digest = checksumAlgorithm, raw
	}
	if !strings.EqualFold(algorithm, checksumAlgorithm) {
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}

	digest = strings.ToLower(digest)
	decoded, err := hex.DecodeString(digest)
	if err != nil || len(decoded) != 32 { //nolint:mnd // sha256 digest size
		return "", fmt.Errorf("malformed sha256 digest %q", digest)
	}
	return digest, nil
}
