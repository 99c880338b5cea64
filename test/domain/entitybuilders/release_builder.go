//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// ReleaseBuilder helps create test agent releases with a fluent interface.
type ReleaseBuilder struct {
	*testkit.BaseBuilder
	name        string
	version     string
	source      string
	archiveURL  string
	checksum    string
	repository  string
	ref         string
	commit      string
	publishedAt time.Time
}

// NewReleaseBuilder creates a new release builder with sensible defaults.
func NewReleaseBuilder() *ReleaseBuilder {
	return &ReleaseBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-agent",
		version:     "1.0.0",
		source:      entities.SourceArchive,
		archiveURL:  "/downloads/test-agent-1.0.0.tar.gz",
		publishedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithName sets the agent name.
func (b *ReleaseBuilder) WithName(name string) *ReleaseBuilder {
	b.name = name
	return b
}

// WithVersion sets the release version.
func (b *ReleaseBuilder) WithVersion(version string) *ReleaseBuilder {
	b.version = version
	return b
}

// WithArchive marks the release as an archive served from url.
func (b *ReleaseBuilder) WithArchive(url string) *ReleaseBuilder {
	b.source = entities.SourceArchive
	b.archiveURL = url
	return b
}

// WithChecksum sets the published checksum.
func (b *ReleaseBuilder) WithChecksum(checksum string) *ReleaseBuilder {
	b.checksum = checksum
	return b
}

// WithGit marks the release as a Git ref of repository.
func (b *ReleaseBuilder) WithGit(repository, ref string) *ReleaseBuilder {
	b.source = entities.SourceGit
	b.archiveURL = ""
	b.repository = repository
	b.ref = ref
	return b
}

// WithCommit pins the expected commit.
func (b *ReleaseBuilder) WithCommit(commit string) *ReleaseBuilder {
	b.commit = commit
	return b
}

// WithSource overrides the source type.
func (b *ReleaseBuilder) WithSource(source string) *ReleaseBuilder {
	b.source = source
	return b
}

// Build creates the release (satisfies testkit.Builder interface).
func (b *ReleaseBuilder) Build() interface{} {
	return b.BuildRelease()
}

// BuildRelease creates the release with a concrete return type.
func (b *ReleaseBuilder) BuildRelease() entities.AgentRelease {
	return entities.AgentRelease{
		Name:        b.name,
		Version:     b.version,
		Source:      b.source,
		ArchiveURL:  b.archiveURL,
		Checksum:    b.checksum,
		Repository:  b.repository,
		Ref:         b.ref,
		Commit:      b.commit,
		PublishedAt: b.publishedAt,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	fresh := NewReleaseBuilder()
	fresh.BaseBuilder = b.BaseBuilder
	*b = *fresh
	return b
}

// Clone creates a deep copy of the ReleaseBuilder.
func (b *ReleaseBuilder) Clone() testkit.Builder {
	clone := *b
	clone.BaseBuilder = b.BaseBuilder.Clone().(*testkit.BaseBuilder)
	return &clone
}
