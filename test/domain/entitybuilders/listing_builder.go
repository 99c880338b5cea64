//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// ListingBuilder helps create test marketplace listings with a fluent interface.
type ListingBuilder struct {
	*testkit.BaseBuilder
	name          string
	description   string
	author        string
	latestVersion string
	versions      []string
	tags          []string
}

// NewListingBuilder creates a new listing builder with sensible defaults.
func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		name:          "test-agent",
		description:   "An agent used in tests",
		author:        "Vybe",
		latestVersion: "1.0.0",
		versions:      []string{"1.0.0"},
	}
}

// WithName sets the agent name.
func (b *ListingBuilder) WithName(name string) *ListingBuilder {
	b.name = name
	return b
}

// WithDescription sets the description.
func (b *ListingBuilder) WithDescription(description string) *ListingBuilder {
	b.description = description
	return b
}

// WithVersions sets the published versions; the last one becomes the latest.
func (b *ListingBuilder) WithVersions(versions ...string) *ListingBuilder {
	b.versions = versions
	if len(versions) > 0 {
		b.latestVersion = versions[len(versions)-1]
	}
	return b
}

// WithTags sets the tags.
func (b *ListingBuilder) WithTags(tags ...string) *ListingBuilder {
	b.tags = tags
	return b
}

// Build creates the listing (satisfies testkit.Builder interface).
func (b *ListingBuilder) Build() interface{} {
	return b.BuildListing()
}

// BuildListing creates the listing with a concrete return type.
func (b *ListingBuilder) BuildListing() entities.AgentListing {
	return entities.AgentListing{
		Name:          b.name,
		Description:   b.description,
		Author:        b.author,
		LatestVersion: b.latestVersion,
		Versions:      append([]string(nil), b.versions...),
		Tags:          append([]string(nil), b.tags...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ListingBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-agent"
	b.description = "An agent used in tests"
	b.author = "Vybe"
	b.latestVersion = "1.0.0"
	b.versions = []string{"1.0.0"}
	b.tags = nil
	return b
}

// Clone creates a deep copy of the ListingBuilder.
func (b *ListingBuilder) Clone() testkit.Builder {
	return &ListingBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:          b.name,
		description:   b.description,
		author:        b.author,
		latestVersion: b.latestVersion,
		versions:      append([]string(nil), b.versions...),
		tags:          append([]string(nil), b.tags...),
	}
}
