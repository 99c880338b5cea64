//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

func TestAgentRelease(t *testing.T) {
	t.Parallel()

	digest := strings.Repeat("ab", 32)

	t.Run("should default the source to archive", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, entities.SourceArchive, entities.AgentRelease{}.SourceType())
		assert.Equal(t, entities.SourceGit, entities.AgentRelease{Source: "GIT"}.SourceType())
	})

	t.Run("should accept prefixed and bare sha256 checksums", func(t *testing.T) {
		t.Parallel()

		for _, checksum := range []string{"sha256:" + digest, "SHA256:" + strings.ToUpper(digest), digest} {
			// when
			got, err := entities.AgentRelease{Checksum: checksum}.ChecksumDigest()

			// then
			require.NoError(t, err)
			assert.Equal(t, digest, got)
		}
	})

	t.Run("should return an empty digest when no checksum is published", func(t *testing.T) {
		t.Parallel()

		// when
		got, err := entities.AgentRelease{}.ChecksumDigest()

		// then
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("should reject other algorithms and malformed digests", func(t *testing.T) {
		t.Parallel()

		for _, checksum := range []string{"md5:" + digest, "sha256:xyz", "sha256:" + digest[:10]} {
			_, err := entities.AgentRelease{Checksum: checksum}.ChecksumDigest()
			assert.Error(t, err, checksum)
		}
	})
}
