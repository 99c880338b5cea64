//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

func TestParseAgentReference(t *testing.T) {
	t.Parallel()

	t.Run("should parse a bare name as the latest release", func(t *testing.T) {
		t.Parallel()

		// when
		ref, err := entities.ParseAgentReference("summarizer")

		// then
		require.NoError(t, err)
		assert.Equal(t, "summarizer", ref.Name)
		assert.True(t, ref.IsLatest())
		assert.Equal(t, "summarizer", ref.String())
	})

	t.Run("should parse name and version", func(t *testing.T) {
		t.Parallel()

		// when
		ref, err := entities.ParseAgentReference("summarizer@1.2.3")

		// then
		require.NoError(t, err)
		assert.Equal(t, "summarizer", ref.Name)
		assert.Equal(t, "1.2.3", ref.Version)
		assert.Equal(t, "summarizer@1.2.3", ref.String())
	})

	t.Run("should accept publisher-scoped names and v-prefixed versions", func(t *testing.T) {
		t.Parallel()

		// when
		ref, err := entities.ParseAgentReference("vybe/code-reviewer@v2.0.0-beta.1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "vybe/code-reviewer", ref.Name)
		assert.Equal(t, "v2.0.0-beta.1", ref.Version)
	})

	t.Run("should treat @latest as the latest release", func(t *testing.T) {
		t.Parallel()

		// when
		ref, err := entities.ParseAgentReference("summarizer@latest")

		// then
		require.NoError(t, err)
		assert.True(t, ref.IsLatest())
	})

	t.Run("should lowercase the name", func(t *testing.T) {
		t.Parallel()

		// when
		ref, err := entities.ParseAgentReference("  Summarizer ")

		// then
		require.NoError(t, err)
		assert.Equal(t, "summarizer", ref.Name)
	})

	invalid := []string{
		"",
		"@1.0.0",
		"../escape",
		"a/b/c",
		"-leading-dash",
		"name with space",
		"summarizer@not-a-version",
	}
	for _, raw := range invalid {
		t.Run("should reject "+raw, func(t *testing.T) {
			t.Parallel()

			// when
			_, err := entities.ParseAgentReference(raw)

			// then
			require.ErrorIs(t, err, entities.ErrInvalidReference)
		})
	}
}
