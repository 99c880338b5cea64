//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

func TestDistribution(t *testing.T) {
	t.Parallel()

	t.Run("should describe trinity-market 0.2.0", func(t *testing.T) {
		t.Parallel()

		// when
		dist := entities.NewDistribution()

		// then
		assert.Equal(t, "trinity-market", dist.Name)
		assert.Equal(t, "0.2.0", dist.Version)
		assert.Equal(t, "CLI tool for installing agents from the Trinity marketplace", dist.Description)
		assert.Equal(t, "Vybe", dist.Author)
		assert.Equal(t, "trinity-market 0.2.0", dist.String())
		assert.Equal(t, "trinity-market/0.2.0", dist.UserAgent())
	})

	t.Run("should declare exactly an HTTP client and a YAML library", func(t *testing.T) {
		t.Parallel()

		// when
		deps := entities.NewDistribution().RuntimeDependencies()

		// then
		require.Len(t, deps, 2)
		assert.Equal(t, "http client", deps[0].Role)
		assert.Equal(t, "github.com/hashicorp/go-retryablehttp", deps[0].Module)
		assert.Equal(t, "v0.7.8", deps[0].MinVersion)
		assert.Equal(t, "yaml", deps[1].Role)
		assert.Equal(t, "gopkg.in/yaml.v3", deps[1].Module)
		assert.Equal(t, "v3.0.1", deps[1].MinVersion)
	})

	t.Run("should reject a runtime older than the minimum", func(t *testing.T) {
		t.Parallel()

		// when
		err := entities.NewDistribution().CheckRuntime("go1.21.5")

		// then
		require.ErrorIs(t, err, entities.ErrIncompatibleRuntime)
		assert.Contains(t, err.Error(), "go1.26")
	})

	t.Run("should accept the minimum runtime and newer ones", func(t *testing.T) {
		t.Parallel()

		dist := entities.NewDistribution()
		assert.NoError(t, dist.CheckRuntime("go1.26"))
		assert.NoError(t, dist.CheckRuntime("go1.26.1"))
		assert.NoError(t, dist.CheckRuntime("go1.30.0"))
	})

	t.Run("should accept development toolchains", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, entities.NewDistribution().CheckRuntime("devel go1.27-abcdef"))
	})
}
