//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybe/trinity-market/internal/domain/commands"
	"github.com/vybe/trinity-market/internal/domain/entities"
	"github.com/vybe/trinity-market/internal/infrastructure/controllers"
	"github.com/vybe/trinity-market/test/domain/commanddoubles"
	"github.com/vybe/trinity-market/test/domain/entitybuilders"
)

// execute runs controller as a standalone cobra command with the global flags it reads.
func execute(t *testing.T, controller entities.Controller, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TRINITY_MARKET_URL", "")
	t.Setenv("TRINITY_MARKET_TOKEN", "")
	t.Setenv("TRINITY_AGENTS_DIR", "")

	bind := controller.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:  bind.Use,
		Args: bind.Args,
		RunE: controller.Execute,
	}
	cmd.Flags().String("dir", "", "")
	cmd.Flags().String("marketplace", "", "")
	if fc, ok := controller.(entities.FlagController); ok {
		fc.AddFlags(cmd)
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestInstallController(t *testing.T) { //nolint:paralleltest // mutates environment
	t.Run("should pass references, flags and overrides to the command", func(t *testing.T) {
		// given
		dir := t.TempDir()
		release := entitybuilders.NewReleaseBuilder().WithName("summarizer").WithVersion("1.2.0").BuildRelease()
		stub := &commanddoubles.StubInstallCommand{ExecuteResults: []commands.InstallResult{
			{Release: release, Status: commands.StatusInstalled},
		}}
		controller := controllers.NewInstallController(stub)

		// when
		out, err := execute(t, controller,
			"summarizer", "translator@1.0.0", "--force", "--dry-run",
			"--dir", dir, "--marketplace", "http://localhost:8080",
		)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.Equal(t, []string{"summarizer", "translator@1.0.0"}, stub.LastOpts.References)
		assert.True(t, stub.LastOpts.Force)
		assert.True(t, stub.LastOpts.DryRun)
		assert.Equal(t, dir, stub.LastSettings.Install.Dir)
		assert.Equal(t, "http://localhost:8080", stub.LastSettings.Marketplace.URL)
		assert.Contains(t, out, "installed summarizer@1.2.0")
	})

	t.Run("should require at least one agent", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubInstallCommand{}

		// when
		_, err := execute(t, controllers.NewInstallController(stub))

		// then
		require.Error(t, err)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should reject invalid settings before running the command", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubInstallCommand{}

		// when
		_, err := execute(t, controllers.NewInstallController(stub), "summarizer", "--marketplace", "ftp://nope")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidSettings)
		assert.Zero(t, stub.ExecuteCallCount)
	})

	t.Run("should print partial results and return the error", func(t *testing.T) {
		// given
		release := entitybuilders.NewReleaseBuilder().WithName("summarizer").BuildRelease()
		stub := &commanddoubles.StubInstallCommand{
			ExecuteResults: []commands.InstallResult{{Release: release, Status: commands.StatusSkipped}},
			ExecuteErr:     errors.New("install missing: agent not found"),
		}

		// when
		out, err := execute(t, controllers.NewInstallController(stub), "summarizer", "missing")

		// then
		require.EqualError(t, err, "install missing: agent not found")
		assert.Contains(t, out, "summarizer@1.0.0 already installed")
	})
}

func TestUpdateController(t *testing.T) { //nolint:paralleltest // mutates environment
	// given
	stub := &commanddoubles.StubUpdateCommand{ExecuteResults: []commands.UpdateResult{
		{Name: "summarizer", FromVersion: "1.0.0", ToVersion: "1.1.0", Status: commands.StatusPlanned},
		{Name: "translator", FromVersion: "2.0.0", ToVersion: "2.0.0", Status: commands.StatusSkipped},
	}}

	// when
	out, err := execute(t, controllers.NewUpdateController(stub), "summarizer", "translator", "--dry-run")

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"summarizer", "translator"}, stub.LastOpts.Names)
	assert.True(t, stub.LastOpts.DryRun)
	assert.Contains(t, out, "would update summarizer 1.0.0 -> 1.1.0")
	assert.Contains(t, out, "translator 2.0.0 is up to date")
}

func TestSearchController(t *testing.T) { //nolint:paralleltest // mutates environment
	t.Run("should join the arguments into one query and print a table", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubSearchCommand{ExecuteListings: []entities.AgentListing{
			entitybuilders.NewListingBuilder().WithName("summarizer").WithDescription("Summarizes text").BuildListing(),
		}}

		// when
		out, err := execute(t, controllers.NewSearchController(stub), "text", "tools")

		// then
		require.NoError(t, err)
		assert.Equal(t, "text tools", stub.LastQuery)
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "Summarizes text")
	})

	t.Run("should say so when nothing matches", func(t *testing.T) {
		// given
		stub := &commanddoubles.StubSearchCommand{}

		// when
		out, err := execute(t, controllers.NewSearchController(stub))

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "No agents found.")
	})
}
