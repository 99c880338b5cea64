package repositories

import (
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// InstallationRepository manages the local install directory and its lockfile.
type InstallationRepository interface {
	// Root returns the directory agents are installed under.
	Root() string

	// List returns every installed agent, sorted by name.
	List() ([]entities.InstalledAgent, error)

	// Get returns the installed agent called name, or entities.ErrNotInstalled.
	Get(name string) (*entities.InstalledAgent, error)

	// Stage creates a fresh, empty staging directory for a new installation.
	Stage() (string, error)

	// Commit moves stageDir into place as the agent's directory, replacing any previous
	// installation, and records the agent in the lockfile. Path and InstalledAt are filled in.
	Commit(stageDir string, agent entities.InstalledAgent) (*entities.InstalledAgent, error)

	// Discard removes a staging directory that will not be committed.
	Discard(stageDir string)

	// Remove deletes the agent's directory and lockfile entry.
	Remove(name string) error
}
