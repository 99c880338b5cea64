package entities

import (
	"sort"
	"time"
)

// LockfileVersion is the schema version written to new lockfiles.
const LockfileVersion = 1

// InstalledAgent is an agent present in the local install directory.
type InstalledAgent struct {
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version"`
	Source      string    `yaml:"source"`
	Path        string    `yaml:"path"`
	Checksum    string    `yaml:"checksum,omitempty"`
	Commit      string    `yaml:"commit,omitempty"`
	InstalledAt time.Time `yaml:"installed_at"`
}

// Lockfile records every installed agent.
type Lockfile struct {
	Version int                       `yaml:"version"`
	Agents  map[string]InstalledAgent `yaml:"agents"`
}

// NewLockfile returns an empty lockfile at the current schema version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version: LockfileVersion,
		Agents:  make(map[string]InstalledAgent),
	}
}

// Sorted returns the installed agents ordered by name.
func (l *Lockfile) Sorted() []InstalledAgent {
	agents := make([]InstalledAgent, 0, len(l.Agents))
	for _, agent := range l.Agents {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Name < agents[j].Name
	})
	return agents
}

// FetchResult is what a fetcher reports after materializing a release on disk.
type FetchResult struct {
	Checksum string
	Commit   string
}
