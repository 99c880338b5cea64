package commands

import (
	"github.com/vybe/trinity-market/internal/domain/entities"
)

// Version is the interface for the version command.
type Version interface {
	Execute(goVersion string) VersionResult
}

// VersionResult describes the running binary.
type VersionResult struct {
	Distribution entities.Distribution
	Dependencies []entities.RuntimeDependency
	GoVersion    string
	RuntimeErr   error
}

// VersionCommand reports the distribution metadata.
type VersionCommand struct {
	distribution *entities.Distribution
}

// NewVersionCommand creates a new VersionCommand.
func NewVersionCommand(distribution *entities.Distribution) *VersionCommand {
	return &VersionCommand{distribution: distribution}
}

// Execute returns the metadata of this build checked against goVersion.
func (it *VersionCommand) Execute(goVersion string) VersionResult {
	return VersionResult{
		Distribution: *it.distribution,
		Dependencies: it.distribution.RuntimeDependencies(),
		GoVersion:    goVersion,
		RuntimeErr:   it.distribution.CheckRuntime(goVersion),
	}
}
