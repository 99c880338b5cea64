package entities

import (
	"fmt"
	"go/version"
	"runtime/debug"
)

const (
	distributionName        = "trinity-market"
	distributionDescription = "CLI tool for installing agents from the Trinity marketplace"
	distributionAuthor      = "Vybe"
	minimumGoVersion        = "go1.26"
)

// Version is the release version of the binary. It is a variable so release builds can stamp it
// with -ldflags "-X".
var Version = "0.2.0" //nolint:gochecknoglobals // overridden at link time

// RuntimeDependency is a third-party module the binary cannot work without.
type RuntimeDependency struct {
	Role       string
	Module     string
	MinVersion string
	Resolved   string
}

// Distribution describes the installed trinity-market binary.
type Distribution struct {
	Name        string
	Version     string
	Description string
	Author      string
	MinRuntime  string
}

// NewDistribution returns the metadata of this build.
func NewDistribution() *Distribution {
	return &Distribution{
		Name:        distributionName,
		Version:     Version,
		Description: distributionDescription,
		Author:      distributionAuthor,
		MinRuntime:  minimumGoVersion,
	}
}

func (d *Distribution) String() string {
	return d.Name + " " + d.Version
}

// UserAgent is the User-Agent header sent to the marketplace.
func (d *Distribution) UserAgent() string {
	return d.Name + "/" + d.Version
}

// RuntimeDependencies returns the HTTP client and YAML libraries the binary is declared against,
// with the resolved version filled in when the binary carries build information.
func (d *Distribution) RuntimeDependencies() []RuntimeDependency {
	deps := []RuntimeDependency{
		{Role: "http client", Module: "github.com/hashicorp/go-retryablehttp", MinVersion: "v0.7.8"},
		{Role: "yaml", Module: "gopkg.in/yaml.v3", MinVersion: "v3.0.1"},
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return deps
	}
	for i := range deps {
		for _, mod := range info.Deps {
			if mod.Path == deps[i].Module {
				deps[i].Resolved = mod.Version
				if mod.Replace != nil {
					deps[i].Resolved = mod.Replace.Version
				}
			}
		}
	}
	return deps
}

// CheckRuntime fails when goVersion (as reported by runtime.Version) is older than the minimum.
// Development toolchains that do not report a release version are accepted.
func (d *Distribution) CheckRuntime(goVersion string) error {
	if !version.IsValid(goVersion) {
		return nil
	}
	if version.Compare(goVersion, d.MinRuntime) < 0 {
		return fmt.Errorf(
			"%w: %s requires %s or newer, running on %s",
			ErrIncompatibleRuntime, d.Name, d.MinRuntime, goVersion,
		)
	}
	return nil
}
