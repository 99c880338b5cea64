package entities

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the agent manifest expected at the root of every agent package.
const ManifestFileName = "agent.yaml"

// AgentManifest is the descriptor shipped inside an agent package.
type AgentManifest struct {
	Name        string        `yaml:"name"`
	Version     string        `yaml:"version"`
	Description string        `yaml:"description"`
	Entrypoint  string        `yaml:"entrypoint"`
	Runtime     string        `yaml:"runtime"`
	Env         []AgentEnvVar `yaml:"env"`
}

// AgentEnvVar documents an environment variable the agent reads at runtime.
type AgentEnvVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// LoadManifest reads and decodes the agent manifest found in dir.
func LoadManifest(dir string) (*AgentManifest, error) {
	manifestPath := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s is missing", ErrInvalidManifest, ManifestFileName)
		}
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var manifest AgentManifest
	if unmarshalErr := yaml.Unmarshal(data, &manifest); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, unmarshalErr)
	}
	return &manifest, nil
}

// Validate checks the manifest against the agent the marketplace claims to have delivered.
// An empty expectedVersion skips the version check.
func (m *AgentManifest) Validate(expectedName, expectedVersion string) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	if !strings.EqualFold(m.Name, expectedName) {
		return fmt.Errorf(
			"%w: manifest declares %q but %q was requested", ErrInvalidManifest, m.Name, expectedName,
		)
	}
	if expectedVersion != "" && m.Version != "" && !SameVersion(m.Version, expectedVersion) {
		return fmt.Errorf(
			"%w: manifest declares version %q but %q was released",
			ErrInvalidManifest, m.Version, expectedVersion,
		)
	}
	if m.Entrypoint == "" {
		return fmt.Errorf("%w: entrypoint is required", ErrInvalidManifest)
	}

	entry := filepath.ToSlash(m.Entrypoint)
	if path.IsAbs(entry) || filepath.IsAbs(m.Entrypoint) {
		return fmt.Errorf("%w: entrypoint %q must be relative", ErrInvalidManifest, m.Entrypoint)
	}
	if cleaned := path.Clean(entry); cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%w: entrypoint %q escapes the agent directory", ErrInvalidManifest, m.Entrypoint)
	}

	for i, env := range m.Env {
		if env.Name == "" {
			return fmt.Errorf("%w: env[%d].name is required", ErrInvalidManifest, i)
		}
	}
	return nil
}

// RequiredEnv returns the names of environment variables the agent cannot run without.
func (m *AgentManifest) RequiredEnv() []string {
	var names []string
	for _, env := range m.Env {
		if env.Required {
			names = append(names, env.Name)
		}
	}
	return names
}
