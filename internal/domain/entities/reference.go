package entities

import (
	"fmt"
	"regexp"
	"strings"
)

const latestAlias = "latest"

var agentNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*(/[a-z0-9][a-z0-9._-]*)?$`)

// AgentReference identifies an agent and, optionally, a specific version of it.
// An empty Version means "whatever the marketplace reports as latest".
type AgentReference struct {
	Name    string
	Version string
}

// ParseAgentReference parses "name" or "name@version".
func ParseAgentReference(raw string) (AgentReference, error) {
	raw = strings.TrimSpace(raw)
	name, version, _ := strings.Cut(raw, "@")

	name = strings.ToLower(name)
	if !ValidAgentName(name) {
		return AgentReference{}, fmt.Errorf("%w: %q is not a valid agent name", ErrInvalidReference, raw)
	}

	if strings.EqualFold(version, latestAlias) {
		version = ""
	}
	if version != "" && !ValidVersion(version) {
		return AgentReference{}, fmt.Errorf(
			"%w: %q is not a semantic version", ErrInvalidReference, version,
		)
	}

	return AgentReference{Name: name, Version: version}, nil
}

// ValidAgentName reports whether name is an acceptable marketplace agent name,
// either "agent" or "publisher/agent".
func ValidAgentName(name string) bool {
	return agentNamePattern.MatchString(name)
}

// IsLatest reports whether the reference asks for the latest release.
func (r AgentReference) IsLatest() bool {
	return r.Version == ""
}

func (r AgentReference) String() string {
	if r.IsLatest() {
		return r.Name
	}
	return r.Name + "@" + r.Version
}
