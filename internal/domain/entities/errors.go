package entities

import "errors"

var (
	// ErrAgentNotFound is returned when the marketplace has no agent with the requested name.
	ErrAgentNotFound = errors.New("agent not found in marketplace")
	// ErrReleaseNotFound is returned when the requested agent version was never published.
	ErrReleaseNotFound = errors.New("agent release not found in marketplace")
	// ErrNotInstalled is returned when an operation targets an agent that is not installed locally.
	ErrNotInstalled        = errors.New("agent is not installed")
	ErrChecksumMismatch    = errors.New("checksum mismatch")
	ErrInvalidManifest     = errors.New("invalid agent manifest")
	ErrUnsupportedSource   = errors.New("unsupported release source")
	ErrInvalidReference    = errors.New("invalid agent reference")
	ErrUnsafePath          = errors.New("unsafe path in agent package")
	ErrIncompatibleRuntime = errors.New("incompatible runtime")
	ErrInvalidSettings     = errors.New("invalid settings")
	// ErrAgentConflict is returned when an agent's directory would contain, or sit inside,
	// another installed agent's directory ("acme" and "acme/summarizer").
	ErrAgentConflict = errors.New("agent name overlaps an installed agent")
)
