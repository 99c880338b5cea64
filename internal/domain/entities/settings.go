package entities

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMarketplaceURL = "https://marketplace.trinity.dev"
	DefaultTimeout        = 30 * time.Second
	DefaultRetries        = 3
	defaultInstallDir     = "~/.trinity/agents"

	envMarketplaceURL   = "TRINITY_MARKET_URL"
	envMarketplaceToken = "TRINITY_MARKET_TOKEN"
	envInstallDir       = "TRINITY_AGENTS_DIR"
)

// Settings is the top-level configuration for trinity-market.
type Settings struct {
	Marketplace MarketplaceSettings `yaml:"marketplace"`
	Install     InstallSettings     `yaml:"install"`
	Git         GitSettings         `yaml:"git"`
}

// MarketplaceSettings describes how to reach the Trinity marketplace.
type MarketplaceSettings struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Timeout time.Duration `yaml:"timeout"`
	Retries *int          `yaml:"retries"`
}

// InstallSettings controls where agents land on disk.
type InstallSettings struct {
	Dir string `yaml:"dir"`
}

// GitSettings holds credentials for agents distributed through Git repositories.
type GitSettings struct {
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// SettingsOverrides are values given on the command line; empty fields are ignored.
type SettingsOverrides struct {
	MarketplaceURL string
	Token          string
	InstallDir     string
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewDefaultSettings returns the settings used when no config file exists.
func NewDefaultSettings() *Settings {
	retries := DefaultRetries
	return &Settings{
		Marketplace: MarketplaceSettings{
			URL:     DefaultMarketplaceURL,
			Timeout: DefaultTimeout,
			Retries: &retries,
		},
		Install: InstallSettings{Dir: defaultInstallDir},
	}
}

// NewSettings builds the effective settings: defaults, then the config file at path (if any),
// then environment variables, then overrides. Tokens are resolved and the result validated.
func NewSettings(path string, overrides SettingsOverrides) (*Settings, error) {
	settings := NewDefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	settings.applyEnvironment()
	settings.applyOverrides(overrides)

	settings.Marketplace.Token = ResolveToken(settings.Marketplace.Token)
	settings.Git.Token = ResolveToken(settings.Git.Token)
	settings.Install.Dir = expandHome(settings.Install.Dir)

	if validateErr := ValidateSettings(settings); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// RetryCount returns the configured retry budget, falling back to the default.
func (s *Settings) RetryCount() int {
	if s.Marketplace.Retries == nil {
		return DefaultRetries
	}
	return *s.Marketplace.Retries
}

func (s *Settings) applyEnvironment() {
	if value := os.Getenv(envMarketplaceURL); value != "" {
		s.Marketplace.URL = value
	}
	if value := os.Getenv(envMarketplaceToken); value != "" {
		s.Marketplace.Token = value
	}
	if value := os.Getenv(envInstallDir); value != "" {
		s.Install.Dir = value
	}
}

func (s *Settings) applyOverrides(overrides SettingsOverrides) {
	if overrides.MarketplaceURL != "" {
		s.Marketplace.URL = overrides.MarketplaceURL
	}
	if overrides.Token != "" {
		s.Marketplace.Token = overrides.Token
	}
	if overrides.InstallDir != "" {
		s.Install.Dir = overrides.InstallDir
	}
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, ".config", distributionName),
		)
	}

	patterns := []string{
		".trinity-market.yaml",
		".trinity-market.yml",
		"trinity-market.yaml",
		"trinity-market.yml",
		"config.yaml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			// a bare config.yaml is only ours inside the dedicated directory
			if pat == "config.yaml" && filepath.Base(loc) != distributionName {
				continue
			}
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
	if resolved == "" {
		return resolved
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// ValidateSettings checks for required configuration values.
func ValidateSettings(settings *Settings) error {
	parsed, err := url.Parse(settings.Marketplace.URL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf(
			"%w: marketplace.url %q must be an absolute http(s) URL",
			ErrInvalidSettings, settings.Marketplace.URL,
		)
	}
	if settings.Marketplace.Timeout <= 0 {
		return fmt.Errorf("%w: marketplace.timeout must be positive", ErrInvalidSettings)
	}
	if settings.RetryCount() < 0 {
		return fmt.Errorf("%w: marketplace.retries cannot be negative", ErrInvalidSettings)
	}
	if strings.TrimSpace(settings.Install.Dir) == "" {
		return fmt.Errorf("%w: install.dir is required", ErrInvalidSettings)
	}
	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Warnf("Cannot expand %q: %v", path, err)
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
