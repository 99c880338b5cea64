package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal/domain/entities"
)

// loadSettings resolves the config file and applies the global flag overrides.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	marketplaceURL, _ := cmd.Flags().GetString("marketplace")
	token, _ := cmd.Flags().GetString("token")
	installDir, _ := cmd.Flags().GetString("dir")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	cfgPath := configPath
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		} else {
			cfgPath = found
		}
	}
	if cfgPath != "" {
		logger.Debugf("Using config file: %s", cfgPath)
	}

	return entities.NewSettings(cfgPath, entities.SettingsOverrides{
		MarketplaceURL: marketplaceURL,
		Token:          token,
		InstallDir:     installDir,
	})
}

// commandContext returns the command's context, falling back to a background context when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
