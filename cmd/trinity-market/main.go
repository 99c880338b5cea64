package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vybe/trinity-market/internal"
	"github.com/vybe/trinity-market/internal/domain/entities"
)

func buildRootCommand(distribution *entities.Distribution) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "trinity-market",
		Short: distribution.Description,
		Long: `Install, update and remove agents published on the Trinity marketplace.

Agents are installed into a local directory (default ~/.trinity/agents)
and tracked in a lockfile. Settings are read from trinity-market.yaml,
TRINITY_* environment variables and the flags below.`,
		Version:       distribution.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().String("marketplace", "",
		"Marketplace URL (overrides config and TRINITY_MARKET_URL)")
	cmd.PersistentFlags().String("token", "",
		"Marketplace token (overrides config and TRINITY_MARKET_TOKEN)")
	cmd.PersistentFlags().String("dir", "",
		"Install directory (overrides config and TRINITY_AGENTS_DIR)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  bind.Args,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		if fc, ok := ctrl.(entities.FlagController); ok {
			fc.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	distribution := entities.NewDistribution()
	if err := distribution.CheckRuntime(runtime.Version()); err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cobraRoot := buildRootCommand(distribution)
	addSubcommands(cobraRoot, buildApp())

	if err := cobraRoot.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatalf("Error executing 'trinity-market': %s", err)
	}
}
