package entities

import "github.com/spf13/cobra"

// ControllerBind holds the Cobra metadata a controller exposes to the root command.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
	Args  cobra.PositionalArgs
}

// Controller is a single CLI subcommand.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string) error
}

// FlagController is implemented by controllers that declare their own flags.
type FlagController interface {
	AddFlags(cmd *cobra.Command)
}
