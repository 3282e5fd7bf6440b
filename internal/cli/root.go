package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "castpilot",
		Short: "Castpilot CLI",
		Long:  `Castpilot drives a locally running browser to turn source URLs into published podcast episodes.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Check if debug flag is set
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				_ = os.Setenv("CASTPILOT_LOG", "DEBUG")
			}

			// Initialize logging after potentially setting the debug env var
			InitLogging()
		},
	}

	// Add persistent flags
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(
		NewRunCmd(),
		NewFetchCmd(),
		NewPublishCmd(),
		NewValidateCmd(),
		NewSessionCmd(),
		NewVersionCmd(),
	)

	return cmd
}
