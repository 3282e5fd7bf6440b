package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// DefaultVersion is overridden at release time via -ldflags.
var DefaultVersion = "v0.1.0"

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Castpilot",
		Run: func(cmd *cobra.Command, args []string) {
			version := os.Getenv("CASTPILOT_VERSION")
			if version == "" {
				version = DefaultVersion
			}
			fmt.Printf("Castpilot CLI %s\n", version)
		},
	}

	return cmd
}
