package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/browser/sessionfile"
)

// NewSessionCmd creates a new session command
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the saved browser session endpoint",
		Long: `Save, inspect, or clear the remote debugging endpoint that run, fetch
and publish fall back to when no --port is given.`,
	}

	cmd.AddCommand(
		newSessionSaveCmd(),
		newSessionShowCmd(),
		newSessionClearCmd(),
	)

	return cmd
}

func newSessionSaveCmd() *cobra.Command {
	var (
		host    string
		port    int
		noCheck bool
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the browser endpoint for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			desc := browser.Descriptor{Host: host, Port: port}

			if !noCheck {
				// Prove the endpoint is alive before persisting it.
				session, err := browser.Attach(ctx, desc)
				if err != nil {
					return err
				}
				session.Close()
			}

			resolved := desc
			if resolved.Host == "" {
				resolved.Host = browser.DefaultHost
			}
			if resolved.Port == 0 {
				resolved.Port = browser.DefaultPort
			}
			if err := sessionfile.Write(ctx, resolved.Host, resolved.Port); err != nil {
				return err
			}

			fmt.Printf("Session endpoint %s:%d saved\n", resolved.Host, resolved.Port)
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", browser.DefaultHost, "Remote debugging host of the running browser")
	cmd.Flags().IntVar(&port, "port", browser.DefaultPort, "Remote debugging port")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "Save without probing the endpoint")

	return cmd
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved browser endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, port, err := sessionfile.Read(cmd.Context())
			if err != nil {
				return fmt.Errorf("no saved session: %w", err)
			}

			dir, dirErr := sessionfile.BaseDir()
			fmt.Printf("Session endpoint %s:%d\n", host, port)
			if dirErr == nil {
				fmt.Printf("Stored in %s\n", sessionfile.Path(dir))
			}
			return nil
		},
	}
}

func newSessionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the saved browser endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessionfile.Remove(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Session cleared")
			return nil
		},
	}
}
