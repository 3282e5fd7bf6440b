package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/notebook"
	"github.com/castpilot-ai/castpilot/internal/publish"
	"github.com/castpilot-ai/castpilot/internal/report"
)

// NewFetchCmd creates a new fetch command
func NewFetchCmd() *cobra.Command {
	var (
		host        string
		port        int
		notebookURL string
		outputDir   string
		requestOut  string
		timestamps  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the generated audio of an existing notebook",
		Long: `Open a notebook whose audio generation already finished, download the
episode audio, and read the notebook title and summary. With
--request-out the result is written as a ready-to-edit publish request.

Examples:
  castpilot fetch --notebook https://notebooklm.google.com/notebook/abc123
  castpilot fetch --notebook https://notebooklm.google.com/notebook/abc123 --request-out episode.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if notebookURL == "" {
				return fmt.Errorf("--notebook is required")
			}

			ctx := cmd.Context()
			session, err := browser.Attach(ctx, resolveDescriptor(ctx, host, port))
			if err != nil {
				return err
			}
			defer session.Close()

			wf := notebook.New(session, report.NewConsole(os.Stdout, timestamps), notebook.Config{})

			result, err := wf.Fetch(ctx, notebook.FetchRequest{
				NotebookURL: notebookURL,
				OutputDir:   outputDir,
			})
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s audio downloaded to %s\n", green("✓"), result.AudioPath)
			fmt.Printf("  title: %s\n", result.Title)

			if requestOut != "" {
				req := publish.Request{
					AudioPath:   result.AudioPath,
					Title:       result.Title,
					Description: result.Description,
				}
				data, err := yaml.Marshal(&req)
				if err != nil {
					return fmt.Errorf("failed to marshal publish request: %w", err)
				}
				if err := os.WriteFile(requestOut, data, 0o644); err != nil {
					return fmt.Errorf("failed to write publish request %s: %w", requestOut, err)
				}
				fmt.Printf("  publish request written to %s\n", requestOut)
			}
			return nil
		},
	}

	addEndpointFlags(cmd.Flags(), &host, &port)
	cmd.Flags().StringVar(&notebookURL, "notebook", "", "URL of the notebook to fetch")
	cmd.Flags().StringVar(&outputDir, "output", "", "Directory for the downloaded audio (default: temp dir)")
	cmd.Flags().StringVar(&requestOut, "request-out", "", "Write a publish request YAML to this path")
	cmd.Flags().BoolVarP(&timestamps, "timestamp", "t", false, "Show timestamps on progress output")

	return cmd
}
