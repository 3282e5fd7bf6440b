package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/publish"
	"github.com/castpilot-ai/castpilot/internal/report"
)

type publishFlags struct {
	host        string
	port        int
	requestFile string
	audio       string
	title       string
	description string
	cover       string
	category    string
	stepTimeout time.Duration
	timestamps  bool
}

// NewPublishCmd creates a new publish command
func NewPublishCmd() *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an audio episode through the podcast dashboard",
		Long: `Upload an audio file through the podcast dashboard's episode wizard,
fill in the episode metadata, and submit it. The run is all-or-nothing:
any failed step leaves nothing published.

Examples:
  castpilot publish --request episode.yaml
  castpilot publish --audio episode.mp3 --title "Ep 12" --description "Show notes"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, flags)
		},
	}

	addEndpointFlags(cmd.Flags(), &flags.host, &flags.port)
	cmd.Flags().StringVar(&flags.requestFile, "request", "", "Publish request YAML file")
	cmd.Flags().StringVar(&flags.audio, "audio", "", "Path to the episode audio file")
	cmd.Flags().StringVar(&flags.title, "title", "", "Episode title")
	cmd.Flags().StringVar(&flags.description, "description", "", "Episode description")
	cmd.Flags().StringVar(&flags.cover, "cover", "", "Optional episode cover image")
	cmd.Flags().StringVar(&flags.category, "category", "", "Optional episode category")
	cmd.Flags().DurationVar(&flags.stepTimeout, "step-timeout", 0, "Per-attempt timeout for each browser step")
	cmd.Flags().BoolVarP(&flags.timestamps, "timestamp", "t", false, "Show timestamps on progress output")

	return cmd
}

func runPublish(cmd *cobra.Command, flags publishFlags) error {
	req, err := buildPublishRequest(flags)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	session, err := browser.Attach(ctx, resolveDescriptor(ctx, flags.host, flags.port))
	if err != nil {
		return err
	}
	defer session.Close()

	wf := publish.New(session, report.NewConsole(os.Stdout, flags.timestamps), publish.Config{
		StepTimeout: flags.stepTimeout,
	})

	result, err := wf.Run(ctx, *req)
	if err != nil {
		return err
	}

	if !result.Submitted {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("%s episode not published\n", red("✗"))
		return result.Err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s episode %q submitted in %s\n", green("✓"), req.Title, result.Elapsed.Round(time.Millisecond))
	return nil
}

// buildPublishRequest merges the request file with individual flags;
// flags win so a saved request can be tweaked per invocation.
func buildPublishRequest(flags publishFlags) (*publish.Request, error) {
	req := &publish.Request{}

	if flags.requestFile != "" {
		loaded, err := publish.LoadRequest(flags.requestFile)
		if err != nil {
			return nil, err
		}
		req = loaded
	}

	if flags.audio != "" {
		req.AudioPath = flags.audio
	}
	if flags.title != "" {
		req.Title = flags.title
	}
	if flags.description != "" {
		req.Description = flags.description
	}
	if flags.cover != "" {
		req.CoverPath = flags.cover
	}
	if flags.category != "" {
		req.Category = flags.category
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
