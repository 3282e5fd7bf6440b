package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/castpilot-ai/castpilot/internal/browser"
	"github.com/castpilot-ai/castpilot/internal/notebook"
	"github.com/castpilot-ai/castpilot/internal/report"
)

type runFlags struct {
	host        string
	port        int
	urls        string
	urlsFile    string
	readerProxy bool
	stepTimeout time.Duration
	maxAttempts int
	timestamps  bool
}

// NewRunCmd creates a new run command
func NewRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [urls...]",
		Short: "Create a notebook from source URLs and trigger audio generation",
		Long: `Create a notebook in the already-signed-in browser, attach each source
URL in order, and trigger audio generation. Per-source failures are
reported but do not stop the run; Ctrl-C stops cleanly between sources.

Examples:
  castpilot run https://example.com/article
  castpilot run --urls-file sources.txt
  cat sources.txt | castpilot run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotebook(cmd.Context(), args, flags)
		},
	}

	addEndpointFlags(cmd.Flags(), &flags.host, &flags.port)
	cmd.Flags().StringVar(&flags.urls, "urls", "", "Comma-separated source URLs")
	cmd.Flags().StringVar(&flags.urlsFile, "urls-file", "", "File with one source URL per line")
	cmd.Flags().BoolVar(&flags.readerProxy, "reader-proxy", false, "Rewrite website URLs through the content-extraction reader proxy")
	cmd.Flags().DurationVar(&flags.stepTimeout, "step-timeout", 0, "Per-attempt timeout for each browser step")
	cmd.Flags().IntVar(&flags.maxAttempts, "max-attempts", 0, "Retry budget for each browser step")
	cmd.Flags().BoolVarP(&flags.timestamps, "timestamp", "t", false, "Show timestamps on progress output")

	return cmd
}

func runNotebook(parent context.Context, args []string, flags runFlags) error {
	urls, err := CollectURLs(args, flags.urls, flags.urlsFile, os.Stdin)
	if err != nil {
		return err
	}

	// Interrupt cancels between sources; the in-flight step finishes.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	session, err := browser.Attach(ctx, resolveDescriptor(ctx, flags.host, flags.port))
	if err != nil {
		return err
	}
	defer session.Close()

	wf := notebook.New(session, report.NewConsole(os.Stdout, flags.timestamps), notebook.Config{
		UseReaderProxy: flags.readerProxy,
		StepTimeout:    flags.stepTimeout,
		MaxAttempts:    flags.maxAttempts,
	})

	result, err := wf.Run(ctx, urls)
	if err != nil {
		return err
	}

	printRunSummary(result)

	switch result.Status() {
	case notebook.StatusAllFailed:
		if result.Err != nil {
			return fmt.Errorf("run %s failed: %w", result.RunID, result.Err)
		}
		return fmt.Errorf("run %s failed: no sources attached", result.RunID)
	case notebook.StatusPartial:
		if result.Err != nil {
			return fmt.Errorf("run %s ended with a container failure: %w", result.RunID, result.Err)
		}
	}
	return nil
}

func printRunSummary(result *notebook.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("\nRun %s finished in %s\n", result.RunID, result.Elapsed.Round(time.Millisecond))
	for _, item := range result.Items {
		if item.Attached {
			fmt.Printf("  %s %s\n", green("✓"), item.Raw)
		} else {
			fmt.Printf("  %s %s: %v\n", red("✗"), item.Raw, item.Err)
		}
	}
	if result.Canceled {
		fmt.Printf("  %s interrupted, remaining sources skipped\n", yellow("!"))
	}

	attached := result.Attached()
	switch result.Status() {
	case notebook.StatusAllSucceeded:
		fmt.Printf("%s all %d sources attached, audio generation triggered\n", green("✓"), attached)
	case notebook.StatusPartial:
		fmt.Printf("%s %d/%d sources attached\n", yellow("!"), attached, len(result.Items))
	case notebook.StatusAllFailed:
		fmt.Printf("%s no sources attached\n", red("✗"))
	}
}
