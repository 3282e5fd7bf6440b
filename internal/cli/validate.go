package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/castpilot-ai/castpilot/internal/source"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd() *cobra.Command {
	var (
		urls        string
		urlsFile    string
		readerProxy bool
	)

	cmd := &cobra.Command{
		Use:   "validate [urls...]",
		Short: "Classify source URLs without touching the browser",
		Long: `Check source URLs the way a run would: validate them, classify each as
a website or a video, and show the URL that would actually be
submitted. No browser is needed.

Examples:
  castpilot validate https://example.com/article https://youtu.be/xyz
  castpilot validate --urls-file sources.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			collected, err := CollectURLs(args, urls, urlsFile, os.Stdin)
			if err != nil {
				return err
			}

			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			invalid := 0
			for _, raw := range collected {
				item, err := source.Resolve(raw, source.Options{UseReaderProxy: readerProxy})
				if err != nil {
					fmt.Printf("%s %s: %v\n", red("✗"), raw, err)
					invalid++
					continue
				}
				fmt.Printf("%s %s [%s] -> %s\n", green("✓"), raw, item.Kind, item.URL)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d urls are invalid", invalid, len(collected))
			}
			fmt.Printf("All %d urls are valid\n", len(collected))
			return nil
		},
	}

	cmd.Flags().StringVar(&urls, "urls", "", "Comma-separated source URLs")
	cmd.Flags().StringVar(&urlsFile, "urls-file", "", "File with one source URL per line")
	cmd.Flags().BoolVar(&readerProxy, "reader-proxy", false, "Show website URLs as the reader proxy rewrite would submit them")

	return cmd
}
