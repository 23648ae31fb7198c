package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/recap-cli/recap/internal/ai"
	"github.com/recap-cli/recap/internal/config"
	"github.com/recap-cli/recap/internal/daterange"
	"github.com/recap-cli/recap/internal/logging"
	"github.com/recap-cli/recap/internal/notion"
	"github.com/recap-cli/recap/internal/report"
)

// syncCmd builds the recurring team-sync update, by default for the
// current Monday-to-Sunday week.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Generate a team sync update for the current week",
	Long: `Fetch completed Linear tickets plus merged and open GitHub PRs for the
current Monday-to-Sunday week and render a short sync update.

The update is written as a markdown file (or printed to stdout with
--no-file). With --notion it is also appended to the configured Notion page
as a collapsible toggle under the current year's section. When
ANTHROPIC_API_KEY is set, an AI summary is included; a failed summary only
drops that section.

Examples:
  recap sync
  recap sync --days 14 --no-ai
  recap sync --notion --no-file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := cmd.Flags().GetInt("days")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		noFile, err := cmd.Flags().GetBool("no-file")
		if err != nil {
			return err
		}
		noAI, err := cmd.Flags().GetBool("no-ai")
		if err != nil {
			return err
		}
		toNotion, err := cmd.Flags().GetBool("notion")
		if err != nil {
			return err
		}

		rng := resolveSyncRange(time.Now(), days)

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if toNotion {
			if err := config.ValidateNotionConfig(cfg); err != nil {
				return err
			}
		}

		fmt.Printf("\n📅 Period: %s\n\n", rng.Label())

		ctx := context.Background()
		tickets, prs, openPRs, err := fetchAll(ctx, cfg, rng, fetchOptions{
			Tickets:   true,
			MergedPRs: true,
			OpenPRs:   true,
		})
		if err != nil {
			return err
		}

		data := report.Build(tickets, prs, openPRs, rng.Label())

		// The narrative is opt-out and best-effort: no key means no
		// section, and a failed generation only loses the section.
		if !noAI && cfg.Anthropic.APIKey != "" {
			narrative, err := ai.NewClient(cfg.Anthropic.APIKey).SummarizeReport(ctx, data)
			if err != nil {
				logging.Warn("ai summary failed, continuing without it", "error", err)
			} else {
				data.Narrative = narrative
			}
		}

		md := report.RenderSync(data)

		if noFile {
			fmt.Println(md)
		} else {
			filename := output
			if filename == "" {
				filename = report.DefaultSyncFilename(rng.Label())
			}
			if err := report.WriteFile(filename, md); err != nil {
				return err
			}
			fmt.Printf("📄 Output: %s\n", filename)
		}

		if toNotion {
			url, err := notion.NewClient(cfg.Notion.APIKey).AppendWeek(ctx, cfg.Notion.PageID, data)
			if err != nil {
				return err
			}
			fmt.Printf("📤 Notion: %s\n", url)
		}

		fmt.Printf("\n✅ %d tickets · %d PRs merged · %d PRs open\n\n",
			data.Summary.TicketsCompleted, data.Summary.PRsMerged, data.Summary.PRsOpen)

		return nil
	},
}

// resolveSyncRange picks the sync window: the past N days when --days
// is given, otherwise the current Monday-to-Sunday week.
func resolveSyncRange(now time.Time, days int) daterange.Range {
	if days > 0 {
		return daterange.PastNDays(now, days)
	}
	return daterange.CurrentWeek(now)
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Int("days", 0, "cover the past N days instead of the current week")
	syncCmd.Flags().Bool("week", true, "cover the current Monday-to-Sunday week (default)")
	syncCmd.Flags().StringP("output", "o", "", "output filename (default: sync-update-<period>.md)")
	syncCmd.Flags().Bool("no-file", false, "print the update to stdout instead of writing a file")
	syncCmd.Flags().Bool("no-ai", false, "skip the AI summary even when a key is configured")
	syncCmd.Flags().Bool("notion", false, "also append the update to the configured Notion page")
}
