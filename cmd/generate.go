package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recap-cli/recap/internal/config"
	"github.com/recap-cli/recap/internal/daterange"
	"github.com/recap-cli/recap/internal/logging"
	"github.com/recap-cli/recap/internal/notion"
	"github.com/recap-cli/recap/internal/report"
)

// generateCmd builds a performance-review document for an explicit
// date range.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a performance review document for a date range",
	Long: `Fetch completed Linear tickets and merged GitHub PRs for an explicit
date range and render them as a performance review.

By default the review is written as a markdown file named
perf-review-<period>.md. With --notion it is created as a subpage of the
configured Notion page instead.

Example:
  recap generate -s 2026-01-01 -e 2026-06-30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := cmd.Flags().GetString("start")
		if err != nil {
			return err
		}
		end, err := cmd.Flags().GetString("end")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		linearOnly, err := cmd.Flags().GetBool("linear-only")
		if err != nil {
			return err
		}
		githubOnly, err := cmd.Flags().GetBool("github-only")
		if err != nil {
			return err
		}
		toNotion, err := cmd.Flags().GetBool("notion")
		if err != nil {
			return err
		}

		if linearOnly && githubOnly {
			return fmt.Errorf("--linear-only and --github-only are mutually exclusive")
		}

		startDate, err := daterange.Parse(start)
		if err != nil {
			return err
		}
		endDate, err := daterange.Parse(end)
		if err != nil {
			return err
		}
		rng := daterange.Explicit(startDate, endDate)

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
		tickets, prs, _, err := fetchAll(ctx, cfg, rng, fetchOptions{
			Tickets:   !githubOnly,
			MergedPRs: !linearOnly,
		})
		if err != nil {
			return err
		}

		data := report.Build(tickets, prs, nil, rng.Period())

		var destination string
		if toNotion {
			url, err := notion.NewClient(cfg.Notion.APIKey).CreateReviewPage(ctx, cfg.Notion.PageID, data)
			if err != nil {
				return err
			}
			destination = url
		} else {
			filename := output
			if filename == "" {
				filename = report.DefaultReviewFilename(rng.Period())
			}
			if err := report.WriteFile(filename, report.RenderReview(data)); err != nil {
				return err
			}
			destination = filename
		}

		logging.Debug("generate complete", "destination", destination)

		fmt.Println("\n================================")
		fmt.Println("📊 Summary:")
		fmt.Printf("   • %d Linear tickets completed\n", data.Summary.TicketsCompleted)
		fmt.Printf("   • %d GitHub PRs merged\n", data.Summary.PRsMerged)
		fmt.Printf("   • +%s / -%s lines changed\n",
			report.FormatCount(data.Summary.TotalAdditions),
			report.FormatCount(data.Summary.TotalDeletions))
		fmt.Printf("\n📄 Output: %s\n\n", destination)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("start", "s", "", "start date (YYYY-MM-DD)")
	generateCmd.Flags().StringP("end", "e", "", "end date (YYYY-MM-DD)")
	generateCmd.Flags().StringP("output", "o", "", "output filename (default: perf-review-<period>.md)")
	generateCmd.Flags().Bool("linear-only", false, "only fetch Linear tickets")
	generateCmd.Flags().Bool("github-only", false, "only fetch GitHub PRs")
	generateCmd.Flags().Bool("notion", false, "create the review as a Notion subpage instead of a file")
	generateCmd.MarkFlagRequired("start")
	generateCmd.MarkFlagRequired("end")
}
