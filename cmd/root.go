// Package cmd provides the command-line interface for the recap tool.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recap",
	Short: "Recap aggregates your completed Linear tickets and GitHub PRs",
	Long: `Recap aggregates a user's completed Linear tickets and merged GitHub
pull requests over a date range, optionally generates an AI narrative of the
work, and renders the result as a markdown file or a Notion page.

Configuration comes from environment variables (a .env file in the working
directory is loaded automatically): LINEAR_API_KEY, GITHUB_TOKEN,
GITHUB_USERNAME, and optionally PERSONAL_GITHUB_TOKEN, GITHUB_SSO_ORGS,
ANTHROPIC_API_KEY, NOTION_API_KEY and NOTION_PAGE_ID.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
