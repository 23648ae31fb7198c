package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recap-cli/recap/internal/ai"
	"github.com/recap-cli/recap/internal/config"
	"github.com/recap-cli/recap/internal/report"
)

// addAICmd retrofits an AI narrative into an existing review file.
var addAICmd = &cobra.Command{
	Use:   "add-ai <file>",
	Short: "Add an AI-generated summary to an existing review file",
	Long: `Read an existing performance review markdown file, generate an AI
narrative of the work it describes, and insert it after the summary table.

A file that already carries a narrative section is left untouched; remove
the section first to regenerate it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateAnthropicConfig(cfg); err != nil {
			return err
		}

		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		content := string(raw)

		// Checked before spending a generation call on it.
		if strings.Contains(content, report.NarrativeHeading) {
			fmt.Println("⚠️  File already has an AI summary. Remove it first to regenerate.")
			return nil
		}

		fmt.Printf("\n📄 Reading %s...\n", file)

		narrative, err := ai.NewClient(cfg.Anthropic.APIKey).SummarizeMarkdown(context.Background(), content)
		if err != nil {
			return err
		}

		updated, err := report.InsertNarrative(content, narrative)
		if err != nil {
			return err
		}

		if err := report.WriteFile(file, updated); err != nil {
			return err
		}

		fmt.Printf("\n✅ Added AI summary to %s\n\n", file)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addAICmd)
}
