package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	recaperrors "github.com/recap-cli/recap/pkg/errors"
	"github.com/recap-cli/recap/pkg/models"
)

// NarrativeHeading is the section heading under which the AI-generated
// narrative appears in the review document.
const NarrativeHeading = "## ✨ AI-Generated Accomplishments"

// ErrNarrativePresent signals that a document already carries a
// narrative section. Callers treat it as a user-facing early exit, not
// a failure.
var ErrNarrativePresent = fmt.Errorf("document already has a narrative section")

// RenderReview renders the full performance-review markdown document.
func RenderReview(data models.Report) string {
	var lines []string
	push := func(s string) { lines = append(lines, s) }

	push(fmt.Sprintf("# 📊 Performance Review - %s", data.Summary.Period))
	push("")
	push(fmt.Sprintf("> Generated on %s", time.Now().Format("Monday, January 2, 2006")))
	push("")

	push("## 🎯 Summary")
	push("")
	push("| Metric | Value |")
	push("|--------|-------|")
	push(fmt.Sprintf("| Tickets Completed | %d |", data.Summary.TicketsCompleted))
	push(fmt.Sprintf("| PRs Merged | %d |", data.Summary.PRsMerged))
	push(fmt.Sprintf("| Lines Added | +%s |", FormatCount(data.Summary.TotalAdditions)))
	push(fmt.Sprintf("| Lines Removed | -%s |", FormatCount(data.Summary.TotalDeletions)))
	push("")

	if data.Narrative != "" {
		push("---")
		push("")
		push(NarrativeHeading)
		push("")
		push(data.Narrative)
		push("")
	}

	push("---")
	push("")
	push("## 🎫 Linear Tickets Completed")
	push("")

	if len(data.Tickets) == 0 {
		push("_No tickets found for this period._")
	} else {
		groups := GroupTicketsByLabel(data.Tickets)
		if useLabelGroups(groups) {
			for _, group := range groups {
				push(fmt.Sprintf("### %s", group.Label))
				push("")
				for _, ticket := range group.Tickets {
					push(fmt.Sprintf("- **[%s](%s)**: %s", ticket.ID, ticket.URL, ticket.Title))
				}
				push("")
			}
		} else {
			for _, ticket := range data.Tickets {
				labels := ""
				if len(ticket.Labels) > 0 {
					labels = fmt.Sprintf(" _(%s)_", strings.Join(ticket.Labels, ", "))
				}
				push(fmt.Sprintf("- **[%s](%s)**: %s%s", ticket.ID, ticket.URL, ticket.Title, labels))
			}
		}
	}
	push("")

	push("---")
	push("")
	push("## 🔀 GitHub PRs Merged")
	push("")

	if len(data.PRs) == 0 {
		push("_No PRs found for this period._")
	} else {
		for _, group := range GroupPRsByRepo(data.PRs) {
			push(fmt.Sprintf("### %s", group.Repo))
			push("")
			for _, pr := range group.PRs {
				push(fmt.Sprintf("- [%s](%s)%s", pr.Title, pr.URL, prStats(pr)))
			}
			push("")
		}
	}

	// Manual notes scaffold only when there is no narrative to fill
	// the same role.
	if data.Narrative == "" {
		push("---")
		push("")
		push("## ✍️ Notes")
		push("")
		push("_Add your own notes and highlights here..._")
		push("")
		push("### Key Accomplishments")
		push("")
		push("- ")
		push("")
		push("### Challenges Overcome")
		push("")
		push("- ")
		push("")
		push("### Areas of Growth")
		push("")
		push("- ")
		push("")
	}

	return strings.Join(lines, "\n")
}

// RenderSync renders the terse team-sync markdown document.
func RenderSync(data models.Report) string {
	var lines []string
	push := func(s string) { lines = append(lines, s) }

	push(fmt.Sprintf("# 📋 Team Sync Update - %s", data.Summary.Period))
	push("")
	push(fmt.Sprintf("**%d tickets** completed · **%d PRs** merged",
		data.Summary.TicketsCompleted, data.Summary.PRsMerged))
	push("")

	if data.Narrative != "" {
		push("## ✨ Summary")
		push("")
		push(data.Narrative)
		push("")
		push("---")
		push("")
	}

	if len(data.Tickets) > 0 {
		push("## ✅ Completed")
		push("")
		for _, ticket := range data.Tickets {
			push(fmt.Sprintf("- [%s](%s) %s", ticket.ID, ticket.URL, ticket.Title))
		}
		push("")
	}

	if len(data.PRs) > 0 {
		push("## 🔀 PRs Merged")
		push("")
		for _, group := range GroupPRsByRepo(data.PRs) {
			push(fmt.Sprintf("**%s**", group.Repo))
			for _, pr := range group.PRs {
				push(fmt.Sprintf("- [%s](%s)", pr.Title, pr.URL))
			}
			push("")
		}
	}

	return strings.Join(lines, "\n")
}

func prStats(pr models.PullRequest) string {
	if pr.Additions == 0 && pr.Deletions == 0 {
		return ""
	}
	return fmt.Sprintf(" _(+%d/-%d)_", pr.Additions, pr.Deletions)
}

// InsertNarrative places a narrative section into an existing review
// document, right before the first horizontal rule (after the summary
// table). It returns ErrNarrativePresent when the document already has
// one.
func InsertNarrative(content, narrative string) (string, error) {
	if strings.Contains(content, NarrativeHeading) {
		return "", ErrNarrativePresent
	}

	insertPoint := strings.Index(content, "---")
	if insertPoint == -1 {
		return "", fmt.Errorf("could not find insertion point in markdown")
	}

	return content[:insertPoint] +
		"---\n\n" + NarrativeHeading + "\n\n" +
		narrative + "\n\n" +
		content[insertPoint:], nil
}

// DefaultReviewFilename derives the output filename from the period
// label, e.g. "perf-review-jan-2026---mar-2026.md".
func DefaultReviewFilename(period string) string {
	return fmt.Sprintf("perf-review-%s.md", strings.ToLower(strings.ReplaceAll(period, " ", "-")))
}

// DefaultSyncFilename derives the sync output filename from the range
// label, e.g. "sync-update-aug-24-2026---aug-30-2026.md".
func DefaultSyncFilename(label string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(label, ",", ""), " ", "-"))
	return fmt.Sprintf("sync-update-%s.md", slug)
}

// WriteFile writes a rendered document to disk.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return recaperrors.NewRenderError("file", path, err)
	}
	return nil
}
