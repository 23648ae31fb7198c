package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recap-cli/recap/pkg/models"
)

// scenarioReport builds the reference scenario: two tickets and three
// PRs across two repos with +15/-3 total line changes.
func scenarioReport() models.Report {
	tickets := []models.Ticket{
		{ID: "ENG-1", Title: "Fix login bug", URL: "https://linear.app/acme/issue/ENG-1"},
		{ID: "ENG-2", Title: "Add retry logic", Labels: []string{"backend"}, URL: "https://linear.app/acme/issue/ENG-2"},
	}
	prs := []models.PullRequest{
		{Repo: "acme/widgets", Title: "Add widget cache", URL: "https://github.com/acme/widgets/pull/1", Additions: 10, Deletions: 2},
		{Repo: "acme/gadgets", Title: "Fix gadget race", URL: "https://github.com/acme/gadgets/pull/2", Additions: 5, Deletions: 1},
		{Repo: "acme/widgets", Title: "Bump deps", URL: "https://github.com/acme/widgets/pull/3", Additions: 0, Deletions: 0},
	}
	return Build(tickets, prs, nil, "Aug 2026")
}

func TestRenderReview(t *testing.T) {
	md := RenderReview(scenarioReport())

	// Summary table rows.
	assert.Contains(t, md, "| Tickets Completed | 2 |")
	assert.Contains(t, md, "| PRs Merged | 3 |")
	assert.Contains(t, md, "| Lines Added | +15 |")
	assert.Contains(t, md, "| Lines Removed | -3 |")

	// Exactly two ticket entries.
	assert.Equal(t, 1, strings.Count(md, "[ENG-1]"))
	assert.Equal(t, 1, strings.Count(md, "[ENG-2]"))

	// PRs grouped under exactly two repo headings, first-seen order.
	widgetsIdx := strings.Index(md, "### acme/widgets")
	gadgetsIdx := strings.Index(md, "### acme/gadgets")
	require.NotEqual(t, -1, widgetsIdx)
	require.NotEqual(t, -1, gadgetsIdx)
	assert.Less(t, widgetsIdx, gadgetsIdx)
	assert.Equal(t, 2, strings.Count(md, "\n### acme/"))

	// Line stats rendered per PR, omitted when both counts are zero.
	assert.Contains(t, md, "_(+10/-2)_")
	assert.NotContains(t, md, "_(+0/-0)_")

	// No narrative: the manual notes scaffold is present.
	assert.Contains(t, md, "## ✍️ Notes")
	assert.NotContains(t, md, NarrativeHeading)
}

func TestRenderReviewWithNarrative(t *testing.T) {
	data := scenarioReport()
	data.Narrative = "### Key Themes\n- Shipped the widget cache"

	md := RenderReview(data)

	assert.Contains(t, md, NarrativeHeading)
	assert.Contains(t, md, "Shipped the widget cache")

	// The narrative replaces the manual notes scaffold.
	assert.NotContains(t, md, "## ✍️ Notes")
}

func TestRenderReviewEmpty(t *testing.T) {
	md := RenderReview(Build(nil, nil, nil, "Aug 2026"))

	assert.Contains(t, md, "_No tickets found for this period._")
	assert.Contains(t, md, "_No PRs found for this period._")
	assert.Contains(t, md, "| Lines Added | +0 |")
}

func TestRenderReviewGroupsTicketsByLabel(t *testing.T) {
	tickets := []models.Ticket{
		{ID: "ENG-1", Title: "API hardening", Labels: []string{"backend"}, URL: "https://linear.app/acme/issue/ENG-1"},
		{ID: "ENG-2", Title: "Polish dashboard", Labels: []string{"frontend"}, URL: "https://linear.app/acme/issue/ENG-2"},
	}
	md := RenderReview(Build(tickets, nil, nil, "Aug 2026"))

	assert.Contains(t, md, "### backend")
	assert.Contains(t, md, "### frontend")
}

func TestRenderSync(t *testing.T) {
	md := RenderSync(scenarioReport())

	assert.Contains(t, md, "# 📋 Team Sync Update - Aug 2026")
	assert.Contains(t, md, "**2 tickets** completed · **3 PRs** merged")
	assert.Contains(t, md, "- [ENG-1](https://linear.app/acme/issue/ENG-1) Fix login bug")
	assert.Contains(t, md, "**acme/widgets**")
	assert.Contains(t, md, "**acme/gadgets**")

	// Sync variant carries no line-count stats.
	assert.NotContains(t, md, "+10")
}

func TestRenderSyncWithNarrative(t *testing.T) {
	data := scenarioReport()
	data.Narrative = "Solid week across both repos."

	md := RenderSync(data)

	assert.Contains(t, md, "## ✨ Summary")
	assert.Contains(t, md, "Solid week across both repos.")

	// Narrative sits above the ticket list.
	assert.Less(t, strings.Index(md, "## ✨ Summary"), strings.Index(md, "## ✅ Completed"))
}

func TestInsertNarrative(t *testing.T) {
	doc := RenderReview(scenarioReport())

	updated, err := InsertNarrative(doc, "### Key Themes\n- Did things")
	require.NoError(t, err)

	assert.Contains(t, updated, NarrativeHeading)
	assert.Contains(t, updated, "- Did things")

	// Inserted before the first rule, after the summary table.
	assert.Less(t, strings.Index(updated, "| Lines Added"), strings.Index(updated, NarrativeHeading))
	assert.Less(t, strings.Index(updated, NarrativeHeading), strings.Index(updated, "## 🎫 Linear Tickets Completed"))
}

func TestInsertNarrativeAlreadyPresent(t *testing.T) {
	data := scenarioReport()
	data.Narrative = "existing"
	doc := RenderReview(data)

	_, err := InsertNarrative(doc, "new narrative")
	assert.ErrorIs(t, err, ErrNarrativePresent)
}

func TestInsertNarrativeNoInsertionPoint(t *testing.T) {
	_, err := InsertNarrative("just some text without a rule", "narrative")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNarrativePresent)
}

func TestDefaultReviewFilename(t *testing.T) {
	assert.Equal(t, "perf-review-jan-2026---mar-2026.md", DefaultReviewFilename("Jan 2026 - Mar 2026"))
}

func TestDefaultSyncFilename(t *testing.T) {
	assert.Equal(t, "sync-update-aug-24-2026---aug-30-2026.md", DefaultSyncFilename("Aug 24, 2026 - Aug 30, 2026"))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	require.NoError(t, WriteFile(path, "# hello\n"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", string(content))
}

func TestWriteFileError(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.md"), "x")
	assert.Error(t, err)
}
