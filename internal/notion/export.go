package notion

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/recap-cli/recap/internal/logging"
	"github.com/recap-cli/recap/internal/report"
	"github.com/recap-cli/recap/pkg/models"
)

// blockLimit is the maximum number of blocks Notion accepts in one
// append or create request.
const blockLimit = 100

// chunkBlocks splits blocks into consecutive slices of at most size.
func chunkBlocks(blocks []Block, size int) [][]Block {
	var chunks [][]Block
	for len(blocks) > 0 {
		n := size
		if len(blocks) < n {
			n = len(blocks)
		}
		chunks = append(chunks, blocks[:n])
		blocks = blocks[n:]
	}
	return chunks
}

// matchYearBlock scans a page's top-level blocks for the year section.
// A toggle whose text mentions the year wins; then any heading; then a
// bullet whose text is exactly the year, which Notion also lets carry
// children. The second return reports whether the matched block can
// hold children directly.
func matchYearBlock(blocks []childBlock, year string) (string, bool) {
	for _, b := range blocks {
		if b.Type == "toggle" && strings.Contains(b.plainText(), year) {
			return b.ID, true
		}
	}
	for _, b := range blocks {
		switch b.Type {
		case "heading_1", "heading_2", "heading_3":
			if strings.Contains(b.plainText(), year) {
				return b.ID, false
			}
		}
	}
	for _, b := range blocks {
		if b.Type == "bulleted_list_item" && strings.TrimSpace(b.plainText()) == year {
			return b.ID, true
		}
	}
	return "", false
}

// AppendWeek adds the report as a collapsible period toggle on the
// tracking page, nesting it inside the current year's section when one
// exists. It returns the page URL.
func (c *Client) AppendWeek(ctx context.Context, pageID string, data models.Report) (string, error) {
	logging.Info("exporting week to notion", "page_id", logging.MaskSensitive(pageID))

	year := time.Now().Format("2006")
	children, err := c.ListChildren(ctx, pageID)
	if err != nil {
		return "", err
	}

	// Headings cannot hold children, so content lands on the page
	// itself when the year section is a heading or missing.
	parentID := pageID
	if id, container := matchYearBlock(children, year); container {
		parentID = id
		logging.Debug("found year section", "year", year)
	}

	toggleChildren := weekToggleChildren(data)

	firstBatch := toggleChildren
	var remaining []Block
	if len(toggleChildren) > blockLimit {
		firstBatch = toggleChildren[:blockLimit]
		remaining = toggleChildren[blockLimit:]
	}

	created, err := c.AppendChildren(ctx, parentID, []Block{
		Toggle{Text: Text(data.Summary.Period), Children: firstBatch},
	})
	if err != nil {
		return "", err
	}

	if len(remaining) > 0 {
		if len(created) == 0 {
			return "", fmt.Errorf("notion did not return the created toggle block")
		}
		if err := c.appendInBatches(ctx, created[0].ID, remaining); err != nil {
			return "", err
		}
	}

	return "https://notion.so/" + strings.ReplaceAll(pageID, "-", ""), nil
}

// weekToggleChildren builds the blocks inside one period toggle: the
// narrative in italics, the ticket list, and the combined merged/open
// PR list.
func weekToggleChildren(data models.Report) []Block {
	var blocks []Block

	if data.Narrative != "" {
		for _, line := range strings.Split(data.Narrative, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			blocks = append(blocks, Paragraph{Text: []RichText{{Content: line, Italic: true}}})
		}
	}

	if len(data.Tickets) > 0 {
		blocks = append(blocks, Paragraph{Text: []RichText{{Content: "Linear Tickets", Bold: true}}})
		for _, ticket := range data.Tickets {
			blocks = append(blocks, BulletedItem{Text: []RichText{
				{Content: ticket.ID, URL: ticket.URL},
				{Content: " " + ticket.Title},
			}})
		}
	}

	allPRs := combinePRs(data.PRs, data.OpenPRs)
	if len(allPRs) > 0 {
		blocks = append(blocks, Paragraph{Text: []RichText{{Content: "PRs", Bold: true}}})
		for _, pr := range allPRs {
			suffix := ""
			if pr.Additions > 0 || pr.Deletions > 0 {
				suffix = fmt.Sprintf(" +%d/-%d", pr.Additions, pr.Deletions)
			}
			if pr.IsOpen {
				suffix += " (open)"
			}
			blocks = append(blocks, BulletedItem{Text: []RichText{
				{Content: fmt.Sprintf("[%s] ", pr.Repo)},
				{Content: pr.Title, URL: pr.URL},
				{Content: suffix},
			}})
		}
	}

	return blocks
}

// combinePRs merges the merged and open PR lists sorted ascending by
// creation date. PRs without a creation date keep their relative
// position.
func combinePRs(merged, open []models.PullRequest) []models.PullRequest {
	all := make([]models.PullRequest, 0, len(merged)+len(open))
	all = append(all, merged...)
	all = append(all, open...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt == nil || all[j].CreatedAt == nil {
			return false
		}
		return all[i].CreatedAt.Before(*all[j].CreatedAt)
	})
	return all
}

// CreateReviewPage creates the report as a standalone subpage under
// the tracking page and returns the new page's URL.
func (c *Client) CreateReviewPage(ctx context.Context, pageID string, data models.Report) (string, error) {
	logging.Info("exporting review to notion", "page_id", logging.MaskSensitive(pageID))

	blocks := reviewPageBlocks(data)

	firstBatch := blocks
	var remaining []Block
	if len(blocks) > blockLimit {
		firstBatch = blocks[:blockLimit]
		remaining = blocks[blockLimit:]
	}

	title := "Performance Review - " + data.Summary.Period
	newPageID, pageURL, err := c.CreatePage(ctx, pageID, title, firstBatch)
	if err != nil {
		return "", err
	}

	if len(remaining) > 0 {
		if err := c.appendInBatches(ctx, newPageID, remaining); err != nil {
			return "", err
		}
	}

	logging.Info("notion review page created", "blocks", len(blocks))
	return pageURL, nil
}

// reviewPageBlocks builds the full block list of a review subpage:
// summary callout, parsed narrative, tickets, then PRs by repo.
func reviewPageBlocks(data models.Report) []Block {
	blocks := []Block{
		Callout{
			Emoji: "🎯",
			Text: Text(fmt.Sprintf("📊 %d tickets · %d PRs · +%s/-%s lines",
				data.Summary.TicketsCompleted, data.Summary.PRsMerged,
				report.FormatCount(data.Summary.TotalAdditions),
				report.FormatCount(data.Summary.TotalDeletions))),
		},
	}

	if data.Narrative != "" {
		blocks = append(blocks, narrativeBlocks(data.Narrative)...)
		blocks = append(blocks, Divider{})
	}

	blocks = append(blocks, Heading2{Text: Text("Linear Tickets Completed")})
	if len(data.Tickets) == 0 {
		blocks = append(blocks, Paragraph{Text: []RichText{{Content: "No tickets found for this period.", Italic: true}}})
	} else {
		for _, ticket := range data.Tickets {
			rest := ": " + ticket.Title
			if len(ticket.Labels) > 0 {
				rest += fmt.Sprintf(" (%s)", strings.Join(ticket.Labels, ", "))
			}
			blocks = append(blocks, BulletedItem{Text: []RichText{
				{Content: ticket.ID, URL: ticket.URL, Bold: true},
				{Content: rest},
			}})
		}
	}

	blocks = append(blocks, Divider{})
	blocks = append(blocks, Heading2{Text: Text("GitHub PRs Merged")})
	if len(data.PRs) == 0 {
		blocks = append(blocks, Paragraph{Text: []RichText{{Content: "No PRs found for this period.", Italic: true}}})
	} else {
		for _, group := range report.GroupPRsByRepo(data.PRs) {
			blocks = append(blocks, Heading3{Text: Text(group.Repo)})
			for _, pr := range group.PRs {
				stats := ""
				if pr.Additions > 0 || pr.Deletions > 0 {
					stats = fmt.Sprintf(" (+%d/-%d)", pr.Additions, pr.Deletions)
				}
				blocks = append(blocks, BulletedItem{Text: []RichText{
					{Content: pr.Title, URL: pr.URL},
					{Content: stats, Color: "gray"},
				}})
			}
		}
	}

	return blocks
}

// narrativeBlocks converts the narrative's markdown into blocks. The
// narrative only ever uses headings, bullets, and paragraphs, so a
// line classifier is enough.
func narrativeBlocks(narrative string) []Block {
	var blocks []Block
	for _, line := range strings.Split(narrative, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "#### "):
			blocks = append(blocks, Heading3{Text: Text(strings.TrimPrefix(trimmed, "#### "))})
		case strings.HasPrefix(trimmed, "### "):
			blocks = append(blocks, Heading2{Text: Text(strings.TrimPrefix(trimmed, "### "))})
		case strings.HasPrefix(trimmed, "- "):
			blocks = append(blocks, BulletedItem{Text: Text(strings.TrimPrefix(trimmed, "- "))})
		default:
			blocks = append(blocks, Paragraph{Text: Text(trimmed)})
		}
	}
	return blocks
}
