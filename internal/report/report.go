// Package report aggregates adapter outputs into a Report value and
// renders it as markdown.
package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/recap-cli/recap/pkg/models"
)

// Build combines ticket and PR results plus derived totals into one
// Report. Totals are summed over merged PRs only; open PRs contribute
// to the count but never to line totals.
func Build(tickets []models.Ticket, prs, openPRs []models.PullRequest, period string) models.Report {
	totalAdditions := 0
	totalDeletions := 0
	for _, pr := range prs {
		totalAdditions += pr.Additions
		totalDeletions += pr.Deletions
	}

	return models.Report{
		Summary: models.Summary{
			TicketsCompleted: len(tickets),
			PRsMerged:        len(prs),
			PRsOpen:          len(openPRs),
			Period:           period,
			TotalAdditions:   totalAdditions,
			TotalDeletions:   totalDeletions,
		},
		Tickets: tickets,
		PRs:     prs,
		OpenPRs: openPRs,
	}
}

// RepoGroup holds one repository's PRs in first-seen order.
type RepoGroup struct {
	Repo string
	PRs  []models.PullRequest
}

// GroupPRsByRepo groups PRs by repository, preserving the order in
// which repositories first appear.
func GroupPRsByRepo(prs []models.PullRequest) []RepoGroup {
	index := make(map[string]int)
	var groups []RepoGroup
	for _, pr := range prs {
		i, ok := index[pr.Repo]
		if !ok {
			i = len(groups)
			index[pr.Repo] = i
			groups = append(groups, RepoGroup{Repo: pr.Repo})
		}
		groups[i].PRs = append(groups[i].PRs, pr)
	}
	return groups
}

// LabelGroup holds the tickets sharing one primary label.
type LabelGroup struct {
	Label   string
	Tickets []models.Ticket
}

// fallbackLabel buckets tickets without any label.
const fallbackLabel = "Other"

// GroupTicketsByLabel groups tickets by their primary (first) label in
// first-seen order. Unlabeled tickets fall into the "Other" group.
func GroupTicketsByLabel(tickets []models.Ticket) []LabelGroup {
	index := make(map[string]int)
	var groups []LabelGroup
	for _, ticket := range tickets {
		label := fallbackLabel
		if len(ticket.Labels) > 0 && ticket.Labels[0] != "" {
			label = ticket.Labels[0]
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, LabelGroup{Label: label})
		}
		groups[i].Tickets = append(groups[i].Tickets, ticket)
	}
	return groups
}

// useLabelGroups reports whether the ticket section should be grouped:
// only when there is more than one distinct group and every ticket has
// a real label.
func useLabelGroups(groups []LabelGroup) bool {
	if len(groups) <= 1 {
		return false
	}
	for _, g := range groups {
		if g.Label == fallbackLabel {
			return false
		}
	}
	return true
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders a line count with thousands grouping, e.g.
// "1,234".
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
