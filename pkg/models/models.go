// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Ticket represents a completed Linear issue assigned to the user.
type Ticket struct {
	// ID is the human-readable Linear identifier (e.g., "ENG-123")
	ID string

	// Title is the ticket's title
	Title string

	// Description is the full body text of the ticket
	Description string

	// CompletedAt is the timestamp when the ticket was completed
	CompletedAt *time.Time

	// State is the workflow status label at fetch time (e.g., "Done")
	State string

	// Labels is an ordered slice of label names attached to the ticket
	Labels []string

	// URL is the canonical Linear URL of the ticket
	URL string
}

// PullRequest represents a GitHub pull request authored by the user.
type PullRequest struct {
	// Title is the PR's title
	Title string

	// URL is the canonical GitHub URL; it is the deduplication key
	// when results from two tokens are merged
	URL string

	// Repo is the repository in "owner/name" format
	Repo string

	// CreatedAt is the timestamp when the PR was opened
	CreatedAt *time.Time

	// MergedAt is the timestamp when the PR was merged
	MergedAt *time.Time

	// Body is the PR description
	Body string

	// Additions is the number of lines added
	Additions int

	// Deletions is the number of lines removed
	Deletions int

	// IsOpen marks a still-open PR when merged and open sets are
	// combined for rendering
	IsOpen bool
}

// Summary holds the derived totals for a review period.
type Summary struct {
	TicketsCompleted int
	PRsMerged        int
	PRsOpen          int

	// Period is the display label for the date range, not used for
	// any further computation
	Period string

	// TotalAdditions and TotalDeletions are sums over merged PRs only
	TotalAdditions int
	TotalDeletions int
}

// Report is the aggregated result of one run. It is built once from
// the adapter outputs, handed to exactly one renderer, then discarded.
type Report struct {
	Summary Summary
	Tickets []Ticket
	PRs     []PullRequest
	OpenPRs []PullRequest

	// Narrative is the optional AI-generated summary
	Narrative string
}
