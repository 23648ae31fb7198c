package cmd

import (
	"context"
	"sync"

	"github.com/recap-cli/recap/internal/config"
	"github.com/recap-cli/recap/internal/daterange"
	"github.com/recap-cli/recap/internal/github"
	"github.com/recap-cli/recap/internal/linear"
	"github.com/recap-cli/recap/pkg/models"
)

// fetchOptions selects which sources a command pulls from.
type fetchOptions struct {
	Tickets   bool
	MergedPRs bool
	OpenPRs   bool
}

// fetchAll pulls the selected sources concurrently. Client construction
// happens up front so configuration and authentication failures
// surface before any fetch starts; any fetch error is fatal for the
// run.
func fetchAll(ctx context.Context, cfg *config.Config, rng daterange.Range, opts fetchOptions) ([]models.Ticket, []models.PullRequest, []models.PullRequest, error) {
	var linearClient *linear.Client
	if opts.Tickets {
		if err := config.ValidateLinearConfig(cfg); err != nil {
			return nil, nil, nil, err
		}
		linearClient = linear.NewClient(cfg.Linear.APIKey)
	}

	var githubClient *github.Client
	if opts.MergedPRs || opts.OpenPRs {
		var err error
		githubClient, err = github.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var (
		wg      sync.WaitGroup
		tickets []models.Ticket
		merged  []models.PullRequest
		open    []models.PullRequest

		ticketsErr, mergedErr, openErr error
	)

	if opts.Tickets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tickets, ticketsErr = linearClient.FetchCompletedTickets(ctx, rng)
		}()
	}
	if opts.MergedPRs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			merged, mergedErr = githubClient.FetchMergedPRs(ctx, rng)
		}()
	}
	if opts.OpenPRs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			open, openErr = githubClient.FetchOpenPRs(ctx)
		}()
	}
	wg.Wait()

	for _, err := range []error{ticketsErr, mergedErr, openErr} {
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return tickets, merged, open, nil
}
