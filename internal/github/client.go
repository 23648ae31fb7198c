// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/recap-cli/recap/internal/config"
	"github.com/recap-cli/recap/internal/daterange"
	"github.com/recap-cli/recap/internal/logging"
	"github.com/recap-cli/recap/pkg/models"
	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

// searchPageSize is the per_page value for the search endpoint; 100 is
// the GitHub maximum.
const searchPageSize = 100

// Client encapsulates the GitHub API clients for one or two tokens.
//
// The primary token is authorized for SSO-protected organizations.
// The optional secondary (personal) token reaches repositories the
// primary cannot see, but gets 403s inside SSO organizations, so the
// secondary fetch skips the configured deny-list.
type Client struct {
	primary   *github.Client
	secondary *github.Client
	username  string
	ssoOrgs   []string
}

// NewClient creates a GitHub API client pair from the configuration.
// It authenticates the primary token against the API before returning.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := config.ValidateGitHubConfig(cfg); err != nil {
		return nil, err
	}

	logging.Debug("github configuration",
		"username", cfg.GitHub.Username,
		"token", logging.MaskSensitive(cfg.GitHub.Token),
		"personal_token", logging.MaskSensitive(cfg.GitHub.PersonalToken),
		"sso_orgs", cfg.GitHub.SSOOrgs)

	primary := newTokenClient(ctx, cfg.GitHub.Token)

	// Test the token
	testCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, _, err := primary.Users.Get(testCtx, "")
	if err != nil {
		return nil, fmt.Errorf("error testing github token: %w", err)
	}
	logging.Info("github authentication successful", "username", user.GetLogin())

	client := &Client{
		primary:  primary,
		username: cfg.GitHub.Username,
		ssoOrgs:  cfg.GitHub.SSOOrgs,
	}

	// A secondary token identical to the primary adds nothing.
	if cfg.GitHub.PersonalToken != "" && cfg.GitHub.PersonalToken != cfg.GitHub.Token {
		client.secondary = newTokenClient(ctx, cfg.GitHub.PersonalToken)
	}

	return client, nil
}

func newTokenClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// FetchMergedPRs retrieves PRs authored by the user that were merged
// within the range. When a secondary token is configured, results from
// both tokens are unioned with the primary taking precedence on URL
// conflicts; the passes run sequentially so the primary's seen set is
// complete before the secondary contributes.
func (c *Client) FetchMergedPRs(ctx context.Context, rng daterange.Range) ([]models.PullRequest, error) {
	query := buildMergedQuery(c.username, rng)
	logging.Info("fetching merged github prs", "query", query)

	prs, err := c.searchPRs(ctx, c.primary, query, "updated", false)
	if err != nil {
		return nil, err
	}

	if c.secondary != nil {
		secondary, err := c.searchPRs(ctx, c.secondary, query, "updated", true)
		if err != nil {
			// The secondary pass is the best-effort fallback; the
			// primary result set stands on its own.
			logging.Warn("secondary token fetch failed, continuing with primary results", "error", err)
		} else {
			prs = mergeByURL(prs, secondary)
		}
	}

	sortMergedDesc(prs)

	logging.Info("fetched merged github prs", "count", len(prs))
	return prs, nil
}

// FetchOpenPRs retrieves currently open PRs authored by the user,
// using the primary token only.
func (c *Client) FetchOpenPRs(ctx context.Context) ([]models.PullRequest, error) {
	query := buildOpenQuery(c.username)
	logging.Info("fetching open github prs", "query", query)

	prs, err := c.searchPRs(ctx, c.primary, query, "created", false)
	if err != nil {
		return nil, err
	}
	for i := range prs {
		prs[i].IsOpen = true
	}

	logging.Info("fetched open github prs", "count", len(prs))
	return prs, nil
}

func buildMergedQuery(username string, rng daterange.Range) string {
	return fmt.Sprintf("is:pr author:%s is:merged merged:%s..%s",
		username, rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"))
}

func buildOpenQuery(username string) string {
	return fmt.Sprintf("is:pr author:%s is:open", username)
}

// searchPRs pages through the search endpoint. Pages are fetched
// strictly sequentially because the continuation condition depends on
// each page's length; detail enrichment within a page runs
// concurrently behind a barrier.
func (c *Client) searchPRs(ctx context.Context, client *github.Client, query, sortField string, skipSSOOrgs bool) ([]models.PullRequest, error) {
	var prs []models.PullRequest

	page := 1
	total := 0
	for {
		opts := &github.SearchOptions{
			Sort:  sortField,
			Order: "desc",
			ListOptions: github.ListOptions{
				PerPage: searchPageSize,
				Page:    page,
			},
		}

		result, _, err := client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search github prs: %w", err)
		}

		// The total is frozen at the first page. Items merged while
		// the scan is running do not extend the loop.
		if page == 1 {
			total = result.GetTotal()
		}

		items := result.Issues
		if skipSSOOrgs {
			items = filterDeniedOrgs(items, c.ssoOrgs)
		}

		prs = append(prs, c.enrichPage(ctx, client, items)...)

		if !hasMorePages(len(result.Issues), searchPageSize, page, total) {
			break
		}
		page++
	}

	return prs, nil
}

// hasMorePages is the pagination continuation condition: the page came
// back full and the cumulative count is still below the total reported
// by the first page.
func hasMorePages(pageLen, perPage, page, total int) bool {
	return pageLen == perPage && page*perPage < total
}

// filterDeniedOrgs drops search hits owned by deny-listed
// organizations. The personal token would get 403s for them.
func filterDeniedOrgs(items []*github.Issue, denied []string) []*github.Issue {
	var kept []*github.Issue
	for _, item := range items {
		owner, _, err := ownerRepoFromURL(item.GetRepositoryURL())
		if err != nil {
			logging.Warn("skipping search hit with unparseable repository url",
				"url", item.GetRepositoryURL())
			continue
		}
		if containsOrg(denied, owner) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func containsOrg(orgs []string, owner string) bool {
	for _, org := range orgs {
		if strings.EqualFold(org, owner) {
			return true
		}
	}
	return false
}

// enrichPage resolves line-change counts for every hit on a page. The
// per-item lookups run concurrently and are all awaited before the
// page's results are used; an individual failure degrades that one
// record's counts to zero.
func (c *Client) enrichPage(ctx context.Context, client *github.Client, items []*github.Issue) []models.PullRequest {
	prs := make([]models.PullRequest, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item *github.Issue) {
			defer wg.Done()
			prs[i] = c.enrichPR(ctx, client, item)
		}(i, item)
	}
	wg.Wait()

	return prs
}

func (c *Client) enrichPR(ctx context.Context, client *github.Client, item *github.Issue) models.PullRequest {
	pr := models.PullRequest{
		Title:     item.GetTitle(),
		URL:       item.GetHTMLURL(),
		Body:      item.GetBody(),
		CreatedAt: timePtr(item.GetCreatedAt()),
		MergedAt:  timePtr(item.GetClosedAt()),
	}

	owner, repo, err := ownerRepoFromURL(item.GetRepositoryURL())
	if err != nil {
		logging.Warn("unparseable repository url on search hit", "url", item.GetRepositoryURL())
		return pr
	}
	pr.Repo = owner + "/" + repo

	detail, _, err := client.PullRequests.Get(ctx, owner, repo, item.GetNumber())
	if err != nil {
		itemErr := recaperrors.NewItemError("github", pr.URL, err)
		logging.Warn("pr detail lookup failed, degrading line counts to zero", "error", itemErr)
		return pr
	}

	pr.Additions = detail.GetAdditions()
	pr.Deletions = detail.GetDeletions()
	if mergedAt := detail.GetMergedAt(); !mergedAt.IsZero() {
		pr.MergedAt = &mergedAt
	}

	return pr
}

// ownerRepoFromURL extracts "owner" and "repo" from an API repository
// URL such as https://api.github.com/repos/owner/repo.
func ownerRepoFromURL(repositoryURL string) (string, string, error) {
	parts := strings.Split(strings.TrimSuffix(repositoryURL, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid repository url: %s", repositoryURL)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository url: %s", repositoryURL)
	}
	return owner, repo, nil
}

// mergeByURL unions two result sets, deduplicating by canonical URL.
// Primary-sourced records always win: a secondary record is added only
// when its URL was not already seen.
func mergeByURL(primary, secondary []models.PullRequest) []models.PullRequest {
	seen := make(map[string]bool, len(primary))
	merged := make([]models.PullRequest, 0, len(primary)+len(secondary))

	for _, pr := range primary {
		seen[pr.URL] = true
		merged = append(merged, pr)
	}
	for _, pr := range secondary {
		if seen[pr.URL] {
			continue
		}
		seen[pr.URL] = true
		merged = append(merged, pr)
	}

	return merged
}

// sortMergedDesc orders PRs newest-merged first. Records missing a
// merge timestamp express no preference and keep their relative order.
func sortMergedDesc(prs []models.PullRequest) {
	sort.SliceStable(prs, func(i, j int) bool {
		if prs[i].MergedAt == nil || prs[j].MergedAt == nil {
			return false
		}
		return prs[i].MergedAt.After(*prs[j].MergedAt)
	})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
