// Package linear provides functionality for interacting with the Linear GraphQL API.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/recap-cli/recap/internal/daterange"
	"github.com/recap-cli/recap/internal/logging"
	"github.com/recap-cli/recap/pkg/models"
	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

const defaultBaseURL = "https://api.linear.app/graphql"

// issuePageSize is the single-page cap requested from assignedIssues.
// Linear caps pages at 250; typical weekly or review-period volume is
// far below it, so the adapter does not paginate but warns when a full
// page comes back.
const issuePageSize = 250

// Client encapsulates the Linear GraphQL API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Linear API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query executes a GraphQL query and decodes the data payload into out.
func (c *Client) query(ctx context.Context, query string, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("linear API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("linear API error: %s", gqlResp.Errors[0].Message)
	}

	return json.Unmarshal(gqlResp.Data, out)
}

type viewerResponse struct {
	Viewer struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"viewer"`
}

// Viewer resolves the authenticated user. It doubles as the API key
// check before any heavier query runs.
func (c *Client) Viewer(ctx context.Context) (string, error) {
	var resp viewerResponse
	if err := c.query(ctx, `query { viewer { id name } }`, &resp); err != nil {
		return "", fmt.Errorf("failed to resolve linear viewer: %w", err)
	}
	return resp.Viewer.Name, nil
}

type issueNode struct {
	ID          string  `json:"id"`
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CompletedAt *string `json:"completedAt"`
	URL         string  `json:"url"`
}

type assignedIssuesResponse struct {
	Viewer struct {
		AssignedIssues struct {
			Nodes []issueNode `json:"nodes"`
		} `json:"assignedIssues"`
	} `json:"viewer"`
}

type issueDetailResponse struct {
	Issue struct {
		State struct {
			Name string `json:"name"`
		} `json:"state"`
		Labels struct {
			Nodes []struct {
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"labels"`
	} `json:"issue"`
}

// FetchCompletedTickets retrieves issues assigned to the viewer whose
// completion timestamp falls inside the range. State and label set are
// resolved per issue by concurrent follow-up lookups; a failed lookup
// degrades that single ticket and never aborts the batch.
func (c *Client) FetchCompletedTickets(ctx context.Context, rng daterange.Range) ([]models.Ticket, error) {
	logging.Info("fetching linear tickets",
		"start", rng.Start.Format("2006-01-02"),
		"end", rng.End.Format("2006-01-02"))

	query := fmt.Sprintf(`query {
		viewer {
			assignedIssues(
				filter: { completedAt: { gte: "%s", lte: "%s" } }
				first: %d
			) {
				nodes { id identifier title description completedAt url }
			}
		}
	}`, rng.Start.UTC().Format(time.RFC3339), rng.End.UTC().Format(time.RFC3339), issuePageSize)

	var resp assignedIssuesResponse
	if err := c.query(ctx, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch linear tickets: %w", err)
	}

	nodes := resp.Viewer.AssignedIssues.Nodes
	if len(nodes) >= issuePageSize {
		// The upstream cap was hit; results beyond the first page are
		// not fetched.
		logging.Warn("linear returned a full page, results may be capped",
			"count", len(nodes), "page_size", issuePageSize)
	}

	tickets := make([]models.Ticket, len(nodes))
	var wg sync.WaitGroup
	for i, node := range nodes {
		tickets[i] = models.Ticket{
			ID:          node.Identifier,
			Title:       node.Title,
			Description: node.Description,
			CompletedAt: parseTimestamp(node.CompletedAt),
			State:       "Unknown",
			URL:         node.URL,
		}

		wg.Add(1)
		go func(i int, id, identifier string) {
			defer wg.Done()

			state, labels, err := c.issueDetail(ctx, id)
			if err != nil {
				itemErr := recaperrors.NewItemError("linear", identifier, err)
				logging.Warn("ticket detail lookup failed, degrading record", "error", itemErr)
				return
			}
			tickets[i].State = state
			tickets[i].Labels = labels
		}(i, node.ID, node.Identifier)
	}
	wg.Wait()

	logging.Info("fetched linear tickets", "count", len(tickets))
	return tickets, nil
}

// issueDetail resolves the current workflow state and label names of
// one issue.
func (c *Client) issueDetail(ctx context.Context, id string) (string, []string, error) {
	query := fmt.Sprintf(`query {
		issue(id: "%s") {
			state { name }
			labels { nodes { name } }
		}
	}`, id)

	var resp issueDetailResponse
	if err := c.query(ctx, query, &resp); err != nil {
		return "", nil, err
	}

	state := resp.Issue.State.Name
	if state == "" {
		state = "Unknown"
	}

	labels := make([]string, 0, len(resp.Issue.Labels.Nodes))
	for _, l := range resp.Issue.Labels.Nodes {
		labels = append(labels, l.Name)
	}

	return state, labels, nil
}

// parseTimestamp converts an RFC3339 timestamp from the API into a
// *time.Time, returning nil for absent or malformed values.
func parseTimestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
