package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/recap-cli/recap/internal/logging"
	recaperrors "github.com/recap-cli/recap/pkg/errors"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client calls the Notion REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Notion API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type notionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type childrenResponse struct {
	Results []childBlock `json:"results"`
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return recaperrors.NewRenderError("notion", "failed to marshal request", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return recaperrors.NewRenderError("notion", "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return recaperrors.NewRenderError("notion", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr notionError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return recaperrors.NewRenderError("notion",
				fmt.Sprintf("%s %s returned HTTP %d: %s", method, path, resp.StatusCode, apiErr.Message), nil)
		}
		return recaperrors.NewRenderError("notion",
			fmt.Sprintf("%s %s returned HTTP %d", method, path, resp.StatusCode), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return recaperrors.NewRenderError("notion", "failed to decode response", err)
		}
	}
	return nil
}

// ListChildren returns the first page of child blocks under a block or
// page. The year lookup only ever needs the top of the page, so no
// cursor following happens here.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]childBlock, error) {
	var parsed childrenResponse
	path := fmt.Sprintf("/blocks/%s/children?page_size=100", blockID)
	if err := c.do(ctx, http.MethodGet, path, nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

// AppendChildren appends blocks under a block or page and returns the
// created blocks.
func (c *Client) AppendChildren(ctx context.Context, blockID string, blocks []Block) ([]childBlock, error) {
	var parsed childrenResponse
	path := fmt.Sprintf("/blocks/%s/children", blockID)
	payload := struct {
		Children []Block `json:"children"`
	}{Children: blocks}
	if err := c.do(ctx, http.MethodPatch, path, payload, &parsed); err != nil {
		return nil, err
	}
	return parsed.Results, nil
}

// appendInBatches appends blocks under a parent in chunks that respect
// the per-request block limit, sequentially to keep document order.
func (c *Client) appendInBatches(ctx context.Context, blockID string, blocks []Block) error {
	for _, batch := range chunkBlocks(blocks, blockLimit) {
		if _, err := c.AppendChildren(ctx, blockID, batch); err != nil {
			return err
		}
	}
	return nil
}

// CreatePage creates a subpage under a parent page, seeded with an
// initial batch of child blocks. It returns the new page's id and URL.
func (c *Client) CreatePage(ctx context.Context, parentID, title string, children []Block) (string, string, error) {
	payload := map[string]any{
		"parent": map[string]string{"page_id": parentID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]string{"content": title}},
				},
			},
		},
		"children": children,
	}

	var parsed pageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", payload, &parsed); err != nil {
		return "", "", err
	}
	logging.Debug("created notion page", "id", parsed.ID, "title", title)
	return parsed.ID, parsed.URL, nil
}
