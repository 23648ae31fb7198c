// Package ai generates narrative summaries from aggregated work data
// using the Anthropic messages API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/recap-cli/recap/internal/logging"
	recaperrors "github.com/recap-cli/recap/pkg/errors"
	"github.com/recap-cli/recap/pkg/models"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-sonnet-4-20250514"

	// summaryMaxTokens is the output budget for one narrative.
	summaryMaxTokens = 2000
)

// Client calls the Anthropic messages API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Anthropic API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// SummarizeReport generates an accomplishment narrative from the
// aggregated report.
func (c *Client) SummarizeReport(ctx context.Context, data models.Report) (string, error) {
	return c.generate(ctx, "SummarizeReport", buildReportPrompt(data))
}

// SummarizeMarkdown generates an accomplishment narrative from a
// previously rendered review document.
func (c *Client) SummarizeMarkdown(ctx context.Context, content string) (string, error) {
	return c.generate(ctx, "SummarizeMarkdown", buildMarkdownPrompt(content))
}

func (c *Client) generate(ctx context.Context, operation, prompt string) (string, error) {
	logging.Info("generating ai summary", "model", c.model)

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: summaryMaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", recaperrors.NewSummaryErrorWithCause(operation, "failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", recaperrors.NewSummaryErrorWithCause(operation, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", recaperrors.NewSummaryErrorWithCause(operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", recaperrors.NewSummaryErrorWithStatus(operation, resp.StatusCode, apiErr.Error.Message)
		}
		return "", recaperrors.NewSummaryErrorWithStatus(operation, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", recaperrors.NewSummaryErrorWithCause(operation, "failed to decode response", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	narrative := strings.TrimSpace(text.String())
	if narrative == "" {
		return "", recaperrors.NewSummaryError(operation, "empty response")
	}

	logging.Info("ai summary generated",
		"input_tokens", parsed.Usage.InputTokens,
		"output_tokens", parsed.Usage.OutputTokens)
	return narrative, nil
}

// promptInstructions is shared by both prompt builders: the same
// format is expected whether the context is structured data or an
// existing document.
const promptInstructions = `## Instructions:
1. Identify 3-5 major themes or project areas from the work
2. For each theme, write 2-3 bullet points highlighting specific accomplishments
3. Focus on impact and value delivered, not just tasks completed
4. Use action verbs and quantify where possible
5. Write in first person as if you are the engineer

Format your response as:

### Key Themes & Accomplishments

#### [Theme 1 Name]
- Accomplishment bullet point
- Accomplishment bullet point

#### [Theme 2 Name]
- Accomplishment bullet point
- Accomplishment bullet point

(continue for all themes)

### Summary Statement
Write a 2-3 sentence summary of overall impact and contributions.`

func buildReportPrompt(data models.Report) string {
	var tickets []string
	for _, t := range data.Tickets {
		line := fmt.Sprintf("- %s: %s", t.ID, t.Title)
		if len(t.Labels) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(t.Labels, ", "))
		}
		tickets = append(tickets, line)
	}

	var prs []string
	for _, pr := range data.PRs {
		prs = append(prs, fmt.Sprintf("- %s: %s", pr.Repo, pr.Title))
	}

	ticketsList := strings.Join(tickets, "\n")
	if ticketsList == "" {
		ticketsList = "None"
	}
	prsList := strings.Join(prs, "\n")
	if prsList == "" {
		prsList = "None"
	}

	return fmt.Sprintf(`You are helping an engineer write their performance review. Based on the following completed work, identify key accomplishments, themes, and value delivered.

## Review Period: %s

## Completed Linear Tickets (%d total):
%s

## Merged GitHub PRs (%d total):
%s

%s`, data.Summary.Period, data.Summary.TicketsCompleted, ticketsList, data.Summary.PRsMerged, prsList, promptInstructions)
}

func buildMarkdownPrompt(content string) string {
	return fmt.Sprintf(`You are helping an engineer write their performance review. Based on the following performance review markdown document, identify key accomplishments, themes, and value delivered.

%s

%s`, content, promptInstructions)
}
