package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"
)

const firecrawlSearchURL = "https://api.firecrawl.dev/v1/search"

// SearchTool searches the web through the Firecrawl API so agents can pass a
// query at runtime. The call is bounded by a single timeout; there is no
// retry policy.
type SearchTool struct {
	// Endpoint overrides the Firecrawl URL, for tests.
	Endpoint string
	// Limit caps the number of results per query (default 5).
	Limit int
	// Timeout bounds the HTTP call (default 30s).
	Timeout time.Duration
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Markdown    string `json:"markdown"`
	} `json:"data"`
}

func (t *SearchTool) Name() string { return "web_search" }

func (t *SearchTool) Description() string {
	return "Searches the web using Firecrawl. Use this for general web search, blog posts, or video content. " +
		"Provide a clear search query string."
}

func (t *SearchTool) InputSchema() models.InputSchema {
	return models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterSchema{
			"query": {
				Type:        "string",
				Description: "Search query for web, blog, or video search",
				Required:    true,
			},
		},
	}
}

func (t *SearchTool) Call(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
	query, ok := args["query"].(string)
	if !ok {
		return nil, fmt.Errorf("query parameter is required")
	}
	out := t.Search(ctx, query)
	return textResult(out, strings.HasPrefix(out, "Error") || strings.HasPrefix(out, "Firecrawl API error")), nil
}

func (t *SearchTool) Validate(params map[string]interface{}) error {
	if _, ok := params["query"]; !ok {
		return fmt.Errorf("missing required parameter: query")
	}
	return nil
}

// Search runs one bounded Firecrawl query and formats the results as
// numbered text. Failures come back as descriptive strings, not errors, so
// the orchestrator can surface them to the model.
func (t *SearchTool) Search(ctx context.Context, query string) string {
	apiKey := os.Getenv("FIRECRAWL_API_KEY")
	if apiKey == "" {
		return "Error: FIRECRAWL_API_KEY is not set in the environment."
	}

	limit := t.Limit
	if limit == 0 {
		limit = 5
	}
	timeout := t.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	endpoint := t.Endpoint
	if endpoint == "" {
		endpoint = firecrawlSearchURL
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{"query": query, "limit": limit})
	if err != nil {
		return "Error during search: " + err.Error()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return "Error during search: " + err.Error()
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "Firecrawl API error: " + err.Error()
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "Firecrawl API error: " + err.Error()
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Firecrawl API error: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed firecrawlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "Error during search: " + err.Error()
	}
	if !parsed.Success {
		return string(body)
	}
	if len(parsed.Data) == 0 {
		return "No search results found."
	}

	var parts []string
	for i, r := range parsed.Data {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		desc := r.Description
		if desc == "" {
			desc = r.Markdown
			if len(desc) > 300 {
				desc = desc[:300]
			}
		}
		parts = append(parts, fmt.Sprintf("%d. %s\n   URL: %s\n   %s", i+1, title, r.URL, desc))
	}
	return strings.Join(parts, "\n\n")
}
