package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	models "github.com/XiaoConstantine/mcp-go/pkg/model"
	"github.com/go-shiori/go-readability"
)

// ReadProfileTool fetches a public profile or article page, strips clutter
// with readability, and returns the main content as Markdown.
type ReadProfileTool struct {
	// Timeout bounds fetch and parse (default 30s).
	Timeout time.Duration
}

// maxProfileChars keeps tool output small enough for the model context.
const maxProfileChars = 8000

func (t *ReadProfileTool) Name() string { return "read_profile" }

func (t *ReadProfileTool) Description() string {
	return "Read the main content of a public profile or web page, stripping ads and navigation. " +
		"Returns clean Markdown. Use it to read a LinkedIn profile URL or any article found via search."
}

func (t *ReadProfileTool) InputSchema() models.InputSchema {
	return models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterSchema{
			"url": {
				Type:        "string",
				Description: "The URL of the profile or page to read",
				Required:    true,
			},
		},
	}
}

func (t *ReadProfileTool) Call(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
	pageURL, ok := args["url"].(string)
	if !ok {
		return nil, fmt.Errorf("url parameter is required")
	}
	out, err := t.read(ctx, pageURL)
	if err != nil {
		return textResult("Failed to read page: "+err.Error(), true), nil
	}
	return textResult(out, false), nil
}

func (t *ReadProfileTool) Validate(params map[string]interface{}) error {
	if _, ok := params["url"]; !ok {
		return fmt.Errorf("missing required parameter: url")
	}
	return nil
}

func (t *ReadProfileTool) read(ctx context.Context, pageURL string) (string, error) {
	timeout := t.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Icebreaker/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, pageURL)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		// Fall back to plain text when conversion fails
		markdown = article.TextContent
	}

	out := fmt.Sprintf("# %s\n\n**Source**: %s\n\n%s", article.Title, pageURL, markdown)
	if len(out) > maxProfileChars {
		out = out[:maxProfileChars] + "\n\n[... truncated]"
	}
	return out, nil
}
