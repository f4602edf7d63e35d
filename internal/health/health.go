// Package health checks the external dependencies an icebreaker run needs:
// the model provider endpoint and the Firecrawl search API key.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jdelaunay/icebreaker/internal/config"
)

type Status struct {
	Name    string
	Detail  string
	OK      bool
	Error   string
	Latency time.Duration
}

// CheckAll runs every dependency check for the given configuration.
func CheckAll(ctx context.Context, cfg *config.Config) []Status {
	return []Status{
		CheckProvider(ctx, cfg),
		CheckFirecrawl(),
	}
}

// CheckProvider verifies that the configured model provider is reachable and
// that the configured model is available. Both openai and ollama expose an
// OpenAI-compatible /models listing.
func CheckProvider(ctx context.Context, cfg *config.Config) Status {
	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	switch cfg.Provider {
	case "ollama":
		baseURL = strings.TrimRight(baseURL, "/") + "/v1"
		apiKey = ""
	default:
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		if apiKey == "" {
			return Status{
				Name:  "provider",
				Error: "no API key configured (set OPENAI_API_KEY)",
			}
		}
	}

	s := Status{Name: "provider", Detail: fmt.Sprintf("%s (%s)", cfg.Provider, baseURL)}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := listModels(ctx, baseURL, apiKey)
	s.Latency = time.Since(start)
	if err != "" {
		s.Error = err
		return s
	}

	s.OK = true
	if len(models) == 0 {
		// Endpoint is reachable but doesn't list models, skip the model check
		return s
	}
	for _, m := range models {
		if m == cfg.Model {
			return s
		}
	}
	s.OK = false
	s.Error = fmt.Sprintf("model %q not found on the provider", cfg.Model)
	return s
}

// CheckFirecrawl verifies that the web_search tool has its API key. The key
// itself is only validated on first use.
func CheckFirecrawl() Status {
	s := Status{Name: "firecrawl", Detail: "web_search tool"}
	if os.Getenv("FIRECRAWL_API_KEY") == "" {
		s.Error = "FIRECRAWL_API_KEY is not set; the researcher cannot search the web"
		return s
	}
	s.OK = true
	return s
}

func listModels(ctx context.Context, baseURL, apiKey string) ([]string, string) {
	url := strings.TrimRight(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err.Error()
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, "authentication failed — check your API key"
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode)
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Some endpoints return non-standard JSON but are still reachable
		return nil, ""
	}
	models := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		models = append(models, m.ID)
	}
	return models, ""
}

func friendlyError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is the service running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check the URL)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "connection timed out (service may be starting up)"
	}
	return msg
}
