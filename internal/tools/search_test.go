package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTool_MissingAPIKey(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "")

	tool := &SearchTool{}
	out := tool.Search(context.Background(), "golang concurrency")
	assert.Contains(t, out, "FIRECRAWL_API_KEY is not set")
}

func TestSearchTool_FormatsResults(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "test-key")

	var gotAuth string
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"title": "Post one", "url": "https://a.example", "description": "first"},
				{"title": "", "url": "https://b.example", "markdown": "body text"},
			},
		})
	}))
	defer srv.Close()

	tool := &SearchTool{Endpoint: srv.URL}
	out := tool.Search(context.Background(), "climate tech")

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "climate tech", gotPayload["query"])
	assert.Equal(t, float64(5), gotPayload["limit"])

	assert.Contains(t, out, "1. Post one\n   URL: https://a.example\n   first")
	assert.Contains(t, out, "2. No title\n   URL: https://b.example\n   body text")
}

func TestSearchTool_EmptyResults(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
	}))
	defer srv.Close()

	tool := &SearchTool{Endpoint: srv.URL}
	assert.Equal(t, "No search results found.", tool.Search(context.Background(), "nothing"))
}

func TestSearchTool_HTTPErrorIsSoft(t *testing.T) {
	t.Setenv("FIRECRAWL_API_KEY", "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	tool := &SearchTool{Endpoint: srv.URL}
	out := tool.Search(context.Background(), "anything")
	assert.Contains(t, out, "Firecrawl API error: HTTP 402")
	assert.Contains(t, out, "quota exceeded")
}

func TestSearchTool_CallRequiresQuery(t *testing.T) {
	tool := &SearchTool{}
	_, err := tool.Call(context.Background(), map[string]interface{}{})
	require.Error(t, err)

	assert.Error(t, tool.Validate(map[string]interface{}{}))
	assert.NoError(t, tool.Validate(map[string]interface{}{"query": "x"}))
}
