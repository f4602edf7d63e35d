package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Jane Doe - Engineering Leader</title></head>
<body>
<nav>Home | About | Contact</nav>
<article>
<h1>Jane Doe</h1>
<p>Engineering leader focused on distributed systems and climate tech.
She has spent a decade building data platforms and mentoring teams,
and writes regularly about reliability culture and incident reviews.</p>
<p>Previously she led the storage group at a large infrastructure company,
where her team shipped a geo-replicated object store.</p>
</article>
</body>
</html>`

func TestReadProfileTool_ReturnsMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	tool := &ReadProfileTool{}
	res, err := tool.Call(context.Background(), map[string]interface{}{"url": srv.URL})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "**Source**: "+srv.URL)
	assert.Contains(t, out, "distributed systems and climate tech")
}

func TestReadProfileTool_HTTPErrorIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	tool := &ReadProfileTool{}
	res, err := tool.Call(context.Background(), map[string]interface{}{"url": srv.URL})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "HTTP 403")
}

func TestReadProfileTool_TruncatesLongPages(t *testing.T) {
	long := strings.Repeat("<p>filler sentence about a very long biography page. </p>\n", 600)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html><head><title>Long</title></head><body><article>%s</article></body></html>", long)
	}))
	defer srv.Close()

	tool := &ReadProfileTool{}
	res, err := tool.Call(context.Background(), map[string]interface{}{"url": srv.URL})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultText(t, res)
	assert.Contains(t, out, "[... truncated]")
	assert.LessOrEqual(t, len(out), maxProfileChars+100)
}

func TestReadProfileTool_MissingURL(t *testing.T) {
	tool := &ReadProfileTool{}
	_, err := tool.Call(context.Background(), map[string]interface{}{})
	require.Error(t, err)
}
