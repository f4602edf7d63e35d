package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/williamhgates/", "williamhgates"},
		{"https://www.linkedin.com/in/jane-doe-12345", "jane_doe_12345"},
		{"https://example.com/", "example_com"},
		{"", "report"},
		{"///", "report"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slug(tc.url), "url %q", tc.url)
	}
}

func TestSave_WritesTimestampedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir)
	w.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	path, err := w.Save("# Conversation starters\n", "https://www.linkedin.com/in/williamhgates/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20260314_150926_report_williamhgates.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Conversation starters\n", string(data))
}

func TestSave_EmptyContentWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	w := NewWriter(dir)

	path, err := w.Save("   \n", "https://example.com/x")
	require.NoError(t, err)
	assert.Empty(t, path)

	// Directory must not have been created for an empty report
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
