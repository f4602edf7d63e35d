// Package report persists crew output as timestamped markdown files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var slugRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Writer saves reports under a fixed directory, creating it on demand.
type Writer struct {
	Dir string

	// now is swappable for tests.
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, now: time.Now}
}

// Slug derives a filename-safe tag from a profile URL: the last path
// segment with every non-alphanumeric run collapsed to an underscore.
func Slug(profileURL string) string {
	trimmed := strings.Trim(strings.TrimSpace(profileURL), "/")
	segment := trimmed
	if i := strings.LastIndex(trimmed, "/"); i != -1 {
		segment = trimmed[i+1:]
	}
	slug := strings.Trim(slugRe.ReplaceAllString(segment, "_"), "_")
	if slug == "" {
		return "report"
	}
	return slug
}

// Save writes the report and returns its path. Empty (or whitespace-only)
// content writes nothing and returns an empty path.
func (w *Writer) Save(content, profileURL string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("create reports dir %s: %w", w.Dir, err)
	}

	now := w.now
	if now == nil {
		now = time.Now
	}
	name := fmt.Sprintf("%s_report_%s.md", now().Format("20060102_150405"), Slug(profileURL))
	path := filepath.Join(w.Dir, name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	return path, nil
}
