// Package interests maintains the user's interest ledger: a markdown file
// with a "## Interests" section holding one bullet line per interest.
package interests

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker introduces the target section. The match is exact; only the first
// occurrence is treated as canonical.
const Marker = "## Interests"

// Ledger appends entries to a single interest document. It is stateless
// between calls and safe to copy. It is NOT safe for concurrent callers:
// Append is a whole-file read-modify-write without locking, so two
// concurrent appends can lose one update. Callers needing atomicity must
// serialize externally.
type Ledger struct {
	path string
}

// NewLedger returns a Ledger writing to the given file path.
func NewLedger(path string) Ledger {
	return Ledger{path: path}
}

// Path returns the document location.
func (l Ledger) Path() string { return l.path }

// Append adds one interest as a bullet under the "## Interests" section,
// creating the file, its parent directories, and the section as needed.
// Everything outside the target section is left untouched. Entries are never
// deduplicated or reordered.
//
// The returned string is a human-readable status. Empty or whitespace-only
// input is a no-op, not an error.
func (l Ledger) Append(text string) (string, error) {
	entry := strings.TrimSpace(text)
	if entry == "" {
		return "No content to append.", nil
	}

	content := ""
	data, err := os.ReadFile(l.path)
	if err == nil {
		content = string(data)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read %s: %w", l.path, err)
	}

	newLine := "- " + entry + "\n"

	idx := strings.Index(content, Marker)
	if idx == -1 {
		content += "\n" + Marker + "\n" + newLine
	} else {
		// Insert at the end of the section: just before the next top-level
		// heading, or at EOF when none follows the marker.
		lineEnd := strings.Index(content[idx:], "\n")
		pos := len(content)
		if lineEnd != -1 {
			if next := strings.Index(content[idx+lineEnd:], "\n## "); next != -1 {
				pos = idx + lineEnd + next + 1
			}
		}
		content = content[:pos] + newLine + content[pos:]
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(l.path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", l.path, err)
	}
	return "Appended interest: " + entry, nil
}

// Entries returns the bullet lines of the target section in document order,
// with the "- " prefix stripped. A missing file or missing section yields an
// empty slice.
func (l Ledger) Entries() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}

	content := string(data)
	idx := strings.Index(content, Marker)
	if idx == -1 {
		return nil, nil
	}
	section := content[idx:]
	if lineEnd := strings.Index(section, "\n"); lineEnd != -1 {
		section = section[lineEnd+1:]
	} else {
		return nil, nil
	}
	if strings.HasPrefix(section, "## ") {
		section = ""
	} else if next := strings.Index(section, "\n## "); next != -1 {
		section = section[:next]
	}

	var entries []string
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(line, "- ") {
			entries = append(entries, strings.TrimPrefix(line, "- "))
		}
	}
	return entries, nil
}
