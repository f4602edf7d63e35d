// Package tools implements the crew's callable tools. Each tool follows the
// contract the orchestration framework expects: a JSON-schema input
// description and a Call that reports failures in-band as result text, so no
// tool fault ever crashes the crew run.
package tools

import (
	"context"
	"fmt"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"

	"github.com/jdelaunay/icebreaker/internal/interests"
)

// AppendInterestTool appends a new bullet under "## Interests" in the user's
// interest ledger. Agents use it when the research subject has an expertise
// the user does not yet have and should pick up.
type AppendInterestTool struct {
	ledger interests.Ledger
}

func NewAppendInterestTool(ledger interests.Ledger) *AppendInterestTool {
	return &AppendInterestTool{ledger: ledger}
}

func (t *AppendInterestTool) Name() string { return "append_interest" }

func (t *AppendInterestTool) Description() string {
	return "Appends a new interest entry to the user's my_interests.md file. " +
		"Use only when the person researched has an expertise or area that the user does not yet have " +
		"and that would be valuable to add to the user's interests. " +
		"Pass a single concise line (e.g. 'Climate tech' or 'Product-led growth')."
}

func (t *AppendInterestTool) InputSchema() models.InputSchema {
	return models.InputSchema{
		Type: "object",
		Properties: map[string]models.ParameterSchema{
			"interest_line": {
				Type:        "string",
				Description: "One concise line describing a new interest or area to learn, e.g. 'Domain-driven design' or 'Climate tech investing'",
				Required:    true,
			},
		},
	}
}

// Call runs the append. File-system failures come back as a descriptive
// result with IsError set, never as a Go error, so the orchestrator can
// surface them to the model and carry on.
func (t *AppendInterestTool) Call(_ context.Context, args map[string]interface{}) (*models.CallToolResult, error) {
	line, ok := args["interest_line"].(string)
	if !ok {
		return nil, fmt.Errorf("interest_line parameter is required")
	}

	status, err := t.ledger.Append(line)
	if err != nil {
		return textResult(fmt.Sprintf("Failed to append to %s: %v", t.ledger.Path(), err), true), nil
	}
	return textResult(status, false), nil
}

func (t *AppendInterestTool) Validate(params map[string]interface{}) error {
	if _, ok := params["interest_line"]; !ok {
		return fmt.Errorf("missing required parameter: interest_line")
	}
	return nil
}

func textResult(text string, isErr bool) *models.CallToolResult {
	return &models.CallToolResult{
		Content: []models.Content{
			models.TextContent{Type: "text", Text: text},
		},
		IsError: isErr,
	}
}
