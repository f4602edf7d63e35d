package tools

import (
	"context"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"
)

// Tool is the interface every crew tool implements. The shapes match the
// mcp-go model types so a Tool can be wrapped into a dspy-go tool registry
// without conversion. Call returns soft failures inside the result (IsError
// set, message in the content) so the calling agent can read and react to
// them; a non-nil error means the call itself was malformed.
type Tool interface {
	Name() string
	Description() string
	InputSchema() models.InputSchema
	Call(ctx context.Context, args map[string]interface{}) (*models.CallToolResult, error)
	Validate(args map[string]interface{}) error
}
