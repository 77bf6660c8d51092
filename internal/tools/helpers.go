// Package tools implements the MCP tool surface of kbridge.
//
// Each tool is a struct holding its dependencies, with Definition()
// returning the mcp.Tool schema and Run() doing the work. The Dispatcher
// owns argument-error and failure handling so individual tools only return
// text or an error:
//   - one file per tool (list.go, fetch.go, search.go)
//   - tools depend on kb.Backend, not on a concrete API variant
//   - nothing below the Dispatcher builds an mcp.CallToolResult
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is one callable operation.
type Tool interface {
	// Definition returns the descriptor advertised on tools/list.
	Definition() mcp.Tool
	// Run executes the tool. Arguments have not been validated.
	Run(ctx context.Context, args map[string]any) (string, error)
}

// requiredString returns args[key] when it is present and a string. An
// empty string is a valid value.
func requiredString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("Missing required parameter: %s", key) //nolint:staticcheck // user-facing text
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("Invalid parameter: %s must be a string", key) //nolint:staticcheck // user-facing text
	}
	return s, nil
}
