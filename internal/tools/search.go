package tools

import (
	"context"

	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool handles the search_content MCP tool.
type SearchTool struct {
	backend kb.Backend
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(backend kb.Backend) *SearchTool {
	return &SearchTool{backend: backend}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_content",
		mcp.WithDescription(
			"Search for articles in "+t.backend.SiteName()+". "+
				"Returns matching articles with previews and identifiers.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query or topic to look for"),
		),
	)
}

// Run searches the knowledge base. An empty query is passed through.
func (t *SearchTool) Run(ctx context.Context, args map[string]any) (string, error) {
	query, err := requiredString(args, "query")
	if err != nil {
		return "", err
	}
	return t.backend.Search(ctx, query)
}
