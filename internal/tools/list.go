package tools

import (
	"context"

	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles list_articles (generic API) or list_categories (Zendesk).
type ListTool struct {
	backend kb.Backend
}

// NewListTool creates a ListTool.
func NewListTool(backend kb.Backend) *ListTool {
	return &ListTool{backend: backend}
}

// Name is list_categories for Zendesk and list_articles otherwise.
func (t *ListTool) Name() string {
	if t.backend.Variant() == kb.VariantZendesk {
		return "list_categories"
	}
	return "list_articles"
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	site := t.backend.SiteName()
	if t.backend.Variant() == kb.VariantZendesk {
		return mcp.NewTool(t.Name(),
			mcp.WithDescription(
				"List all Help Center categories in "+site+", with the sections inside each one. "+
					"Use this to discover how the help content is organised.",
			),
		)
	}
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(
			"List all available articles in "+site+". "+
				"Use this to discover what help articles are available.",
		),
	)
}

// Run takes no arguments.
func (t *ListTool) Run(ctx context.Context, _ map[string]any) (string, error) {
	return t.backend.List(ctx)
}
