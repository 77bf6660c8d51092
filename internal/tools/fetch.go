package tools

import (
	"context"

	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/mark3labs/mcp-go/mcp"
)

// FetchTool handles the fetch_article MCP tool. The generic API looks
// articles up by slug, Zendesk by numeric id.
type FetchTool struct {
	backend kb.Backend
}

// NewFetchTool creates a FetchTool.
func NewFetchTool(backend kb.Backend) *FetchTool {
	return &FetchTool{backend: backend}
}

// Param is the name of the identifier argument.
func (t *FetchTool) Param() string {
	if t.backend.Variant() == kb.VariantZendesk {
		return "article_id"
	}
	return "article_slug"
}

// Definition returns the MCP tool definition for registration.
func (t *FetchTool) Definition() mcp.Tool {
	site := t.backend.SiteName()

	paramDesc := "The article slug (e.g., '9175641395215-Settings' - can be found in the article URL or from search results)"
	if t.backend.Variant() == kb.VariantZendesk {
		paramDesc = "The numeric article ID (e.g., '360001234567' - shown in search results and article URLs)"
	}

	return mcp.NewTool("fetch_article",
		mcp.WithDescription(
			"Fetch and return the full content of a specific article from "+site+". "+
				"Use this to get the complete, up-to-date content of an article.",
		),
		mcp.WithString(t.Param(),
			mcp.Required(),
			mcp.Description(paramDesc),
		),
	)
}

// Run fetches one article.
func (t *FetchTool) Run(ctx context.Context, args map[string]any) (string, error) {
	id, err := requiredString(args, t.Param())
	if err != nil {
		return "", err
	}
	return t.backend.Fetch(ctx, id)
}
