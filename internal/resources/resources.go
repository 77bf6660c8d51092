// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (kbridge://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/kbridge/internal/journal"
	"github.com/mark3labs/mcp-go/mcp"
)

// RecentURI addresses the recent-lookups resource.
const RecentURI = "kbridge://journal/recent"

// recentLimit is how many entries the resource returns.
const recentLimit = 20

// JournalReader is the read side of the invocation journal.
type JournalReader interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
	Counts(ctx context.Context) ([]journal.ToolCount, error)
}

// Handler manages journal resource endpoints.
type Handler struct {
	journal JournalReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(j JournalReader) *Handler {
	return &Handler{journal: j}
}

// RecentResource returns the MCP resource definition for recent lookups.
func (h *Handler) RecentResource() mcp.Resource {
	return mcp.NewResource(
		RecentURI,
		"Recent knowledge-base lookups",
		mcp.WithResourceDescription("The most recent tool calls with their outcome, plus per-tool totals"),
		mcp.WithMIMEType("application/json"),
	)
}

type recentPayload struct {
	Totals  []journal.ToolCount `json:"totals"`
	Entries []journal.Entry     `json:"entries"`
}

// HandleRecent returns recent journal entries as JSON.
func (h *Handler) HandleRecent(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.journal.Recent(ctx, recentLimit)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	counts, err := h.journal.Counts(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	payload := recentPayload{Totals: counts, Entries: entries}
	if payload.Totals == nil {
		payload.Totals = []journal.ToolCount{}
	}
	if payload.Entries == nil {
		payload.Entries = []journal.Entry{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling journal: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
