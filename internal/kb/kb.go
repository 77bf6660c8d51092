// Package kb implements the three knowledge-base operations (list, fetch,
// search) for each supported backend variant and renders their results as
// Markdown-like text.
//
// Operations return display text on success. Empty listings and empty
// search results are not errors: they return an informational message
// naming the site. Every failure is wrapped with the operation name, e.g.
// "Failed to fetch article: API error: 500 Internal Server Error".
package kb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Variant identifies which backend API a Backend talks to.
type Variant string

const (
	// VariantGeneric is a plain REST API exposing /articles.
	VariantGeneric Variant = "generic"
	// VariantZendesk is the Zendesk Help Center API.
	VariantZendesk Variant = "zendesk"
)

// Preview lengths, in runes.
const (
	summaryPreviewLen       = 200
	genericSearchPreviewLen = 300
	zendeskSearchPreviewLen = 200
)

// ErrNotFound is wrapped by Fetch when the backend has no matching article.
var ErrNotFound = errors.New("not found")

// Backend is implemented by each API variant.
type Backend interface {
	// Variant reports which API this backend talks to.
	Variant() Variant
	// SiteName is the display name used in headings and messages.
	SiteName() string
	// List renders the top-level listing: articles for the generic API,
	// categories with their sections for Zendesk.
	List(ctx context.Context) (string, error)
	// Fetch renders one article in full.
	Fetch(ctx context.Context, id string) (string, error)
	// Search renders the articles matching query.
	Search(ctx context.Context, query string) (string, error)
}

// Getter is the slice of kbclient.Client the backends depend on.
type Getter interface {
	Get(ctx context.Context, endpoint string, v any) error
}

func articleNotFound(id string) error {
	return fmt.Errorf("Article %w: %s", ErrNotFound, id) //nolint:staticcheck // user-facing text
}

func failed(op string, err error) error {
	return fmt.Errorf("Failed to %s: %w", op, err) //nolint:staticcheck // user-facing text
}

// queryEscape escapes a query-string value with spaces as %20, not "+".
// Not every backend reads "+" as a space.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
