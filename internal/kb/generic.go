package kb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/HendryAvila/kbridge/internal/kbclient"
	"github.com/HendryAvila/kbridge/internal/sanitize"
)

// Generic talks to a plain REST knowledge base:
//
//	GET /articles
//	GET /articles/{slug}
//	GET /articles?q={query}
//
// Responses wrap records in a {"data": ...} envelope.
type Generic struct {
	client   Getter
	baseURL  string
	siteName string
}

// NewGeneric creates a Generic backend. baseURL is used to build the
// canonical article links shown to the user.
func NewGeneric(client Getter, baseURL, siteName string) *Generic {
	return &Generic{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		siteName: siteName,
	}
}

// Variant implements Backend.
func (g *Generic) Variant() Variant { return VariantGeneric }

// SiteName implements Backend.
func (g *Generic) SiteName() string { return g.siteName }

// List renders every article the API returns.
func (g *Generic) List(ctx context.Context) (string, error) {
	var resp articleList
	if err := g.client.Get(ctx, "/articles", &resp); err != nil {
		return "", failed("list articles", err)
	}

	if len(resp.Data) == 0 {
		return fmt.Sprintf("No articles found in the %s.", g.siteName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Available Articles\n\n", g.siteName)
	fmt.Fprintf(&b, "Found %d article(s):\n\n", len(resp.Data))

	for _, a := range resp.Data {
		fmt.Fprintf(&b, "## %s\n", a.Title)
		fmt.Fprintf(&b, "Slug: %s\n", a.Slug)
		if summary := sanitize.Preview(a.Summary, summaryPreviewLen); summary != "" {
			fmt.Fprintf(&b, "Summary: %s\n", summary)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// Fetch renders the article identified by slug.
func (g *Generic) Fetch(ctx context.Context, slug string) (string, error) {
	var raw json.RawMessage
	if err := g.client.Get(ctx, "/articles/"+url.PathEscape(slug), &raw); err != nil {
		return "", failed("fetch article", err)
	}

	article, ok, err := parseSingleArticle(raw)
	if err != nil {
		return "", failed("fetch article", &kbclient.DecodeError{Endpoint: "/articles/" + slug, Err: err})
	}
	if !ok {
		return "", failed("fetch article", articleNotFound(slug))
	}

	if article.Slug == "" {
		article.Slug = slug
	}

	return fmt.Sprintf("# %s\n\nArticle ID: %s\nSlug: %s\nURL: %s\n\n%s",
		article.Title,
		article.ID,
		article.Slug,
		g.articleURL(article.Slug),
		sanitize.Text(article.Body),
	), nil
}

// Search renders the articles matching query.
func (g *Generic) Search(ctx context.Context, query string) (string, error) {
	endpoint := "/articles?q=" + queryEscape(query)

	var resp articleList
	if err := g.client.Get(ctx, endpoint, &resp); err != nil {
		return "", failed("search articles", err)
	}

	if len(resp.Data) == 0 {
		return fmt.Sprintf("No articles found for \"%s\" in %s.", query, g.siteName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results for \"%s\"\n\n", query)
	fmt.Fprintf(&b, "Found %d article(s) in %s:\n\n", len(resp.Data), g.siteName)

	for _, a := range resp.Data {
		fmt.Fprintf(&b, "## %s\n", a.Title)
		fmt.Fprintf(&b, "Slug: %s\n", a.Slug)
		fmt.Fprintf(&b, "URL: %s\n", g.articleURL(a.Slug))
		if preview := sanitize.Preview(a.Summary, genericSearchPreviewLen); preview != "" {
			fmt.Fprintf(&b, "Preview: %s\n", preview)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (g *Generic) articleURL(slug string) string {
	return g.baseURL + "/articles/" + slug
}
