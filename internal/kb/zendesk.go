package kb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/HendryAvila/kbridge/internal/sanitize"
	"github.com/rs/zerolog"
)

// Zendesk talks to the Zendesk Help Center API. The client passed to
// NewZendesk must already carry the Basic credential and point at
// https://<subdomain>.zendesk.com/api/v2.
type Zendesk struct {
	client   Getter
	siteName string
	locale   string
	log      zerolog.Logger
}

// NewZendesk creates a Zendesk backend for the given locale (e.g. "en-us").
func NewZendesk(client Getter, siteName, locale string, log zerolog.Logger) *Zendesk {
	return &Zendesk{
		client:   client,
		siteName: siteName,
		locale:   locale,
		log:      log,
	}
}

// Variant implements Backend.
func (z *Zendesk) Variant() Variant { return VariantZendesk }

// SiteName implements Backend.
func (z *Zendesk) SiteName() string { return z.siteName }

// List renders every category with its sections.
//
// Sections are best-effort enrichment: a category whose sections request
// fails is still listed, just without a section list. Section requests are
// issued one after another.
func (z *Zendesk) List(ctx context.Context) (string, error) {
	var resp zendeskCategories
	endpoint := fmt.Sprintf("/help_center/%s/categories.json", url.PathEscape(z.locale))
	if err := z.client.Get(ctx, endpoint, &resp); err != nil {
		return "", failed("list categories", err)
	}

	if len(resp.Categories) == 0 {
		return fmt.Sprintf("No categories found in the %s.", z.siteName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Help Center Categories\n\n", z.siteName)
	fmt.Fprintf(&b, "Found %d category(ies):\n\n", len(resp.Categories))

	for _, c := range resp.Categories {
		fmt.Fprintf(&b, "## %s\n", c.Name)
		fmt.Fprintf(&b, "Category ID: %s\n", c.ID)
		if desc := sanitize.Preview(c.Description, summaryPreviewLen); desc != "" {
			fmt.Fprintf(&b, "Description: %s\n", desc)
		}
		if c.HTMLURL != "" {
			fmt.Fprintf(&b, "URL: %s\n", c.HTMLURL)
		}

		sections := z.sections(ctx, c.ID)
		if len(sections) > 0 {
			b.WriteString("Sections:\n")
			for _, s := range sections {
				fmt.Fprintf(&b, "- %s (Section ID: %s)\n", s.Name, s.ID)
			}
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// sections returns the sections of one category, or nil if they could not
// be fetched.
func (z *Zendesk) sections(ctx context.Context, categoryID ID) []Section {
	var resp zendeskSections
	endpoint := fmt.Sprintf("/help_center/%s/categories/%s/sections.json",
		url.PathEscape(z.locale), url.PathEscape(string(categoryID)))
	if err := z.client.Get(ctx, endpoint, &resp); err != nil {
		z.log.Warn().Err(err).Str("category_id", string(categoryID)).Msg("skipping sections")
		return nil
	}
	return resp.Sections
}

// Fetch renders the article with the given numeric id.
func (z *Zendesk) Fetch(ctx context.Context, id string) (string, error) {
	var resp zendeskArticle
	endpoint := fmt.Sprintf("/help_center/%s/articles/%s.json", url.PathEscape(z.locale), url.PathEscape(id))
	if err := z.client.Get(ctx, endpoint, &resp); err != nil {
		return "", failed("fetch article", err)
	}

	if resp.Article == nil || resp.Article.Title == "" {
		return "", failed("fetch article", articleNotFound(id))
	}
	a := resp.Article

	articleID := a.ID
	if articleID == "" {
		articleID = ID(id)
	}

	return fmt.Sprintf("# %s\n\nArticle ID: %s\nURL: %s\n\n%s",
		a.Title,
		articleID,
		a.HTMLURL,
		sanitize.Text(a.Body),
	), nil
}

// Search renders the articles matching query in the configured locale.
func (z *Zendesk) Search(ctx context.Context, query string) (string, error) {
	endpoint := "/help_center/articles/search.json?query=" + queryEscape(query) + "&locale=" + queryEscape(z.locale)

	var resp zendeskSearch
	if err := z.client.Get(ctx, endpoint, &resp); err != nil {
		return "", failed("search articles", err)
	}

	if len(resp.Results) == 0 {
		return fmt.Sprintf("No articles found for \"%s\" in %s.", query, z.siteName), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results for \"%s\"\n\n", query)
	if resp.Count > len(resp.Results) {
		fmt.Fprintf(&b, "Found %d article(s) in %s, showing the first %d:\n\n", resp.Count, z.siteName, len(resp.Results))
	} else {
		fmt.Fprintf(&b, "Found %d article(s) in %s:\n\n", len(resp.Results), z.siteName)
	}

	for _, a := range resp.Results {
		fmt.Fprintf(&b, "## %s\n", a.Title)
		fmt.Fprintf(&b, "Article ID: %s\n", a.ID)
		fmt.Fprintf(&b, "URL: %s\n", a.HTMLURL)

		source := a.Body
		if source == "" {
			source = a.Snippet
		}
		if preview := sanitize.Preview(source, zendeskSearchPreviewLen); preview != "" {
			fmt.Fprintf(&b, "Preview: %s\n", preview)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
