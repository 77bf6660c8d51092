package kb

import (
	"bytes"
	"encoding/json"
)

// ID is a record identifier. Backends send ids as JSON numbers or strings;
// both decode to their textual form.
type ID string

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Article is a knowledge-base content record. Generic API records carry
// Slug and Summary; Zendesk records carry HTMLURL and, in search results,
// Snippet.
type Article struct {
	ID      ID     `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Slug    string `json:"slug"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	Snippet string `json:"snippet"`
}

// Category is a Zendesk Help Center category.
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
}

// Section is a Zendesk Help Center section, owned by one category.
type Section struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	CategoryID  ID     `json:"category_id"`
}

// articleList is the generic API's collection envelope.
type articleList struct {
	Data []Article `json:"data"`
}

// singleArticle is the generic API's lookup envelope. Data may hold an
// array or an object, or be absent when the article is returned bare.
type singleArticle struct {
	Data json.RawMessage `json:"data"`
}

// parseSingleArticle extracts one article from a generic lookup response.
// ok is false when the response holds no article.
func parseSingleArticle(raw json.RawMessage) (a Article, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Article{}, false, nil
	}
	if raw[0] == '[' {
		return firstArticle(raw)
	}

	var env singleArticle
	if err := json.Unmarshal(raw, &env); err != nil {
		return Article{}, false, err
	}

	data := bytes.TrimSpace(env.Data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		err = json.Unmarshal(raw, &a)
	case data[0] == '[':
		return firstArticle(data)
	default:
		err = json.Unmarshal(data, &a)
	}
	if err != nil {
		return Article{}, false, err
	}
	return a, a.Title != "", nil
}

// firstArticle decodes a JSON array of articles and returns the first.
// Multiple matches for one slug are not an error: the first one wins.
func firstArticle(raw []byte) (Article, bool, error) {
	var list []Article
	if err := json.Unmarshal(raw, &list); err != nil {
		return Article{}, false, err
	}
	if len(list) == 0 {
		return Article{}, false, nil
	}
	return list[0], list[0].Title != "", nil
}

type zendeskCategories struct {
	Categories []Category `json:"categories"`
}

type zendeskSections struct {
	Sections []Section `json:"sections"`
}

type zendeskArticle struct {
	Article *Article `json:"article"`
}

type zendeskSearch struct {
	Results []Article `json:"results"`
	Count   int       `json:"count"`
}
