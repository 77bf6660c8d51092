// Package sanitize turns HTML article bodies into plain text.
//
// Markup is removed with the x/net/html tokenizer. Text tokens are copied
// raw, so the tokenizer never unescapes anything: only the six entities in
// entityTable are decoded. Other entities (&eacute;, &#8217;, ...) are left
// as-is.
package sanitize

import (
	"strings"

	"golang.org/x/net/html"
)

// Ellipsis is appended to truncated previews.
const Ellipsis = "..."

// entityTable is applied in order, one pass per entity. Order matters:
// "&amp;lt;" decodes all the way to "<".
var entityTable = []struct {
	entity string
	text   string
}{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
}

// Text strips tags, decodes the supported entities, collapses runs of
// whitespace into a single space and trims the result. Contents of
// <script> and <style> elements are dropped.
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	return collapse(decode(stripTags(raw)))
}

// Preview sanitizes raw and cuts it to limit runes, appending Ellipsis
// when anything was cut.
func Preview(raw string, limit int) string {
	return Truncate(Text(raw), limit)
}

// Truncate cuts s to limit runes, appending Ellipsis when anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}

func stripTags(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	z := html.NewTokenizer(strings.NewReader(raw))
	skipping := ""
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF; the tokenizer never fails on a strings.Reader.
			return b.String()
		case html.TextToken:
			if skipping == "" {
				b.Write(z.Raw())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch tag := string(name); tag {
			case "script", "style":
				skipping = tag
			default:
				// <title>, <textarea>, <iframe>, <noscript>, <xmp> and
				// friends would otherwise hand back their inner markup as text.
				z.NextIsNotRawText()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == skipping {
				skipping = ""
			}
		}
	}
}

func decode(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	for _, e := range entityTable {
		s = strings.ReplaceAll(s, e.entity, e.text)
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
