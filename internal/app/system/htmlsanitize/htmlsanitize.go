// Package htmlsanitize strips markup from user-supplied text fields.
package htmlsanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// markup matches a complete tag or comment. Attribute values may be quoted
// or bare; a "<" that does not open such a tag is ordinary text.
var markup = regexp.MustCompile(`(?s)<!--.*?-->|</?[A-Za-z][A-Za-z0-9-]*(?:\s+[A-Za-z_:][-A-Za-z0-9_:.]*(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>=` + "`" + `]+))?)*\s*/?>`)

// PlainText removes every HTML element from s and returns the remaining text,
// trimmed. Entities are decoded so "A &amp; B" is stored as "A & B". A "<"
// outside a tag, as in "a<b", is kept.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(escapeStray(s))))
}

// escapeStray encodes each "<" that is not the start of a tag so the
// sanitizer cannot read it as one.
func escapeStray(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	last := 0
	for _, loc := range markup.FindAllStringIndex(s, -1) {
		b.WriteString(strings.ReplaceAll(s[last:loc[0]], "<", "&lt;"))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(strings.ReplaceAll(s[last:], "<", "&lt;"))
	return b.String()
}

// PlainTextAll applies PlainText to each entry, preserving order. Entries
// that become empty are kept; callers decide whether blanks matter.
func PlainTextAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = PlainText(s)
	}
	return out
}
