package utils

import (
	"regexp"
	"strings"
)

var (
	brTagRe     = regexp.MustCompile(`(?i)<br\s*/?>`)
	closePTagRe = regexp.MustCompile(`(?i)</p>`)
	openPTagRe  = regexp.MustCompile(`(?i)<p[^>]*>`)
	anchorRe    = regexp.MustCompile(`<a[^>]*>([^<]+)</a>`)
	anyTagRe    = regexp.MustCompile(`<[^>]*>`)
	blankRunRe  = regexp.MustCompile(`\n\s*\n`)
)

// entityReplacer decodes the five standard HTML entities plus &nbsp;.
// &amp; must come last so decoded ampersands are not re-interpreted.
var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

// SanitizeHTML converts HTML-bearing upstream text into plain display
// text: block separators become newlines, links collapse to their
// label, every remaining tag is stripped, common entities are decoded
// and the result is trimmed. Empty input yields an empty string.
func SanitizeHTML(raw string) string {
	if raw == "" {
		return ""
	}

	s := brTagRe.ReplaceAllString(raw, "\n")
	s = closePTagRe.ReplaceAllString(s, "\n")
	s = openPTagRe.ReplaceAllString(s, "\n")
	s = anchorRe.ReplaceAllString(s, "$1")
	s = anyTagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
