package recipe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BlankText reports whether s has no visible content once rendered as
// HTML. Text that does not parse is treated as visible.
func BlankText(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	if !strings.ContainsAny(s, "<&") {
		return false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return false
	}
	doc.Find("script, style, noscript, template").Remove()
	return strings.TrimSpace(doc.Find("body").Text()) == "" && doc.Find("body img").Length() == 0
}
