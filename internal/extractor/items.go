package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/list-crawler/internal/fetcher"
	"github.com/rohmanhakim/list-crawler/pkg/urlutil"
)

/*
Pure extraction over an already-fetched document. No I/O, no state.

Contract:
  - One item per scope container at most: the first usable link inside
    the container wins, containers without one are skipped.
  - Result order follows document order of the containers.
  - Zero containers is a valid empty result, not an error.
*/

// ExtractItems walks every element matched by scopeCSS and takes the
// first element inside it matched by linkCSS that carries a usable href.
// Hrefs resolve against the document's base URL.
func ExtractItems(doc fetcher.Document, scopeCSS, linkCSS string) []ItemLink {
	var items []ItemLink

	doc.Find(scopeCSS).Each(func(_ int, scope *goquery.Selection) {
		link, href := firstUsableLink(scope, linkCSS)
		if link == nil {
			return
		}

		absolute, err := urlutil.Resolve(doc.BaseURL(), href)
		if err != nil {
			return
		}

		items = append(items, ItemLink{
			URL:  absolute.String(),
			Text: strings.TrimSpace(link.Text()),
		})
	})

	return items
}

// firstUsableLink returns the first linkCSS match under scope whose href
// points at a fetchable page, or nil when the container has none.
func firstUsableLink(scope *goquery.Selection, linkCSS string) (*goquery.Selection, string) {
	var found *goquery.Selection
	var foundHref string

	scope.Find(linkCSS).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || !urlutil.UsableHref(href) {
			return true
		}
		found = link
		foundHref = strings.TrimSpace(href)
		return false
	})

	return found, foundHref
}

// MatchCount reports how many elements match a CSS selector. Used for
// verbose selector diagnostics; it never alters extraction behavior.
func MatchCount(doc fetcher.Document, selector string) int {
	return doc.Find(selector).Length()
}
