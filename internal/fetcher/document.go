package fetcher

import (
	"bytes"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/list-crawler/pkg/urlutil"
)

// Document is the unit the crawl engine consumes: a parsed HTML page
// exposing CSS-selector querying plus the base URL relative links
// resolve against. The engine never sees raw networking.
type Document struct {
	doc  *goquery.Document
	base *url.URL
	body []byte
}

// NewDocument wraps an already-parsed page. pageURL is the URL the page
// was fetched from; a <base href> element inside the document overrides
// it for link resolution, matching browser behavior.
func NewDocument(doc *goquery.Document, pageURL *url.URL, body []byte) Document {
	base := pageURL
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved, err := urlutil.Resolve(pageURL, href); err == nil {
			base = resolved
		}
	}
	return Document{
		doc:  doc,
		base: base,
		body: body,
	}
}

// ParseDocument builds a Document from raw HTML.
func ParseDocument(body []byte, pageURL *url.URL) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Document{}, err
	}
	return NewDocument(doc, pageURL, body), nil
}

// Find returns the elements matching the CSS selector, in document order.
func (d Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// BaseURL is the URL relative hrefs resolve against.
func (d Document) BaseURL() *url.URL {
	return d.base
}

// Body is the raw HTML the document was parsed from.
func (d Document) Body() []byte {
	return d.body
}
