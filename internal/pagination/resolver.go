package pagination

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/list-crawler/internal/fetcher"
	"github.com/rohmanhakim/list-crawler/internal/recipe"
	"github.com/rohmanhakim/list-crawler/pkg/urlutil"
)

/*
Strategy dispatch is a closed set over recipe.PaginationType; the recipe
loader already rejected unknown tags, so resolution never meets one.

Ordering rule: candidates are returned in document order and deduplicated
within the page only. Cross-run dedup belongs to the crawl loop's seen
store, applied before a candidate is fetched.
*/

// Resolver computes next-page candidates for one pagination strategy.
// A nil config means no pagination: every page is terminal.
type Resolver struct {
	cfg *recipe.Pagination
}

func NewResolver(cfg *recipe.Pagination) Resolver {
	return Resolver{cfg: cfg}
}

// Generative reports whether the full page sequence is known up front,
// without inspecting any fetched document. True for url_template and for
// recipes without pagination.
func (r Resolver) Generative() bool {
	return r.cfg == nil || r.cfg.Type == recipe.PaginationURLTemplate
}

// Seed expands a start URL into the sequence to visit. For url_template
// the start URL is the template base and is replaced by the generated
// sequence; an empty range degrades to visiting the start URL itself.
// Content-driven strategies seed only the start URL.
func (r Resolver) Seed(startURL string) []string {
	if r.cfg == nil || r.cfg.Type != recipe.PaginationURLTemplate {
		return []string{startURL}
	}

	generated := Template(startURL, r.cfg.PageParam, r.cfg.PageStart, r.cfg.PageEnd)
	if len(generated) == 0 {
		return []string{startURL}
	}
	return generated
}

// Resolve inspects a fetched document per the configured content-driven
// strategy and returns the candidate page URLs. Generative strategies
// yield nothing here: their sequence was seeded at start.
func (r Resolver) Resolve(doc fetcher.Document) []string {
	if r.cfg == nil {
		return nil
	}

	switch r.cfg.Type {
	case recipe.PaginationNext:
		return r.resolveNext(doc)
	case recipe.PaginationAllLinks:
		return r.resolveAllLinks(doc)
	case recipe.PaginationURLTemplate:
		return nil
	default:
		return nil
	}
}

// resolveNext finds the single next-page link. No match means the chain
// is terminal.
func (r Resolver) resolveNext(doc fetcher.Document) []string {
	link := doc.Find(r.cfg.NextCSS).First()
	if link.Length() == 0 {
		return nil
	}

	href, ok := link.Attr("href")
	if !ok || !urlutil.UsableHref(href) {
		return nil
	}

	absolute, err := urlutil.Resolve(doc.BaseURL(), href)
	if err != nil {
		return nil
	}
	return []string{absolute.String()}
}

// resolveAllLinks collects every anchor inside the pagination container,
// in DOM order, deduplicated within the page. An absent container yields
// zero candidates and the chain is terminal after the current page.
func (r Resolver) resolveAllLinks(doc fetcher.Document) []string {
	container := doc.Find(r.cfg.PaginationScopeCSS).First()
	if container.Length() == 0 {
		return nil
	}

	var candidates []string
	seen := make(map[string]struct{})

	container.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || !urlutil.UsableHref(href) {
			return
		}

		absolute, err := urlutil.Resolve(doc.BaseURL(), href)
		if err != nil {
			return
		}

		candidate := absolute.String()
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		candidates = append(candidates, candidate)
	})

	return candidates
}
