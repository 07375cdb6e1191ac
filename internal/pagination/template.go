package pagination

import (
	"net/url"
	"strconv"
)

// Template generates the url_template page sequence: baseURL with
// pageParam substituted for each integer in [pageStart, pageEnd]
// inclusive, in order. Other query parameters are preserved. An inverted
// range generates nothing. The strategy never inspects page content.
func Template(baseURL, pageParam string, pageStart, pageEnd int) []string {
	if pageEnd < pageStart {
		return nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	urls := make([]string, 0, pageEnd-pageStart+1)
	for page := pageStart; page <= pageEnd; page++ {
		values := parsed.Query()
		values.Set(pageParam, strconv.Itoa(page))

		u := *parsed
		u.RawQuery = values.Encode()
		urls = append(urls, u.String())
	}
	return urls
}
