package urlutil

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that carry campaign/click identity
// only. They are removed during canonicalization so the same page reached
// through different marketing links deduplicates to one URL.
//
//nolint:gochecknoglobals // static lookup table
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"fbclid":       {},
	"gclid":        {},
	"msclkid":      {},
	"mc_cid":       {},
	"mc_eid":       {},
	"_ga":          {},
	"_gl":          {},
	"ref":          {},
	"source":       {},
}

// Canonicalize maps equivalent URL spellings to a single canonical string.
//
// Rules:
//   - Scheme and host are lowercased
//   - Default ports are omitted (:80 for http, :443 for https)
//   - The fragment is removed
//   - Known tracking query parameters are removed; all other query
//     parameters are preserved (pagination often lives in the query)
//   - Trailing slashes are removed, except for the root path "/"
//
// Properties:
//   - Pure and deterministic
//   - Idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s)
//
// Input that does not parse as a URL is returned unchanged.
func Canonicalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = lowerASCII(u.Scheme)
	u.Host = lowerASCII(u.Host)

	if host, port := u.Hostname(), u.Port(); port != "" {
		if (u.Scheme == "http" && port == "80") ||
			(u.Scheme == "https" && port == "443") {
			u.Host = host
		}
	}

	if len(u.Path) > 1 {
		u.Path = stripTrailingSlash(u.Path)
		u.RawPath = ""
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		u.RawQuery = stripTrackingParams(u.RawQuery)
		if u.RawQuery == "" {
			u.ForceQuery = false
		}
	}

	return u.String()
}

// Resolve turns href into an absolute URL against base.
// An already-absolute href is returned unchanged apart from parsing,
// so resolution is idempotent.
func Resolve(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}

// UsableHref reports whether href points at a fetchable page.
// Empty hrefs, bare fragments, and javascript:/mailto: pseudo-links
// are navigation chrome, not targets.
func UsableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return false
	}
	switch {
	case strings.HasPrefix(href, "#"),
		strings.HasPrefix(href, "javascript:"),
		strings.HasPrefix(href, "mailto:"):
		return false
	}
	return true
}

func stripTrackingParams(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	for key := range values {
		if _, tracking := trackingParams[key]; tracking {
			values.Del(key)
		}
	}
	return values.Encode()
}

// lowerASCII converts ASCII characters to lowercase without allocating
// when the input is already lowercase.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
