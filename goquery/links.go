package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitezip/sitezip"
)

// deniedExtensions lists binary and media file extensions that are never
// followed during a crawl.
var deniedExtensions = map[string]struct{}{
	".7z": {}, ".zip": {}, ".rar": {}, ".pdf": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".svg": {},
	".webp": {}, ".avif": {},
	".mp4": {}, ".mp3": {}, ".avi": {}, ".mov": {}, ".wmv": {}, ".mkv": {},
	".iso": {},
}

// ExtractLinks returns the page's outgoing same-site links in document order.
// Anchor hrefs are resolved against pageURL, non-HTTP schemes and denied
// extensions are skipped, and the survivors are canonicalized, scope-filtered
// and deduplicated.
func (e *Extractor) ExtractLinks(markup, pageURL string, scope sitezip.ScopeSet) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if hasDeniedExtension(resolved) {
			return
		}

		canonical := sitezip.Canonicalize(resolved)
		if !scope.InScope(canonical) {
			return
		}
		if _, ok := seen[canonical]; ok {
			return
		}
		seen[canonical] = struct{}{}
		links = append(links, canonical)
	})

	return links
}

// resolveURL resolves a relative href against the page URL with the fragment
// stripped. Self-referential links (anchors back to the same page) resolve
// to empty.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return ""
	}
	return resolved.String()
}

// hasDeniedExtension reports whether the URL path ends in a binary or media
// file extension.
func hasDeniedExtension(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	_, denied := deniedExtensions[ext]
	return denied
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
