package sitezip

// ExtractResult holds the readable content of one rendered page.
type ExtractResult struct {
	// Title is the first <title> text, or "(No title)" if absent.
	Title string

	// Text is the normalized human-visible text of the page.
	Text string

	// Meta holds whitelisted metadata entries as "name: content" lines
	// (description and the Open Graph / Twitter title and description
	// variants). Unlisted meta elements are discarded.
	Meta []string

	// Degraded is true when the markup could not be parsed and Text is a
	// whitespace-collapsed best-effort fallback instead of clean text.
	Degraded bool
}

// Extractor turns raw rendered markup into clean visible text.
//
// Extraction is a deny-list strategy, not a main-content heuristic: it keeps
// everything a human would see (including nav and footer chrome) and removes
// scripts, styles, interactive controls, embedded media and hidden elements.
type Extractor interface {
	// Extract processes one page's markup. It never fails: internal errors
	// yield a best-effort result with Degraded set.
	Extract(markup, pageURL string) *ExtractResult

	// ExtractLinks returns the page's outgoing same-site links, resolved
	// against pageURL, canonicalized and deduplicated, in document order.
	// Links to binary and media files are denied by extension.
	ExtractLinks(markup, pageURL string, scope ScopeSet) []string
}
