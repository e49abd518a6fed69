// Package goquery provides the goquery-based implementation of
// sitezip.Extractor: visible-text extraction, whitelisted metadata and
// outgoing-link discovery over one page's rendered markup.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sitezip/sitezip"
)

// Ensure Extractor implements sitezip.Extractor at compile time.
var _ sitezip.Extractor = (*Extractor)(nil)

// noTitle is the placeholder title for pages without a <title> element.
const noTitle = "(No title)"

// removeSelector matches non-content subtrees: scripts, styles, interactive
// controls and embedded media. Removal is a deny-list, not a main-content
// heuristic: the goal is to keep everything a human would see, at the cost
// of retaining nav/footer chrome.
const removeSelector = "script, style, noscript, template, " +
	"button, input, select, textarea, form, " +
	"svg, canvas, iframe, picture, source, video, audio, track, map, area, object, embed"

// hiddenSelector matches elements hidden by attribute.
const hiddenSelector = "[hidden], [aria-hidden='true']"

// metaWhitelist lists the meta names/properties retained as metadata.
var metaWhitelist = map[string]struct{}{
	"description":         {},
	"og:title":            {},
	"og:description":      {},
	"twitter:title":       {},
	"twitter:description": {},
}

// Extractor turns raw rendered markup into clean visible text.
// The zero value is ready to use and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes one page's markup. It never fails: markup that cannot be
// parsed yields a whitespace-collapsed best-effort result with Degraded set.
func (e *Extractor) Extract(markup, pageURL string) *sitezip.ExtractResult {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return &sitezip.ExtractResult{
			Title:    noTitle,
			Text:     strings.Join(strings.Fields(markup), " "),
			Degraded: true,
		}
	}
	doc := goquery.NewDocumentFromNode(root)

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = noTitle
	}
	meta := extractMeta(doc)

	doc.Find(removeSelector).Remove()
	doc.Find(hiddenSelector).Remove()
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if isHiddenStyle(style) {
			sel.Remove()
		}
	})

	return &sitezip.ExtractResult{
		Title: title,
		Text:  normalizeText(doc.Find("body").Text()),
		Meta:  meta,
	}
}

// extractMeta collects whitelisted meta entries as "name: content" lines.
// Empty content values are omitted.
func extractMeta(doc *goquery.Document) []string {
	var meta []string
	doc.Find("meta[content]").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			name, _ = sel.Attr("property")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := metaWhitelist[name]; !ok {
			return
		}
		content, _ := sel.Attr("content")
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}
		meta = append(meta, name+": "+content)
	})
	return meta
}

// isHiddenStyle reports whether an inline style hides the element.
func isHiddenStyle(style string) bool {
	style = strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return strings.Contains(style, "display:none") ||
		strings.Contains(style, "visibility:hidden")
}

var (
	horizontalWS = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// noiseTokens mark lines that look like leftover stylesheets or scripts.
var noiseTokens = []string{":hover", ":root", "@media", "function(", "var "}

// normalizeText collapses whitespace and filters extraction leakage: runs of
// horizontal whitespace become one space, lines are trimmed, runs of blank
// lines collapse to a single blank line, and lines that look like CSS or JS
// dumps are dropped. The noise filter is a safety net, not the primary
// cleaning mechanism.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = horizontalWS.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && isNoiseLine(line) {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.Join(kept, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// isNoiseLine reports whether a line is likely stylesheet or script leakage:
// very long lines carrying CSS/JS tokens, or lines dense in braces and
// semicolons.
func isNoiseLine(line string) bool {
	if len(line) > 300 {
		for _, tok := range noiseTokens {
			if strings.Contains(line, tok) {
				return true
			}
		}
	}
	return strings.Count(line, "{")+strings.Count(line, "}")+strings.Count(line, ";") > 4
}
