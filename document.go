package sitezip

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxBlockLen is the longest body text a single rendered block may carry.
// Paragraphs beyond this are split so the rendering backend never sees a
// block it cannot lay out.
const MaxBlockLen = 1600

// BlockType identifies the kind of a rendered block.
type BlockType int

// Block types understood by the document rendering backend.
const (
	BlockHeading BlockType = iota
	BlockSubheading
	BlockParagraph
	BlockSpacer
)

// Block is one typed unit handed to the document rendering backend.
// The core never manipulates page geometry; it only emits blocks.
type Block struct {
	Type BlockType
	Text string
}

// Document is the single output artifact produced per visited (or failed)
// URL. Filename is deterministic from the canonical URL; rendering the same
// URL set twice yields the same names.
type Document struct {
	Filename string
	Blocks   []Block
}

// DocumentRenderer turns an ordered list of typed blocks into one formatted
// file at the destination path.
type DocumentRenderer interface {
	Render(doc *Document, path string) error
}

// BuildDocument builds the document for one page result. A result carrying a
// fetch error yields an error document instead, so every dispatched URL
// produces exactly one document, success or failure.
func BuildDocument(res *PageResult) *Document {
	if res.Err != nil {
		return buildErrorDocument(res.URL, res.Err)
	}

	title := res.Title
	if title == "" {
		title = "(No title)"
	}

	blocks := []Block{
		{Type: BlockHeading, Text: title},
		{Type: BlockSubheading, Text: res.URL},
		{Type: BlockSpacer},
	}

	for _, para := range Paragraphs(res.Text) {
		for _, piece := range SplitChunks(para, MaxBlockLen) {
			blocks = append(blocks, Block{Type: BlockParagraph, Text: piece})
		}
	}

	return &Document{
		Filename: Filename(res.URL),
		Blocks:   blocks,
	}
}

// buildErrorDocument builds the document emitted for a URL whose fetch
// failed after all retries.
func buildErrorDocument(url string, err error) *Document {
	return &Document{
		Filename: Filename(url),
		Blocks: []Block{
			{Type: BlockHeading, Text: "(Fetch error)"},
			{Type: BlockSubheading, Text: url},
			{Type: BlockSpacer},
			{Type: BlockParagraph, Text: fmt.Sprintf("Failed to fetch %s", url)},
			{Type: BlockParagraph, Text: err.Error()},
		},
	}
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// Paragraphs splits body text on blank-line boundaries, dropping empty
// paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, para := range blankLineRe.Split(strings.TrimSpace(text), -1) {
		para = strings.TrimSpace(para)
		if para != "" {
			out = append(out, para)
		}
	}
	return out
}

// SplitChunks splits a paragraph into pieces no longer than size bytes,
// cutting at the last space before the limit. Each soft cut consumes
// the space it split on; when a window contains no space the cut is hard, so
// a pathological space-free paragraph still terminates. No text is lost:
// rejoining the pieces (re-inserting one space per soft cut) reconstructs
// the paragraph.
func SplitChunks(para string, size int) []string {
	if size <= 0 || len(para) <= size {
		return []string{para}
	}

	var pieces []string
	for len(para) > size {
		window := para[:size]
		cut := strings.LastIndex(window, " ")
		if cut <= 0 {
			pieces = append(pieces, window)
			para = para[size:]
			continue
		}
		pieces = append(pieces, para[:cut])
		para = para[cut+1:]
	}
	if para != "" {
		pieces = append(pieces, para)
	}
	return pieces
}

var slugRe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Filename derives a deterministic, collision-resistant filename from a
// canonical URL: a sanitized slug of host+path, truncated, suffixed with a
// short hash of the full canonical URL.
func Filename(canonicalURL string) string {
	stem := "page"
	if u := parseLenient(canonicalURL); u != "" {
		stem = u
	}
	h := xxhash.Sum64String(canonicalURL)
	return fmt.Sprintf("%s-%s.md", stem, fmt.Sprintf("%016x", h)[:10])
}

// parseLenient returns the sanitized host+path slug, or "" when nothing
// usable remains.
func parseLenient(canonicalURL string) string {
	hostPath := canonicalURL
	if idx := strings.Index(hostPath, "://"); idx != -1 {
		hostPath = hostPath[idx+3:]
	}
	if idx := strings.IndexAny(hostPath, "?#"); idx != -1 {
		hostPath = hostPath[:idx]
	}

	slug := slugRe.ReplaceAllString(hostPath, "-")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	return strings.Trim(slug, "-")
}
