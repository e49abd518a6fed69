// Package markdown renders documents to markdown files using the
// nao1215/markdown fluent builder.
package markdown

import (
	"fmt"
	"os"

	"github.com/nao1215/markdown"
	"github.com/sitezip/sitezip"
)

// Ensure Renderer implements sitezip.DocumentRenderer at compile time.
var _ sitezip.DocumentRenderer = (*Renderer)(nil)

// Renderer turns a document's typed blocks into one markdown file.
// The zero value is ready to use and safe for concurrent use.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the document to the destination path. Headings become H1,
// subheadings H2, paragraphs plain text separated by blank lines, spacers
// blank lines.
func (r *Renderer) Render(doc *sitezip.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating document file: %w", err)
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)
	for _, block := range doc.Blocks {
		switch block.Type {
		case sitezip.BlockHeading:
			md.H1(block.Text)
		case sitezip.BlockSubheading:
			md.H2(block.Text)
		case sitezip.BlockParagraph:
			md.PlainText(block.Text)
			md.PlainText("")
		case sitezip.BlockSpacer:
			md.PlainText("")
		}
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
