package mock

import "github.com/sitezip/sitezip"

var _ sitezip.DocumentRenderer = (*DocumentRenderer)(nil)

// DocumentRenderer is a mock implementation of sitezip.DocumentRenderer.
type DocumentRenderer struct {
	RenderFn func(doc *sitezip.Document, path string) error
}

func (r *DocumentRenderer) Render(doc *sitezip.Document, path string) error {
	return r.RenderFn(doc, path)
}
