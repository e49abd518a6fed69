package mock

import "github.com/sitezip/sitezip"

var _ sitezip.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitezip.Extractor.
type Extractor struct {
	ExtractFn      func(markup, pageURL string) *sitezip.ExtractResult
	ExtractLinksFn func(markup, pageURL string, scope sitezip.ScopeSet) []string
}

func (e *Extractor) Extract(markup, pageURL string) *sitezip.ExtractResult {
	return e.ExtractFn(markup, pageURL)
}

func (e *Extractor) ExtractLinks(markup, pageURL string, scope sitezip.ScopeSet) []string {
	return e.ExtractLinksFn(markup, pageURL, scope)
}
