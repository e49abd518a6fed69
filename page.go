package sitezip

import (
	"context"
	"net/url"
)

// MaxDepth is the largest depth bound a caller may request.
const MaxDepth = 5

// CrawlRequest describes one crawl run: a seed page and a depth bound.
// Depth counts link hops from the seed; the seed itself is depth 0.
// The request is immutable and owned by the run coordinator.
type CrawlRequest struct {
	SeedURL string `json:"url"`
	Depth   int    `json:"depth"`
}

// Validate returns an EINVALID error if the request is malformed or the
// depth bound is out of range. It runs before any crawling happens.
func (r *CrawlRequest) Validate() error {
	if r.Depth < 0 || r.Depth > MaxDepth {
		return Errorf(EINVALID, "depth must be between 0 and %d", MaxDepth)
	}
	u, err := url.Parse(r.SeedURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Errorf(EINVALID, "seed URL must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL scheme must be http or https")
	}
	return nil
}

// PageResult is the outcome of one dispatched URL: either extracted content
// or a terminal fetch error. Exactly one PageResult is produced per
// dispatched URL per run.
type PageResult struct {
	// URL is the canonical URL that was dispatched.
	URL string

	// Depth is the link-hop distance at which the URL was first discovered.
	Depth int

	// Title, Text and Meta hold the extracted content on success.
	Title string
	Text  string
	Meta  []string

	// Links are the outgoing same-site canonical links discovered on the
	// page, already scope-filtered and deduplicated.
	Links []string

	// Degraded is true when extraction fell back to best-effort raw text.
	Degraded bool

	// Err is the terminal fetch failure, nil on success.
	Err error
}

// RunOutcome is the terminal state of a successful crawl run.
type RunOutcome struct {
	// RunID uniquely identifies the run.
	RunID string

	// ArchivePath is the location of the produced zip archive. The archive
	// holds one document per dispatched URL, flat, by deterministic name.
	ArchivePath string

	// DocumentCount is the number of documents inside the archive.
	DocumentCount int

	cleanup func() error
}

// NewRunOutcome constructs an outcome whose Close runs the given cleanup.
func NewRunOutcome(runID, archivePath string, documents int, cleanup func() error) *RunOutcome {
	return &RunOutcome{
		RunID:         runID,
		ArchivePath:   archivePath,
		DocumentCount: documents,
		cleanup:       cleanup,
	}
}

// Close removes the run's temporary storage, including the archive.
// Callers must copy or stream the archive before closing.
func (o *RunOutcome) Close() error {
	if o.cleanup == nil {
		return nil
	}
	return o.cleanup()
}

// Runner executes one crawl request to completion.
type Runner interface {
	// Run crawls the requested site and returns the archived result.
	// It fails with EUNAVAILABLE if the rendering engine cannot be reached
	// at all, and with ENOTFOUND if the crawl drained without producing a
	// single document. Partial success (some pages failed but at least one
	// document exists) is success.
	Run(ctx context.Context, req *CrawlRequest) (*RunOutcome, error)
}
