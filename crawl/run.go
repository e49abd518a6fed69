package crawl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sitezip/sitezip"
	"github.com/sitezip/sitezip/fs"
)

// Compile-time interface verification.
var _ sitezip.Runner = (*Runner)(nil)

// Runner executes crawl requests end to end: it validates the request,
// drives the scheduler, renders one document per visited page into a
// per-run workspace and packs the documents into a zip archive.
type Runner struct {
	Scheduler *Scheduler
	Renderer  sitezip.DocumentRenderer
	Logger    *slog.Logger
}

// Run crawls the requested site and returns the archived result.
// The caller owns the returned outcome and must Close it to release the
// run's temporary storage.
func (r *Runner) Run(ctx context.Context, req *sitezip.CrawlRequest) (*sitezip.RunOutcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	logger.Info("run started",
		slog.String("run_id", runID),
		slog.String("url", req.SeedURL),
		slog.Int("depth", req.Depth),
	)

	ws, err := fs.NewWorkspace(runID)
	if err != nil {
		return nil, sitezip.Errorf(sitezip.EINTERNAL, "create run workspace: %s", err)
	}

	rendered := 0
	emit := func(res *sitezip.PageResult) error {
		doc := sitezip.BuildDocument(res)
		if err := r.Renderer.Render(doc, ws.DocumentPath(doc.Filename)); err != nil {
			return sitezip.Errorf(sitezip.EINTERNAL, "render document for %s: %s", res.URL, err)
		}
		rendered++
		return nil
	}

	if err := r.Scheduler.Crawl(ctx, req, emit); err != nil {
		ws.Cleanup()
		return nil, err
	}

	if rendered == 0 {
		ws.Cleanup()
		return nil, sitezip.Errorf(sitezip.ENOTFOUND, "crawl produced no documents for %q", req.SeedURL)
	}

	n, err := fs.ArchiveDir(ws.DocsDir(), ws.ArchivePath())
	if err != nil {
		ws.Cleanup()
		return nil, sitezip.Errorf(sitezip.EINTERNAL, "archive documents: %s", err)
	}
	if err := ws.RemoveDocs(); err != nil {
		ws.Cleanup()
		return nil, sitezip.Errorf(sitezip.EINTERNAL, "remove rendered documents: %s", err)
	}

	logger.Info("run finished",
		slog.String("run_id", runID),
		slog.Int("documents", n),
		slog.String("archive", ws.ArchivePath()),
	)
	return sitezip.NewRunOutcome(runID, ws.ArchivePath(), n, ws.Cleanup), nil
}
