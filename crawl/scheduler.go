package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sitezip/sitezip"
)

const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01

	// DefaultConcurrency is the number of pages fetched in parallel.
	DefaultConcurrency = 8

	// DefaultFetchTimeout bounds a single page fetch, including render wait.
	DefaultFetchTimeout = 60 * time.Second
)

// Scheduler walks a site breadth-first from a seed URL, fetching and
// extracting pages with bounded concurrency. Page-level failures are
// isolated: a page that cannot be fetched after retries is reported as a
// failed result and the crawl continues. Only a rendering engine outage
// aborts the run.
type Scheduler struct {
	Fetcher   sitezip.Fetcher
	Extractor sitezip.Extractor

	Pacer        *Pacer
	Concurrency  int
	FetchTimeout time.Duration
	RetryDelays  []time.Duration
	Logger       *slog.Logger
}

// fetchOutcome carries a completed fetch back to the coordinator.
type fetchOutcome struct {
	entry  sitezip.FrontierEntry
	markup string
	err    error
}

// Crawl fetches the seed and all in-scope pages reachable within
// req.Depth link hops, calling emit once per visited URL in completion
// order. It returns an error only when the rendering engine becomes
// unavailable or emit fails; per-page fetch failures are delivered to emit
// as results with Err set.
func (s *Scheduler) Crawl(ctx context.Context, req *sitezip.CrawlRequest, emit func(*sitezip.PageResult) error) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	pacer := s.Pacer
	if pacer == nil {
		pacer = NewPacer(DefaultMinInterval, DefaultMaxInterval)
	}
	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	if err := req.Validate(); err != nil {
		return err
	}
	scope := sitezip.NewScopeSet(req.SeedURL)

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(sitezip.FrontierEntry{URL: sitezip.Canonicalize(req.SeedURL), Depth: 0})

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	results := make(chan fetchOutcome)
	inFlight := 0

	dispatch := func(entry sitezip.FrontierEntry) {
		inFlight++
		g.Go(func() error {
			markup, err := s.fetchOne(gctx, pacer, entry.URL, timeout, delays, logger)
			select {
			case results <- fetchOutcome{entry: entry, markup: markup, err: err}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	var runErr error

loop:
	for {
		for inFlight < concurrency {
			entry, ok := frontier.Pop()
			if !ok {
				break
			}
			dispatch(entry)
		}
		if inFlight == 0 {
			break
		}

		select {
		case <-gctx.Done():
			runErr = gctx.Err()
			break loop
		case out := <-results:
			inFlight--
			if err := s.handleOutcome(req, scope, frontier, out, emit, logger); err != nil {
				runErr = err
				break loop
			}
		}
	}

	cancel()
	if err := g.Wait(); runErr == nil && err != nil && !errors.Is(err, context.Canceled) {
		runErr = err
	}
	return runErr
}

// fetchOne paces, fetches with retries under a per-page timeout, and feeds
// the outcome back into the pacer.
func (s *Scheduler) fetchOne(ctx context.Context, pacer *Pacer, url string, timeout time.Duration, delays []time.Duration, logger *slog.Logger) (string, error) {
	if err := pacer.Wait(ctx); err != nil {
		return "", err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	markup, err := FetchWithRetryDelays(fetchCtx, url, s.Fetcher.Fetch, logger, delays)
	pacer.Observe(time.Since(start), err != nil)
	return markup, err
}

// handleOutcome converts one fetch outcome into an emitted page result and
// enqueues newly discovered links. An engine outage aborts the crawl.
func (s *Scheduler) handleOutcome(req *sitezip.CrawlRequest, scope sitezip.ScopeSet, frontier *Frontier, out fetchOutcome, emit func(*sitezip.PageResult) error, logger *slog.Logger) error {
	if out.err != nil {
		if sitezip.ErrorCode(out.err) == sitezip.EUNAVAILABLE {
			return sitezip.Errorf(sitezip.EUNAVAILABLE, "rendering engine unavailable at %s: %s", out.entry.URL, sitezip.ErrorMessage(out.err))
		}
		// A plain cancellation means the run itself was stopped, not that
		// the page failed.
		if errors.Is(out.err, context.Canceled) {
			return out.err
		}
		logger.Warn("page failed", slog.String("url", out.entry.URL), slog.String("error", out.err.Error()))
		return emit(&sitezip.PageResult{
			URL:   out.entry.URL,
			Depth: out.entry.Depth,
			Err:   out.err,
		})
	}

	res := s.Extractor.Extract(out.markup, out.entry.URL)
	links := s.Extractor.ExtractLinks(out.markup, out.entry.URL, scope)

	page := &sitezip.PageResult{
		URL:      out.entry.URL,
		Depth:    out.entry.Depth,
		Title:    res.Title,
		Text:     res.Text,
		Meta:     res.Meta,
		Links:    links,
		Degraded: res.Degraded,
	}

	if out.entry.Depth+1 <= req.Depth {
		for _, link := range links {
			frontier.Push(sitezip.FrontierEntry{URL: link, Depth: out.entry.Depth + 1})
		}
	}

	logger.Info("page crawled",
		slog.String("url", out.entry.URL),
		slog.Int("depth", out.entry.Depth),
		slog.Int("links", len(links)),
		slog.Bool("degraded", res.Degraded),
	)
	return emit(page)
}
