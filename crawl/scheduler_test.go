package crawl_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitezip/sitezip"
	"github.com/sitezip/sitezip/crawl"
	"github.com/sitezip/sitezip/goquery"
	"github.com/sitezip/sitezip/mock"
)

// siteFetcher serves pages from an in-memory site map and records which
// URLs were fetched and how often.
type siteFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls map[string]int
}

func newSiteFetcher(pages map[string]string) *siteFetcher {
	return &siteFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *siteFetcher) fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	markup, ok := f.pages[url]
	if !ok {
		return "", sitezip.Errorf(sitezip.EINTERNAL, "page not retrievable: %s", url)
	}
	return markup, nil
}

func (f *siteFetcher) fetched() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		out[k] = v
	}
	return out
}

// linkExtractor reads pseudo-markup of the form "title|link link link".
func linkExtractor() *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(markup, pageURL string) *sitezip.ExtractResult {
			title, _, _ := strings.Cut(markup, "|")
			return &sitezip.ExtractResult{Title: title, Text: "body of " + pageURL}
		},
		ExtractLinksFn: func(markup, pageURL string, scope sitezip.ScopeSet) []string {
			_, rest, ok := strings.Cut(markup, "|")
			if !ok || rest == "" {
				return nil
			}
			return strings.Fields(rest)
		},
	}
}

func newTestScheduler(fetch func(ctx context.Context, url string) (string, error)) *crawl.Scheduler {
	return &crawl.Scheduler{
		Fetcher:     &mock.Fetcher{FetchFn: fetch},
		Extractor:   linkExtractor(),
		Pacer:       crawl.NewPacer(time.Millisecond, 2*time.Millisecond),
		Concurrency: 4,
		RetryDelays: []time.Duration{},
	}
}

func collectResults(t *testing.T, s *crawl.Scheduler, req *sitezip.CrawlRequest) []*sitezip.PageResult {
	t.Helper()
	var results []*sitezip.PageResult
	err := s.Crawl(context.Background(), req, func(res *sitezip.PageResult) error {
		results = append(results, res)
		return nil
	})
	require.NoError(t, err)
	return results
}

func TestScheduler_depth_zero_fetches_seed_only(t *testing.T) {
	t.Parallel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/": "Home|https://example.com/about",
	})
	s := newTestScheduler(fetcher.fetch)

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 0})

	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/", results[0].URL)
	assert.Equal(t, "Home", results[0].Title)
	assert.Equal(t, []string{"https://example.com/about"}, results[0].Links, "links are reported even when not followed")
	assert.Len(t, fetcher.fetched(), 1)
}

func TestScheduler_respects_depth_bound(t *testing.T) {
	t.Parallel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/":      "Home|https://example.com/about",
		"https://example.com/about": "About|https://example.com/deep",
		"https://example.com/deep":  "Deep|",
	})
	s := newTestScheduler(fetcher.fetch)

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 1})

	assert.Len(t, results, 2)
	fetched := fetcher.fetched()
	assert.Contains(t, fetched, "https://example.com/")
	assert.Contains(t, fetched, "https://example.com/about")
	assert.NotContains(t, fetched, "https://example.com/deep")
}

func TestScheduler_fetches_each_url_at_most_once(t *testing.T) {
	t.Parallel()

	// Every page links back to every other page.
	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/":  "Home|https://example.com/a https://example.com/b",
		"https://example.com/a": "A|https://example.com/ https://example.com/b",
		"https://example.com/b": "B|https://example.com/ https://example.com/a",
	})
	s := newTestScheduler(fetcher.fetch)

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 5})

	assert.Len(t, results, 3)
	for url, n := range fetcher.fetched() {
		assert.Equal(t, 1, n, "url %s fetched more than once", url)
	}
}

func TestScheduler_skips_offsite_links(t *testing.T) {
	t.Parallel()

	// Real markup through the real extractor, so scope filtering is
	// exercised end to end rather than through a mock.
	seed := `<html><head><title>Home</title></head><body>
<a href="/a">A</a>
<a href="https://example.com/b">B</a>
<a href="https://offsite.org/page">Elsewhere</a>
</body></html>`
	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/":  seed,
		"https://example.com/a": `<html><head><title>A</title></head><body><p>alpha</p></body></html>`,
		"https://example.com/b": `<html><head><title>B</title></head><body><p>beta</p></body></html>`,
	})
	s := &crawl.Scheduler{
		Fetcher:     &mock.Fetcher{FetchFn: fetcher.fetch},
		Extractor:   goquery.NewExtractor(),
		Pacer:       crawl.NewPacer(time.Millisecond, 2*time.Millisecond),
		Concurrency: 4,
		RetryDelays: []time.Duration{},
	}

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 1})

	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}

	fetched := fetcher.fetched()
	assert.Contains(t, fetched, "https://example.com/a")
	assert.Contains(t, fetched, "https://example.com/b")
	assert.NotContains(t, fetched, "https://offsite.org/page")
}

func TestScheduler_isolates_page_failures(t *testing.T) {
	t.Parallel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/": "Home|https://example.com/gone https://example.com/ok",
		"https://example.com/ok": "OK|",
		// /gone is missing: its fetch fails.
	})
	s := newTestScheduler(fetcher.fetch)

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 1})

	require.Len(t, results, 3)
	byURL := make(map[string]*sitezip.PageResult)
	for _, res := range results {
		byURL[res.URL] = res
	}
	require.Contains(t, byURL, "https://example.com/gone")
	assert.Error(t, byURL["https://example.com/gone"].Err)
	assert.NoError(t, byURL["https://example.com/ok"].Err)
}

func TestScheduler_aborts_when_engine_unavailable(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, url string) (string, error) {
		return "", sitezip.Errorf(sitezip.EUNAVAILABLE, "rendering engine unreachable")
	}
	s := newTestScheduler(fetch)

	emitted := 0
	err := s.Crawl(context.Background(), &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 2}, func(res *sitezip.PageResult) error {
		emitted++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, sitezip.EUNAVAILABLE, sitezip.ErrorCode(err))
	assert.Equal(t, 0, emitted)
}

func TestScheduler_aborts_when_emit_fails(t *testing.T) {
	t.Parallel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/": "Home|",
	})
	s := newTestScheduler(fetcher.fetch)

	wantErr := sitezip.Errorf(sitezip.EINTERNAL, "disk full")
	err := s.Crawl(context.Background(), &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 0}, func(res *sitezip.PageResult) error {
		return wantErr
	})

	assert.Equal(t, wantErr, err)
}

func TestScheduler_logs_degraded_extraction(t *testing.T) {
	t.Parallel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/": "Home|",
	})
	s := newTestScheduler(fetcher.fetch)
	s.Extractor = &mock.Extractor{
		ExtractFn: func(markup, pageURL string) *sitezip.ExtractResult {
			return &sitezip.ExtractResult{Title: "(No title)", Text: "raw fallback", Degraded: true}
		},
		ExtractLinksFn: func(markup, pageURL string, scope sitezip.ScopeSet) []string {
			return nil
		},
	}

	var buf bytes.Buffer
	s.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	results := collectResults(t, s, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 0})

	require.Len(t, results, 1)
	assert.True(t, results[0].Degraded)
	assert.Contains(t, buf.String(), "degraded=true")
}

func TestScheduler_rejects_invalid_seed(t *testing.T) {
	t.Parallel()

	fetched := false
	s := newTestScheduler(func(ctx context.Context, url string) (string, error) {
		fetched = true
		return "", nil
	})

	err := s.Crawl(context.Background(), &sitezip.CrawlRequest{SeedURL: "://bad", Depth: 0}, func(res *sitezip.PageResult) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, sitezip.EINVALID, sitezip.ErrorCode(err))
	assert.False(t, fetched)
}

func TestScheduler_honors_canceled_context(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newSiteFetcher(map[string]string{
		"https://example.com/": "Home|",
	})
	s := newTestScheduler(fetcher.fetch)

	err := s.Crawl(ctx, &sitezip.CrawlRequest{SeedURL: "https://example.com/", Depth: 0}, func(res *sitezip.PageResult) error {
		return nil
	})
	assert.Error(t, err)
}
