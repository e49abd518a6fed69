// Package rod provides the browser-based implementation of sitezip.Fetcher.
// It renders pages in headless Chrome so JavaScript-built content is present
// in the returned markup.
package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/sitezip/sitezip"
)

// Ensure Fetcher implements sitezip.Fetcher at compile time.
var _ sitezip.Fetcher = (*Fetcher)(nil)

// networkIdleWindow is how long the page's network must stay quiet before
// the rendered markup is read.
const networkIdleWindow = 300 * time.Millisecond

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
}

// NewFetcher creates a new Fetcher backed by a managed headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an EUNAVAILABLE error if Chrome/Chromium cannot be found or
// launched.
func NewFetcher(opts ...ManagerOption) (*Fetcher, error) {
	manager, err := NewBrowserManager(opts...)
	if err != nil {
		return nil, sitezip.Errorf(sitezip.EUNAVAILABLE, "starting rendering engine: %v", err)
	}
	return &Fetcher{manager: manager}, nil
}

// Fetch navigates to the URL, waits for the load event and for network calm,
// and returns the rendered HTML. Page-level failures (navigation errors,
// timeouts) are ordinary errors; failure to obtain a page from the browser
// is reported as EUNAVAILABLE so the run can abort.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", sitezip.Errorf(sitezip.EUNAVAILABLE, "rendering engine unreachable: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	page.WaitRequestIdle(networkIdleWindow, nil, nil, nil)()

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
