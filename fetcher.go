package sitezip

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content; such implementations wait for the page's network activity to calm
// down before returning markup.
type Fetcher interface {
	// Fetch navigates to the URL and returns the rendered HTML.
	// The context controls timeout and cancellation.
	//
	// A failure that concerns only the requested page is an ordinary error.
	// A failure of the rendering engine itself is reported with code
	// EUNAVAILABLE so callers can abort the whole run.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
