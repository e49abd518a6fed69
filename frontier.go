package sitezip

// FrontierEntry is one unit of crawl work: a canonical URL and the link-hop
// depth at which it was first discovered.
type FrontierEntry struct {
	URL   string
	Depth int
}

// URLFrontier manages the queue of discovered-but-not-yet-fetched entries
// with deduplication. A canonical URL is accepted at most once per run; the
// first-discovered depth wins and is never revisited.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the URL has already been seen.
	Push(entry FrontierEntry) bool

	// Pop returns the shallowest pending entry, FIFO within a depth.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of entries waiting in the queue.
	Len() int

	// Seen returns true if the URL has been dispatched or queued.
	Seen(url string) bool
}
