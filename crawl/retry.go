package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitezip/sitezip"
)

// FetchFunc fetches the rendered markup for a URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the standard backoff schedule: three retries
// after the initial attempt, doubling from one second.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch, retrying after each delay in delays.
// Engine-unavailable errors are returned immediately without retrying,
// since they indicate the whole run must stop rather than a transient
// page-level failure. Context cancellation also stops retrying.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		markup, err := fetch(ctx, url)
		if err == nil {
			return markup, nil
		}
		if sitezip.ErrorCode(err) == sitezip.EUNAVAILABLE {
			return "", err
		}
		lastErr = err

		if attempt >= len(delays) {
			return "", lastErr
		}

		logger.Warn("fetch failed, retrying",
			slog.String("url", url),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delays[attempt]),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}
