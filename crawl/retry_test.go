package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitezip/sitezip"
	"github.com/sitezip/sitezip/crawl"
)

func TestFetchWithRetryDelays_succeeds_first_try(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "<html></html>", nil
	}

	markup, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/", fetch, nil, crawl.DefaultRetryDelays())
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", markup)
	assert.Equal(t, 1, calls)
}

func TestFetchWithRetryDelays_retries_transient_failures(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		if calls < 3 {
			return "", sitezip.Errorf(sitezip.EINTERNAL, "connection reset")
		}
		return "<html></html>", nil
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	markup, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/", fetch, nil, delays)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", markup)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetryDelays_returns_last_error_when_exhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "", sitezip.Errorf(sitezip.EINTERNAL, "boom %d", calls)
	}

	delays := []time.Duration{time.Millisecond, time.Millisecond}
	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/", fetch, nil, delays)
	require.Error(t, err)
	assert.Equal(t, "boom 3", sitezip.ErrorMessage(err))
	assert.Equal(t, 3, calls, "one initial attempt plus one per delay")
}

func TestFetchWithRetryDelays_does_not_retry_unavailable_engine(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		return "", sitezip.Errorf(sitezip.EUNAVAILABLE, "rendering engine unreachable")
	}

	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com/", fetch, nil, crawl.DefaultRetryDelays())
	require.Error(t, err)
	assert.Equal(t, sitezip.EUNAVAILABLE, sitezip.ErrorCode(err))
	assert.Equal(t, 1, calls)
}

func TestFetchWithRetryDelays_stops_on_canceled_context(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	fetch := func(ctx context.Context, url string) (string, error) {
		calls++
		cancel()
		return "", sitezip.Errorf(sitezip.EINTERNAL, "timeout")
	}

	_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com/", fetch, nil, []time.Duration{time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
