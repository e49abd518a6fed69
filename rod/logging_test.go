package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/sitezip/sitezip/mock"
	"github.com/sitezip/sitezip/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_logs_and_delegates(t *testing.T) {
	t.Parallel()

	inner := &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			return "<html>ok</html>", nil
		},
		CloseFn: func() error { return nil },
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := rod.NewLoggingFetcher(inner, logger)

	html, err := f.Fetch(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)

	assert.Contains(t, buf.String(), "fetch")
	assert.Contains(t, buf.String(), "https://example.com")

	assert.NoError(t, f.Close())
}
