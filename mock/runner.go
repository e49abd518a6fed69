package mock

import (
	"context"

	"github.com/sitezip/sitezip"
)

var _ sitezip.Runner = (*Runner)(nil)

// Runner is a mock implementation of sitezip.Runner.
type Runner struct {
	RunFn func(ctx context.Context, req *sitezip.CrawlRequest) (*sitezip.RunOutcome, error)
}

func (r *Runner) Run(ctx context.Context, req *sitezip.CrawlRequest) (*sitezip.RunOutcome, error) {
	return r.RunFn(ctx, req)
}
