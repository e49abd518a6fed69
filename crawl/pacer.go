package crawl

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacing bounds. The interval between fetches never widens past
// DefaultMaxInterval and never narrows below DefaultMinInterval.
const (
	DefaultMinInterval = 500 * time.Millisecond
	DefaultMaxInterval = 8 * time.Second
)

// Pacer spaces out fetches against a single origin and adapts the spacing
// to observed behavior: failures and latency spikes widen the interval,
// a streak of fast successes narrows it back.
//
// Pacer is safe for concurrent use by multiple goroutines.
type Pacer struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	min      time.Duration
	max      time.Duration
	interval time.Duration
	avg      time.Duration
}

// NewPacer creates a Pacer starting at the minimum interval.
func NewPacer(min, max time.Duration) *Pacer {
	if min <= 0 {
		min = DefaultMinInterval
	}
	if max < min {
		max = DefaultMaxInterval
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(min), 1),
		min:      min,
		max:      max,
		interval: min,
	}
}

// Wait blocks until the next fetch slot opens or the context is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Observe feeds the outcome of a fetch back into the pacer. A failure, or a
// latency more than twice the rolling average, doubles the interval; a fast
// success narrows it by a quarter.
func (p *Pacer) Observe(latency time.Duration, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prior := p.avg
	if p.avg == 0 {
		p.avg = latency
	} else {
		p.avg = (p.avg*7 + latency) / 8
	}

	switch {
	case failed || (prior > 0 && latency > 2*prior):
		p.interval *= 2
	default:
		p.interval = p.interval * 3 / 4
	}
	if p.interval > p.max {
		p.interval = p.max
	}
	if p.interval < p.min {
		p.interval = p.min
	}
	p.limiter.SetLimit(rate.Every(p.interval))
}

// Interval returns the current spacing between fetches.
func (p *Pacer) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}
