package api

import (
	"context"
	"sync"
	"time"
)

// Poller runs a fetch function on a fixed interval. Every (re)start bumps a
// monotonic generation counter; a fetch captures the generation it was
// scheduled under and the consumer checks Current before applying the result,
// so a slow in-flight request that resolves after the selection changed is
// discarded instead of clobbering the new view.
type Poller struct {
	interval time.Duration

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

func NewPoller(interval time.Duration) *Poller {
	return &Poller{interval: interval}
}

// Start begins a new polling loop, cancelling any previous one. fn runs once
// immediately and then on every tick until Stop or the next Start.
func (p *Poller) Start(fn func(ctx context.Context, gen uint64)) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	gen := p.generation
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		fn(ctx, gen)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx, gen)
			}
		}
	}()
}

// Stop cancels the loop and invalidates any in-flight generation.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.generation++
}

// Current reports whether gen is still the active generation.
func (p *Poller) Current(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen == p.generation && p.cancel != nil
}
