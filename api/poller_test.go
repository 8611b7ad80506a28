package api

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_RunsImmediatelyAndOnTicks(t *testing.T) {
	p := NewPoller(10 * time.Millisecond)
	defer p.Stop()

	var calls atomic.Int64
	p.Start(func(ctx context.Context, gen uint64) {
		calls.Add(1)
	})

	require.Eventually(t, func() bool {
		return calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestPoller_StopInvalidatesGeneration(t *testing.T) {
	p := NewPoller(time.Hour)

	genCh := make(chan uint64, 1)
	p.Start(func(ctx context.Context, gen uint64) {
		genCh <- gen
	})

	gen := <-genCh
	assert.True(t, p.Current(gen))

	p.Stop()
	assert.False(t, p.Current(gen), "stale generation must not be current after Stop")
}

func TestPoller_RestartDiscardsOldGeneration(t *testing.T) {
	p := NewPoller(time.Hour)
	defer p.Stop()

	genCh := make(chan uint64, 2)
	p.Start(func(ctx context.Context, gen uint64) {
		genCh <- gen
	})
	first := <-genCh

	p.Start(func(ctx context.Context, gen uint64) {
		genCh <- gen
	})
	second := <-genCh

	assert.False(t, p.Current(first), "generation from before restart is stale")
	assert.True(t, p.Current(second))
}

func TestPoller_ContextCancelledOnStop(t *testing.T) {
	p := NewPoller(time.Hour)

	ctxCh := make(chan context.Context, 1)
	p.Start(func(ctx context.Context, gen uint64) {
		ctxCh <- ctx
	})
	ctx := <-ctxCh

	p.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("poll context was not cancelled by Stop")
	}
}
