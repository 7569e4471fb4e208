package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryTaskOnce(t *testing.T) {
	for _, size := range []int{0, 1, 2, 8, 64} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			const n = 500

			p := New(context.Background(), size)

			var mu sync.Mutex
			seen := make(map[int]int, n)
			for i := 0; i < n; i++ {
				i := i
				require.NoError(t, p.Submit(func(context.Context) {
					mu.Lock()
					seen[i]++
					mu.Unlock()
				}))
			}

			assert.Zero(t, p.Wait())
			require.Len(t, seen, n)
			for i, c := range seen {
				assert.Equal(t, 1, c, "task %d", i)
			}
		})
	}
}

func TestPool_SubmitDoesNotBlock(t *testing.T) {
	p := New(context.Background(), 1)

	release := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) { <-release }))

	// The only worker is busy; a queue far larger than the pool must still accept work.
	var ran atomic.Int64
	for i := 0; i < 1000; i++ {
		require.NoError(t, p.Submit(func(context.Context) { ran.Add(1) }))
	}

	close(release)
	p.Wait()
	assert.Equal(t, int64(1000), ran.Load())
}

func TestPool_PanicIsIsolated(t *testing.T) {
	p := New(context.Background(), 2)

	var ran atomic.Int64
	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(context.Context) { ran.Add(1) }))
	}

	p.Wait()
	assert.Equal(t, int64(10), ran.Load())
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := New(context.Background(), 1)
	p.Close()

	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrClosed)
	p.Wait()
}

func TestPool_CanceledContextDropsQueued(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(ctx, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	var ran atomic.Int64
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(context.Context) { ran.Add(1) }))
	}

	cancel()
	close(release)

	assert.Equal(t, 5, p.Wait())
	assert.Zero(t, ran.Load())
}
