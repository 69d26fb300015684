package mailbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutTake(t *testing.T) {
	mb := New[string]()
	mb.Put("job-1")

	j, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, "job-1", j)
}

func TestLatestWins(t *testing.T) {
	mb := New[string]()
	mb.Put("stale")
	mb.Put("fresh")

	j, ok := mb.Take(context.Background())
	require.True(t, ok)
	assert.Equal(t, "fresh", j)

	_, ok = mb.TryTake()
	assert.False(t, ok)
}

func TestTryTakeEmpty(t *testing.T) {
	mb := New[int]()
	_, ok := mb.TryTake()
	assert.False(t, ok)
}

func TestTakeUnblocksOnPut(t *testing.T) {
	mb := New[int]()

	got := make(chan int, 1)
	go func() {
		j, ok := mb.Take(context.Background())
		if ok {
			got <- j
		}
	}()

	time.Sleep(20 * time.Millisecond)
	mb.Put(42)

	select {
	case j := <-got:
		assert.Equal(t, 42, j)
	case <-time.After(2 * time.Second):
		t.Fatal("Take did not unblock after Put")
	}
}

func TestTakeStopsOnCancel(t *testing.T) {
	mb := New[int]()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := mb.Take(ctx)
		done <- ok
	}()

	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Take did not return after cancel")
	}
}
