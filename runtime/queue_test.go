package runtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/fluffyui/clock"
)

func newTestQueue(capacity int) (*Queue, *clock.Manual) {
	clk := clock.NewManual(time.Unix(0, 0))
	return NewQueue(clk, capacity), clk
}

func TestQueue_PriorityOrdering(t *testing.T) {
	q, _ := newTestQueue(0)

	require.NoError(t, q.Push(SuspendMsg{}, PriorityLow))
	require.NoError(t, q.Push(TickMsg{}, PriorityNormal))
	require.NoError(t, q.Push(KeyMsg{Rune: 'a'}, PriorityHigh))
	require.NoError(t, q.Push(ResizeMsg{Width: 80, Height: 24}, PriorityCritical))

	got := make([]Priority, 0, 4)
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, ev.Priority)
	}
	assert.Equal(t, []Priority{PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow}, got)
}

func TestQueue_FIFOWithinLane(t *testing.T) {
	q, _ := newTestQueue(0)

	for _, r := range "abc" {
		require.NoError(t, q.Push(KeyMsg{Rune: r}, PriorityHigh))
	}

	for _, want := range "abc" {
		ev, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, ev.Msg.(KeyMsg).Rune)
	}
}

func TestQueue_PushAutoDerivesPriority(t *testing.T) {
	q, _ := newTestQueue(0)

	require.NoError(t, q.PushAuto(KeyMsg{Rune: 'x'}))
	require.NoError(t, q.PushAuto(ResizeMsg{Width: 1, Height: 1}))

	ev, ok := q.Pop()
	require.True(t, ok)
	assert.IsType(t, ResizeMsg{}, ev.Msg)
	assert.Equal(t, PriorityCritical, ev.Priority)
}

func TestQueue_EvictsOldestNonCriticalWhenFull(t *testing.T) {
	q, clk := newTestQueue(3)

	// Oldest non-critical event overall is the tick, despite living in
	// a lower lane than the keys pushed after it.
	require.NoError(t, q.Push(TickMsg{}, PriorityNormal))
	clk.Advance(time.Millisecond)
	require.NoError(t, q.Push(KeyMsg{Rune: 'a'}, PriorityHigh))
	clk.Advance(time.Millisecond)
	require.NoError(t, q.Push(KeyMsg{Rune: 'b'}, PriorityHigh))
	clk.Advance(time.Millisecond)
	require.NoError(t, q.Push(KeyMsg{Rune: 'c'}, PriorityHigh))

	assert.Equal(t, 3, q.Len())
	stats := q.Stats()
	assert.Equal(t, uint64(1), stats.Dropped)

	var runes []rune
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		km, isKey := ev.Msg.(KeyMsg)
		require.True(t, isKey, "tick should have been evicted, got %T", ev.Msg)
		runes = append(runes, km.Rune)
	}
	assert.Equal(t, []rune{'a', 'b', 'c'}, runes)
}

func TestQueue_AllCriticalRejectsPush(t *testing.T) {
	q, _ := newTestQueue(2)

	require.NoError(t, q.Push(ResizeMsg{}, PriorityCritical))
	require.NoError(t, q.Push(InitMsg{}, PriorityCritical))

	err := q.Push(KeyMsg{Rune: 'x'}, PriorityHigh)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, uint64(0), q.Stats().Dropped)
}

func TestQueue_ShutdownIdempotentAndDrains(t *testing.T) {
	q, _ := newTestQueue(0)

	require.NoError(t, q.Push(KeyMsg{Rune: 'a'}, PriorityHigh))
	require.NoError(t, q.Push(KeyMsg{Rune: 'b'}, PriorityHigh))

	q.Shutdown()
	q.Shutdown()
	assert.True(t, q.IsShutdown())

	// Pushes after shutdown vanish without error.
	require.NoError(t, q.Push(KeyMsg{Rune: 'z'}, PriorityHigh))
	assert.Equal(t, 2, q.Len())

	// The backlog stays poppable.
	ev, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 'a', ev.Msg.(KeyMsg).Rune)
	ev, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 'b', ev.Msg.(KeyMsg).Rune)
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueue_WaitTimesOutEmpty(t *testing.T) {
	q, _ := newTestQueue(0)

	start := time.Now()
	_, ok := q.Wait(20 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestQueue_WaitWakesOnPush(t *testing.T) {
	q, _ := newTestQueue(0)

	var wg sync.WaitGroup
	wg.Add(1)
	var got QueuedEvent
	var ok bool
	go func() {
		defer wg.Done()
		got, ok = q.Wait(0)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, q.Push(KeyMsg{Rune: 'k'}, PriorityHigh))
	wg.Wait()

	require.True(t, ok)
	assert.Equal(t, 'k', got.Msg.(KeyMsg).Rune)
}

func TestQueue_WaitReturnsOnShutdown(t *testing.T) {
	q, _ := newTestQueue(0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok := q.Wait(0)
		assert.False(t, ok)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Shutdown")
	}
}

func TestQueue_StatsTrackPeak(t *testing.T) {
	q, _ := newTestQueue(0)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(TickMsg{}, PriorityNormal))
	}
	for i := 0; i < 3; i++ {
		_, ok := q.Pop()
		require.True(t, ok)
	}

	stats := q.Stats()
	assert.Equal(t, 2, stats.Queued)
	assert.Equal(t, 5, stats.Peak)
	assert.False(t, stats.ShutDown)
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q, _ := newTestQueue(4096)

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, q.Push(KeyMsg{Rune: 'x'}, PriorityHigh))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, q.Len())
}
