package trigger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beyond-all-reason/map-syncer/internal/trigger"
)

func TestQueue_GetBlocksUntilPut(t *testing.T) {
	q := trigger.NewQueue()

	done := make(chan trigger.Event, 1)
	go func() {
		done <- q.Get()
	}()

	select {
	case <-done:
		t.Fatal("Get returned before any Put")
	case <-time.After(50 * time.Millisecond):
	}

	q.Put(trigger.Event{Op: trigger.Sync, Reason: "test"})

	select {
	case e := <-done:
		assert.Equal(t, trigger.Sync, e.Op)
	case <-time.After(time.Second):
		t.Fatal("Get never returned after Put")
	}
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := trigger.NewQueue()

	q.Put(trigger.Event{Op: trigger.Sync, Reason: "first"})
	q.Put(trigger.Event{Op: trigger.Sync, Reason: "second"})
	q.Put(trigger.Event{Op: trigger.Stop, Reason: "third"})

	assert.Equal(t, "first", q.Get().Reason)
	assert.Equal(t, "second", q.Get().Reason)

	e := q.Get()
	assert.Equal(t, trigger.Stop, e.Op)
	assert.Equal(t, "third", e.Reason)
}

func TestQueue_TryGetEmpty(t *testing.T) {
	q := trigger.NewQueue()

	_, ok := q.TryGet()
	assert.False(t, ok)
}

func TestQueue_TryGetNonEmpty(t *testing.T) {
	q := trigger.NewQueue()
	q.Put(trigger.Event{Op: trigger.Sync, Reason: "x"})

	e, ok := q.TryGet()
	require.True(t, ok)
	assert.Equal(t, "x", e.Reason)

	_, ok = q.TryGet()
	assert.False(t, ok)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "SYNC", trigger.Sync.String())
	assert.Equal(t, "STOP", trigger.Stop.String())
}
