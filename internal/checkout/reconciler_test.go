package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

// newTestReconciler builds a reconciler without a live kafka reader; the
// tests drive enqueue/retry directly or plug in a scripted reader.
func newTestReconciler(lines store.Records[domain.CartLine]) *Reconciler {
	return &Reconciler{
		lines:      lines,
		retryTick:  time.Millisecond,
		backoffMin: time.Millisecond,
		backoffMax: 4 * time.Millisecond,
		pending:    make(map[string]struct{}),
	}
}

type readStep struct {
	msg kafka.Message
	err error
}

// scriptedReader replays a fixed sequence of reads, then reports the
// reader as closed.
type scriptedReader struct {
	mu    sync.Mutex
	steps []readStep
}

func (s *scriptedReader) ReadMessage(context.Context) (kafka.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return kafka.Message{}, io.EOF
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step.msg, step.err
}

func (s *scriptedReader) Close() error { return nil }

func eventMessage(t *testing.T, event OrderCreatedEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestReconciler_RetryDeletesPendingLines(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.CartLineIdentity())
	line, err := mem.Create(ctx, domain.CartLine{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	r := newTestReconciler(mem)
	r.enqueue([]string{line.ID})
	require.Equal(t, 1, r.PendingCount())

	r.retryPending(ctx)

	assert.Equal(t, 0, r.PendingCount())
	got, err := mem.Get(ctx, line.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReconciler_KeepsPendingOnFailure(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.CartLineIdentity())
	line, err := mem.Create(ctx, domain.CartLine{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	r := newTestReconciler(mem)
	r.enqueue([]string{line.ID})

	mem.FailNextDelete = errors.New("store unavailable")
	r.retryPending(ctx)
	assert.Equal(t, 1, r.PendingCount())

	// The next tick converges.
	r.retryPending(ctx)
	assert.Equal(t, 0, r.PendingCount())
}

func TestReconciler_MissingLineCountsAsDone(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.CartLineIdentity())

	r := newTestReconciler(mem)
	r.enqueue([]string{"already-gone"})

	r.retryPending(ctx)

	assert.Equal(t, 0, r.PendingCount())
}

func TestConsumeLoop_ProcessesEventAndExitsOnReaderClose(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.CartLineIdentity())
	line, err := mem.Create(ctx, domain.CartLine{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	r := newTestReconciler(mem)
	r.reader = &scriptedReader{steps: []readStep{
		{msg: eventMessage(t, OrderCreatedEvent{OrderID: "o1", FailedLineIDs: []string{line.ID}})},
	}}

	// The loop returns on its own once the reader reports closed.
	done := make(chan struct{})
	go func() {
		r.consumeLoop(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume loop did not exit on reader close")
	}

	assert.Equal(t, 0, r.PendingCount())
	got, err := mem.Get(ctx, line.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConsumeLoop_BacksOffOnTransientErrors(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.CartLineIdentity())
	line, err := mem.Create(ctx, domain.CartLine{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	r := newTestReconciler(mem)
	r.reader = &scriptedReader{steps: []readStep{
		{err: errors.New("broker hiccup")},
		{err: errors.New("broker hiccup")},
		{msg: eventMessage(t, OrderCreatedEvent{OrderID: "o1", FailedLineIDs: []string{line.ID}})},
	}}

	done := make(chan struct{})
	go func() {
		r.consumeLoop(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume loop did not recover from transient errors")
	}

	// The event after the errors was still processed.
	got, err := mem.Get(ctx, line.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConsumeLoop_ExitsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	r := newTestReconciler(store.NewMemoryRecords(store.CartLineIdentity()))
	// A reader that fails forever: only cancellation may end the loop.
	r.reader = readerAlwaysFailing{}

	done := make(chan struct{})
	go func() {
		r.consumeLoop(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume loop did not exit on cancellation")
	}
}

type readerAlwaysFailing struct{}

func (readerAlwaysFailing) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if ctx.Err() != nil {
		return kafka.Message{}, context.Canceled
	}
	return kafka.Message{}, errors.New("broker down")
}

func (readerAlwaysFailing) Close() error { return nil }

func TestHandleEvent_IgnoresMalformedAndCleanEvents(t *testing.T) {
	ctx := context.Background()
	r := newTestReconciler(store.NewMemoryRecords(store.CartLineIdentity()))

	r.handleEvent(ctx, kafka.Message{Value: []byte("not json")})
	assert.Equal(t, 0, r.PendingCount())

	// An event with nothing left behind enqueues nothing.
	r.handleEvent(ctx, eventMessage(t, OrderCreatedEvent{OrderID: "o1"}))
	assert.Equal(t, 0, r.PendingCount())
}

func TestReconciler_EnqueueDeduplicates(t *testing.T) {
	r := newTestReconciler(store.NewMemoryRecords(store.CartLineIdentity()))

	r.enqueue([]string{"a", "b"})
	r.enqueue([]string{"b", "c"})

	assert.Equal(t, 3, r.PendingCount())
}
