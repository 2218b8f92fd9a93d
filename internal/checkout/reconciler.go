package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

// eventReader is the part of kafka.Reader the reconciler uses.
type eventReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Reconciler converges the cart after a partial cart-clear failure.
// Order placement publishes the line ids it failed to delete; the
// reconciler picks them up from the order-events topic and retries the
// deletes on a timer until each line is gone.
type Reconciler struct {
	lines      store.Records[domain.CartLine]
	reader     eventReader
	retryTick  time.Duration
	backoffMin time.Duration
	backoffMax time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewReconciler(lines store.Records[domain.CartLine], brokers ...string) *Reconciler {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    orderEventsTopic,
		GroupID:  "cart-reconciler",
		MaxBytes: 10e6, // 10MB
	})
	return &Reconciler{
		lines:      lines,
		reader:     reader,
		retryTick:  5 * time.Second,
		backoffMin: time.Second,
		backoffMax: 30 * time.Second,
		pending:    make(map[string]struct{}),
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	go r.consumeLoop(ctx)

	ticker := time.NewTicker(r.retryTick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.retryPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reconciler) Close() {
	if err := r.reader.Close(); err != nil {
		log.Printf("error closing kafka reader: %v", err)
	}
}

// consumeLoop reads order events until the context ends or the reader is
// closed (io.EOF). Transient read errors back off exponentially instead
// of spinning the loop hot.
func (r *Reconciler) consumeLoop(ctx context.Context) {
	backoff := r.backoffMin
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			log.Printf("error reading order event, retrying in %v: %v", backoff, err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < r.backoffMax {
				backoff *= 2
			}
			continue
		}
		backoff = r.backoffMin

		r.handleEvent(ctx, m)
	}
}

func (r *Reconciler) handleEvent(ctx context.Context, m kafka.Message) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		log.Printf("error parsing order event: %v", err)
		return
	}

	if len(event.FailedLineIDs) == 0 {
		return
	}

	log.Printf("order %v left %d cart lines behind, reconciling", event.OrderID, len(event.FailedLineIDs))
	r.enqueue(event.FailedLineIDs)
	r.retryPending(ctx)
}

func (r *Reconciler) enqueue(lineIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range lineIDs {
		r.pending[id] = struct{}{}
	}
}

// retryPending attempts to delete every pending line. A delete that
// reports "not found" still counts as done: the line is gone either way.
func (r *Reconciler) retryPending(ctx context.Context) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.pending))
	for id := range r.pending {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if _, err := r.lines.Delete(ctx, id); err != nil {
			log.Printf("reconciler: delete of line %v failed, will retry: %v", id, err)
			continue
		}
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
	}
}

// PendingCount reports how many lines still await deletion.
func (r *Reconciler) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
