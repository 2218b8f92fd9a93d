package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/stylehub/internal/cart"
	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

var ErrEmptyCart = errors.New("cart is empty")

// sessionIdleTTL bounds how long an untouched session is kept. Abandoned
// checkouts carry no durable state, so expiry just means starting over.
const sessionIdleTTL = 30 * time.Minute

type sessionEntry struct {
	sess    *Session
	touched time.Time
}

// Service owns the checkout sessions and turns a reviewed cart into an
// order. Sessions are in-memory: abandoning checkout costs nothing.
type Service struct {
	orders    store.Records[domain.Order]
	cart      *cart.Service
	publisher EventPublisher
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewService(orders store.Records[domain.Order], cartSvc *cart.Service, publisher EventPublisher) *Service {
	return &Service{
		orders:    orders,
		cart:      cartSvc,
		publisher: publisher,
		now:       time.Now,
		sessions:  make(map[string]*sessionEntry),
	}
}

// Session returns the session with the given id, creating it at the
// Shipping step on first use. Sessions idle past the TTL are pruned here,
// so the map stays bounded by recent activity.
func (s *Service) Session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for sid, e := range s.sessions {
		if sid != id && now.Sub(e.touched) > sessionIdleTTL {
			delete(s.sessions, sid)
		}
	}

	e, exists := s.sessions[id]
	if !exists || now.Sub(e.touched) > sessionIdleTTL {
		e = &sessionEntry{sess: NewSession(id)}
		s.sessions[id] = e
	}
	e.touched = now
	return e.sess
}

func (s *Service) endSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// SubmitResult reports a successful placement. CartCleared is false when
// some lines could not be deleted after the order was created; those ids
// are handed to the reconciler and the order still stands.
type SubmitResult struct {
	Order         *domain.Order
	CartCleared   bool
	FailedLineIDs []string
}

// Submit places the order for the session's cart. The payment gate is
// re-checked defensively, concurrent submissions for the same session are
// refused, and nothing in the cart is touched unless order creation
// succeeded. On success the session ends.
func (s *Service) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	sess := s.Session(sessionID)

	if err := sess.beginSubmit(); err != nil {
		return nil, err
	}

	result, err := s.placeOrder(ctx, sess)
	if err != nil {
		// Stay at Review with form state intact so the user can retry.
		sess.endSubmit()
		return nil, err
	}

	s.endSession(sessionID)
	return result, nil
}

func (s *Service) placeOrder(ctx context.Context, sess *Session) (*SubmitResult, error) {
	lines, err := s.cart.Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := cart.Totals(lines)
	now := s.now()

	items := make([]domain.CartLine, len(lines))
	copy(items, lines)

	order := domain.Order{
		OrderNumber:     fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Items:           items,
		ShippingAddress: sess.Shipping(),
		PaymentInfo:     sess.Payment().Redacted(),
		Total:           totals.Total,
		Status:          domain.OrderStatusConfirmed,
		CreatedAt:       now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	failed := s.cart.DeleteLines(ctx, ids)

	event := OrderCreatedEvent{
		OrderID:       created.ID,
		OrderNumber:   created.OrderNumber,
		FailedLineIDs: failed,
		CreatedAt:     now,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		// The order exists; losing the event only delays reconciliation.
		log.Printf("failed to publish order.created for %v: %v", created.ID, err)
	}

	return &SubmitResult{
		Order:         created,
		CartCleared:   len(failed) == 0,
		FailedLineIDs: failed,
	}, nil
}

// GetOrder returns an order by id, or nil when unknown.
func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.Get(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}
