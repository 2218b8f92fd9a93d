// Package cart owns the cart's line items and their monetary aggregation.
// The cart itself lives in the record store; this service enforces the
// variant-merge invariant and serializes quantity adjustments per line.
package cart

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

const (
	freeShippingThreshold = 100.0
	flatShippingRate      = 10.0
	taxRate               = 0.08
)

type Service struct {
	lines store.Records[domain.CartLine]
	now   func() time.Time

	// addMu serializes the merge-or-create decision in AddLine: without it
	// two concurrent adds of a new variant would both miss the lookup and
	// create duplicate lines.
	addMu sync.Mutex

	mu       sync.Mutex
	inFlight map[string]*sync.Mutex // per-line serialization of adjustments
}

func NewService(lines store.Records[domain.CartLine]) *Service {
	return &Service{
		lines:    lines,
		now:      time.Now,
		inFlight: make(map[string]*sync.Mutex),
	}
}

// lineLock returns the mutex serializing adjustments for one line id, so a
// second adjustment waits for the first's store round-trip instead of
// racing it. Locks are kept for the service's lifetime; the map is bounded
// by the number of lines ever touched.
func (s *Service) lineLock(lineID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, exists := s.inFlight[lineID]
	if !exists {
		l = &sync.Mutex{}
		s.inFlight[lineID] = l
	}
	return l
}

// Lines returns the cart's lines in store order.
func (s *Service) Lines(ctx context.Context) ([]domain.CartLine, error) {
	lines, err := s.lines.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// AddLine adds a line to the cart. If a line for the same
// (product, size, color) variant already exists, its quantity is
// incremented instead; the cart never holds two lines for one variant.
// The stored price stays the snapshot taken when the line was first added.
func (s *Service) AddLine(ctx context.Context, line domain.CartLine) (*domain.CartLine, error) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.addMu.Lock()
	defer s.addMu.Unlock()

	existing, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range existing {
		if candidate.SameVariant(line) {
			merged, err := s.mergeLine(ctx, candidate.ID, line.Quantity)
			if err != nil || merged != nil {
				return merged, err
			}
			// The line vanished between lookup and lock; create it fresh.
			break
		}
	}

	line.ID = ""
	line.AddedAt = s.now()
	created, err := s.lines.Create(ctx, line)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart line: %w", err)
	}
	return created, nil
}

// mergeLine adds delta to an existing line's quantity. The merge is an
// adjustment like any other, so it waits behind the line's lock and
// re-reads the quantity inside it rather than trusting the lookup
// snapshot. Returns nil, nil when the line no longer exists.
func (s *Service) mergeLine(ctx context.Context, lineID string, delta int) (*domain.CartLine, error) {
	l := s.lineLock(lineID)
	l.Lock()
	defer l.Unlock()

	current, err := s.lines.Get(ctx, lineID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	return s.setQuantityLocked(ctx, lineID, current.Quantity+delta)
}

// SetQuantity sets a line's quantity. Quantities below 1 are a deliberate
// no-op (removal is a distinct action); the current line is returned
// unchanged. A failed store write leaves the line at its previous quantity.
func (s *Service) SetQuantity(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error) {
	l := s.lineLock(lineID)
	l.Lock()
	defer l.Unlock()

	if quantity < 1 {
		line, err := s.lines.Get(ctx, lineID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart line: %w", err)
		}
		return line, nil
	}

	return s.setQuantityLocked(ctx, lineID, quantity)
}

// Adjust applies a quantity delta, flooring at 1. Decrementing a
// quantity-1 line is a no-op.
func (s *Service) Adjust(ctx context.Context, lineID string, delta int) (*domain.CartLine, error) {
	l := s.lineLock(lineID)
	l.Lock()
	defer l.Unlock()

	line, err := s.lines.Get(ctx, lineID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	if line == nil {
		return nil, nil
	}

	next := line.Quantity + delta
	if next < 1 {
		return line, nil
	}

	return s.setQuantityLocked(ctx, lineID, next)
}

func (s *Service) setQuantityLocked(ctx context.Context, lineID string, quantity int) (*domain.CartLine, error) {
	updated, err := s.lines.Update(ctx, lineID, map[string]any{"quantity": quantity})
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}
	return updated, nil
}

// RemoveLine removes the line by id. A missing id is not an error.
func (s *Service) RemoveLine(ctx context.Context, lineID string) error {
	if _, err := s.lines.Delete(ctx, lineID); err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

// Clear deletes every cart line and returns the ids that failed to delete.
// Partial failure is not an error here: callers decide how to reconcile.
func (s *Service) Clear(ctx context.Context) ([]string, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	return s.DeleteLines(ctx, ids), nil
}

// DeleteLines deletes the given lines, returning the ids that failed.
// Missing ids count as deleted.
func (s *Service) DeleteLines(ctx context.Context, lineIDs []string) []string {
	var failed []string
	for _, id := range lineIDs {
		if _, err := s.lines.Delete(ctx, id); err != nil {
			log.Printf("cart: failed to delete line %v: %v", id, err)
			failed = append(failed, id)
		}
	}
	return failed
}

// Count returns the total quantity across all lines.
func (s *Service) Count(ctx context.Context) (int, error) {
	lines, err := s.Lines(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

// Totals computes the cart's monetary breakdown. Shipping is free above
// the threshold (strictly greater), tax is a flat rate on the subtotal.
// Values are unrounded; round at presentation only.
func Totals(lines []domain.CartLine) domain.CartTotals {
	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}

	shipping := flatShippingRate
	if subtotal > freeShippingThreshold {
		shipping = 0
	}

	tax := subtotal * taxRate

	return domain.CartTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
