// Package checkout drives the multi-step checkout flow: a linear
// Shipping -> Payment -> Review sequencer with validated forward
// transitions, order placement, and post-placement cart reconciliation.
package checkout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/fjod/stylehub/internal/domain"
)

type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

var (
	ErrSubmitRequired = errors.New("review is the final step; submit the order instead")
	ErrForwardJump    = errors.New("cannot jump forward past validation")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrNotAtReview    = errors.New("submission is only allowed from the review step")
)

// ValidationError reports which required fields are blank. The sequencer's
// state is guaranteed unchanged when one is returned.
type ValidationError struct {
	Step   Step
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s: required fields missing: %v", e.Step, e.Fields)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// required would accept whitespace-only input; the gates must not.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

func gate(step Step, form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate step %s: %w", step, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Step: step, Fields: fields}
}

// Session is one checkout attempt. Form values persist across step
// navigation; only ending the session discards them.
type Session struct {
	ID string

	mu         sync.Mutex
	step       Step
	shipping   domain.ShippingAddress
	payment    domain.PaymentInfo
	submitting bool
}

func NewSession(id string) *Session {
	return &Session{ID: id, step: StepShipping}
}

func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SetShipping stores the shipping form. Allowed at any step: backward
// navigation must not lose edits.
func (s *Session) SetShipping(a domain.ShippingAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipping = a
}

func (s *Session) SetPayment(p domain.PaymentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment = p
}

func (s *Session) Shipping() domain.ShippingAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping
}

func (s *Session) Payment() domain.PaymentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payment
}

// Next advances one step forward. The transition is gated on the current
// step's form; a gate failure leaves the step (and all form state) as-is.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.step {
	case StepShipping:
		if err := gate(StepShipping, s.shipping); err != nil {
			return err
		}
		s.step = StepPayment
	case StepPayment:
		if err := gate(StepPayment, s.payment); err != nil {
			return err
		}
		s.step = StepReview
	default:
		return ErrSubmitRequired
	}
	return nil
}

// Back moves one step backward; a no-op at Shipping.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step > StepShipping {
		s.step--
	}
}

// GoTo jumps to an earlier step. Forward jumps are refused: each forward
// transition must pass its gate via Next.
func (s *Session) GoTo(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step < StepShipping || step > StepReview {
		return fmt.Errorf("no such step: %d", step)
	}
	if step > s.step {
		return ErrForwardJump
	}
	s.step = step
	return nil
}

// beginSubmit flips the submitting flag, re-checking the payment gate
// first. It fails when a submission is already in flight or the session
// is not at Review.
func (s *Session) beginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmitInFlight
	}
	if s.step != StepReview {
		return ErrNotAtReview
	}
	if err := gate(StepPayment, s.payment); err != nil {
		return err
	}

	s.submitting = true
	return nil
}

func (s *Session) endSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}
