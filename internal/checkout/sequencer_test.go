package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/stylehub/internal/domain"
)

func validShipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     "jamie@example.com",
		Address:   "12 Elm St",
		City:      "Springfield",
		State:     "IL",
		ZipCode:   "62704",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardNumber:     "4111 1111 1111 1234",
		ExpiryDate:     "12/28",
		CVV:            "123",
		CardholderName: "Jamie Rivera",
	}
}

func TestSession_StartsAtShipping(t *testing.T) {
	sess := NewSession("s1")
	assert.Equal(t, StepShipping, sess.Step())
}

func TestSession_NextBlockedByBlankShippingField(t *testing.T) {
	sess := NewSession("s1")
	shipping := validShipping()
	shipping.City = ""
	sess.SetShipping(shipping)

	err := sess.Next()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepShipping, verr.Step)
	assert.Contains(t, verr.Fields, "City")
	// Step and form state unchanged on a failed gate.
	assert.Equal(t, StepShipping, sess.Step())
	assert.Equal(t, shipping, sess.Shipping())
}

func TestSession_WhitespaceOnlyFieldFailsGate(t *testing.T) {
	sess := NewSession("s1")
	shipping := validShipping()
	shipping.FirstName = "   "
	sess.SetShipping(shipping)

	err := sess.Next()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "FirstName")
}

func TestSession_OptionalFieldsDoNotGate(t *testing.T) {
	sess := NewSession("s1")
	shipping := validShipping()
	shipping.Phone = ""
	shipping.Country = ""
	sess.SetShipping(shipping)

	assert.NoError(t, sess.Next())
	assert.Equal(t, StepPayment, sess.Step())
}

func TestSession_FullForwardWalk(t *testing.T) {
	sess := NewSession("s1")
	sess.SetShipping(validShipping())
	sess.SetPayment(validPayment())

	require.NoError(t, sess.Next())
	assert.Equal(t, StepPayment, sess.Step())

	require.NoError(t, sess.Next())
	assert.Equal(t, StepReview, sess.Step())

	// Review is terminal for Next; submission is a separate action.
	assert.ErrorIs(t, sess.Next(), ErrSubmitRequired)
	assert.Equal(t, StepReview, sess.Step())
}

func TestSession_PaymentGateListsAllBlankFields(t *testing.T) {
	sess := NewSession("s1")
	sess.SetShipping(validShipping())
	require.NoError(t, sess.Next())

	sess.SetPayment(domain.PaymentInfo{})
	err := sess.Next()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepPayment, verr.Step)
	assert.ElementsMatch(t, []string{"CardNumber", "ExpiryDate", "CVV", "CardholderName"}, verr.Fields)
	assert.Equal(t, StepPayment, sess.Step())
}

func TestSession_BackPreservesFormState(t *testing.T) {
	sess := NewSession("s1")
	shipping := validShipping()
	payment := validPayment()
	sess.SetShipping(shipping)
	sess.SetPayment(payment)
	require.NoError(t, sess.Next())
	require.NoError(t, sess.Next())

	sess.Back()
	assert.Equal(t, StepPayment, sess.Step())
	sess.Back()
	assert.Equal(t, StepShipping, sess.Step())
	// A no-op at the first step.
	sess.Back()
	assert.Equal(t, StepShipping, sess.Step())

	assert.Equal(t, shipping, sess.Shipping())
	assert.Equal(t, payment, sess.Payment())
}

func TestSession_GoToRefusesForwardJump(t *testing.T) {
	sess := NewSession("s1")

	err := sess.GoTo(StepReview)
	assert.ErrorIs(t, err, ErrForwardJump)
	assert.Equal(t, StepShipping, sess.Step())

	sess.SetShipping(validShipping())
	sess.SetPayment(validPayment())
	require.NoError(t, sess.Next())
	require.NoError(t, sess.Next())

	// Backward jumps skip intermediate steps freely.
	require.NoError(t, sess.GoTo(StepShipping))
	assert.Equal(t, StepShipping, sess.Step())
}

func TestSession_GoToUnknownStep(t *testing.T) {
	sess := NewSession("s1")
	assert.Error(t, sess.GoTo(Step(9)))
}

func TestSession_BeginSubmitRequiresReview(t *testing.T) {
	sess := NewSession("s1")
	sess.SetPayment(validPayment())

	assert.ErrorIs(t, sess.beginSubmit(), ErrNotAtReview)
}

func TestSession_BeginSubmitRechecksPaymentGate(t *testing.T) {
	sess := NewSession("s1")
	sess.SetShipping(validShipping())
	sess.SetPayment(validPayment())
	require.NoError(t, sess.Next())
	require.NoError(t, sess.Next())

	// Payment mutated after passing its gate; submission must re-check.
	sess.SetPayment(domain.PaymentInfo{})

	var verr *ValidationError
	assert.ErrorAs(t, sess.beginSubmit(), &verr)
}

func TestSession_BeginSubmitBlocksReentry(t *testing.T) {
	sess := NewSession("s1")
	sess.SetShipping(validShipping())
	sess.SetPayment(validPayment())
	require.NoError(t, sess.Next())
	require.NoError(t, sess.Next())

	require.NoError(t, sess.beginSubmit())
	assert.ErrorIs(t, sess.beginSubmit(), ErrSubmitInFlight)

	// endSubmit re-arms the session for a retry.
	sess.endSubmit()
	assert.NoError(t, sess.beginSubmit())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "shipping", StepShipping.String())
	assert.Equal(t, "payment", StepPayment.String())
	assert.Equal(t, "review", StepReview.String())
	assert.Equal(t, "unknown", Step(0).String())
}
