package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// ShippingAddress holds the checkout shipping form values. Phone and
// Country are optional; everything else gates the Shipping step.
type ShippingAddress struct {
	FirstName string `bson:"first_name" json:"firstName" validate:"notblank"`
	LastName  string `bson:"last_name" json:"lastName" validate:"notblank"`
	Email     string `bson:"email" json:"email" validate:"notblank"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string `bson:"address" json:"address" validate:"notblank"`
	City      string `bson:"city" json:"city" validate:"notblank"`
	State     string `bson:"state" json:"state" validate:"notblank"`
	ZipCode   string `bson:"zip_code" json:"zipCode" validate:"notblank"`
	Country   string `bson:"country,omitempty" json:"country,omitempty"`
}

// PaymentInfo holds the checkout payment form values. The full card
// number only ever lives in the form; orders persist the redacted form.
type PaymentInfo struct {
	CardNumber     string `bson:"card_number" json:"cardNumber" validate:"notblank"`
	ExpiryDate     string `bson:"expiry_date" json:"expiryDate" validate:"notblank"`
	CVV            string `bson:"cvv,omitempty" json:"cvv,omitempty" validate:"notblank"`
	CardholderName string `bson:"cardholder_name" json:"cardholderName" validate:"notblank"`
}

// Redacted returns a copy safe to persist: the card number is reduced to
// its last four digits and the CVV is dropped entirely.
func (p PaymentInfo) Redacted() PaymentInfo {
	redacted := PaymentInfo{
		ExpiryDate:     p.ExpiryDate,
		CardholderName: p.CardholderName,
	}

	digits := strings.ReplaceAll(p.CardNumber, " ", "")
	if digits == "" {
		return redacted
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	redacted.CardNumber = "**** **** **** " + digits
	return redacted
}

// Order is created once at checkout submission and immutable afterwards.
// Items is a snapshot of the cart lines at submission time.
type Order struct {
	ID              string          `bson:"_id,omitempty" json:"id"`
	OrderNumber     string          `bson:"order_number" json:"orderNumber"`
	Items           []CartLine      `bson:"items" json:"items"`
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`
	PaymentInfo     PaymentInfo     `bson:"payment_info" json:"paymentInfo"`
	Total           float64         `bson:"total" json:"total"`
	Status          OrderStatus     `bson:"status" json:"status"`
	CreatedAt       time.Time       `bson:"created_at" json:"createdAt"`
}
