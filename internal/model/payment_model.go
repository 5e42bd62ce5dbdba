package model

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "STRIPE"
	ProviderPaystack PaymentProvider = "PAYSTACK"
	ProviderOzow     PaymentProvider = "OZOW"
)

func ParseProvider(s string) (PaymentProvider, bool) {
	switch PaymentProvider(s) {
	case ProviderStripe, ProviderPaystack, ProviderOzow:
		return PaymentProvider(s), true
	}
	return "", false
}

type EntityType string

const (
	EntityOrder   EntityType = "ORDER"
	EntityProject EntityType = "PROJECT"
	EntityBooking EntityType = "BOOKING"
)

func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityOrder, EntityProject, EntityBooking:
		return EntityType(s), true
	}
	return "", false
}

// Payment is one settlement attempt against a payable entity.
// Reference is ours (deterministic, unique); ProviderRef is the provider's
// session/transaction id and stays nil until checkout has been initialized.
type Payment struct {
	PaymentID       int64           `db:"paymentid" json:"payment_id"`
	EntityType      EntityType      `db:"entitytype" json:"entity_type"`
	EntityID        int64           `db:"entityid" json:"entity_id"`
	Amount          int64           `db:"amount" json:"amount"`
	Currency        string          `db:"currency" json:"currency"`
	Provider        PaymentProvider `db:"provider" json:"provider"`
	Reference       *string         `db:"reference" json:"reference"`
	ProviderRef     *string         `db:"providerref" json:"provider_ref"`
	CheckoutURL     *string         `db:"checkouturl" json:"checkout_url"`
	Status          PaymentStatus   `db:"status" json:"status"`
	ReceiptURL      *string         `db:"receipturl" json:"receipt_url"`
	ProviderPayload []byte          `db:"providerpayload" json:"-"`
	CreatedAt       time.Time       `db:"createdat" json:"created_at"`
	SettledAt       *time.Time      `db:"settledat" json:"settled_at"`
}
