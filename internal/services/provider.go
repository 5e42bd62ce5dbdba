package services

import "context"

// CheckoutRequest carries everything a provider needs to open a checkout
// session. Amount is in minor units; Reference is our correlation id and must
// come back on every webhook for this payment.
type CheckoutRequest struct {
	Amount        int64
	Currency      string
	Reference     string
	Description   string
	CustomerEmail string
	CallbackURL   string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	CheckoutURL string
	ProviderRef string
}

type EventOutcome string

const (
	OutcomePaid    EventOutcome = "PAID"
	OutcomeFailed  EventOutcome = "FAILED"
	OutcomeIgnored EventOutcome = "IGNORED"
)

// PaymentEvent is a verified, normalised provider notification.
type PaymentEvent struct {
	Reference  string
	EventType  string
	Outcome    EventOutcome
	ReceiptURL string
	Raw        []byte
}

type CheckoutProvider interface {
	InitializeCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// EventVerifier authenticates one raw inbound notification. A non-nil error
// means the payload could not be trusted; no state may change (fail closed).
// Recognised-but-irrelevant events come back with OutcomeIgnored.
type EventVerifier interface {
	VerifyEvent(rawBody []byte, signature string) (*PaymentEvent, error)
}
