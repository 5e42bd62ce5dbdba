package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"CloudusAPI/internal/services"

	stripesdk "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
}

func ConfigFromEnv() Config {
	return Config{
		SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}
}

type Client struct {
	api           *client.API
	webhookSecret string
}

func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY not set")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET not set")
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

// InitializeCheckout opens a Checkout Session in payment mode. Our reference
// travels as the client reference id and as payment-intent metadata so both
// session and charge events can be correlated back.
func (c *Client) InitializeCheckout(
	ctx context.Context,
	req services.CheckoutRequest,
) (*services.CheckoutSession, error) {

	name := req.Description
	if name == "" {
		name = req.Reference
	}

	params := &stripesdk.CheckoutSessionParams{
		Mode:              stripesdk.String(string(stripesdk.CheckoutSessionModePayment)),
		ClientReferenceID: stripesdk.String(req.Reference),
		SuccessURL:        stripesdk.String(req.SuccessURL),
		CancelURL:         stripesdk.String(req.CancelURL),
		CustomerEmail:     stripesdk.String(req.CustomerEmail),
		LineItems: []*stripesdk.CheckoutSessionLineItemParams{
			{
				Quantity: stripesdk.Int64(1),
				PriceData: &stripesdk.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripesdk.String(strings.ToLower(req.Currency)),
					UnitAmount: stripesdk.Int64(req.Amount),
					ProductData: &stripesdk.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripesdk.String(name),
					},
				},
			},
		},
		PaymentIntentData: &stripesdk.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}

	return &services.CheckoutSession{
		CheckoutURL: sess.URL,
		ProviderRef: sess.ID,
	}, nil
}

// VerifyEvent checks the Stripe-Signature header via the SDK and maps the
// event to a settlement outcome.
func (c *Client) VerifyEvent(rawBody []byte, signature string) (*services.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(rawBody, signature, c.webhookSecret)
	if err != nil {
		return nil, err
	}

	out := &services.PaymentEvent{
		EventType: string(event.Type),
		Outcome:   services.OutcomeIgnored,
		Raw:       rawBody,
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripesdk.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, err
		}
		out.Reference = sess.ClientReferenceID
		out.Outcome = services.OutcomePaid

	case "checkout.session.expired":
		var sess stripesdk.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, err
		}
		out.Reference = sess.ClientReferenceID
		out.Outcome = services.OutcomeFailed

	case "charge.succeeded":
		var ch stripesdk.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, err
		}
		ref, ok := ch.Metadata["reference"]
		if !ok {
			// charge from somewhere other than our checkout flow
			return out, nil
		}
		out.Reference = ref
		out.Outcome = services.OutcomePaid
		out.ReceiptURL = ch.ReceiptURL
	}

	return out, nil
}
