package services

import (
	"context"
	"fmt"
	"strings"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
)

// PaymentStore is the slice of the payment repository the initiator needs.
type PaymentStore interface {
	GetPending(ctx context.Context, entityType model.EntityType, entityID int64, provider model.PaymentProvider) (*model.Payment, error)
	HasPaid(ctx context.Context, entityType model.EntityType, entityID int64, provider model.PaymentProvider) (bool, error)
	CreatePending(ctx context.Context, entityType model.EntityType, entityID int64, amount int64, currency string, provider model.PaymentProvider) (int64, error)
	SetReference(ctx context.Context, paymentID int64, reference string) error
	SetProviderSession(ctx context.Context, paymentID int64, providerRef, checkoutURL string) error
}

type PayableStore interface {
	GetPayable(ctx context.Context, entityType model.EntityType, entityID int64) (*repository.Payable, error)
}

type CheckoutService struct {
	Payments  PaymentStore
	Payables  PayableStore
	Providers map[model.PaymentProvider]CheckoutProvider

	// PublicBaseURL is where providers reach us back, e.g. https://api.cloudus.co.za
	PublicBaseURL string
}

func NewCheckoutService(
	payments PaymentStore,
	payables PayableStore,
	providers map[model.PaymentProvider]CheckoutProvider,
	publicBaseURL string,
) *CheckoutService {
	return &CheckoutService{
		Payments:      payments,
		Payables:      payables,
		Providers:     providers,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

type CheckoutResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	Reference   string `json:"reference"`
}

// InitiateCheckout opens (or re-opens) a provider checkout session for one
// payable entity. A PENDING payment for the same provider is reused so the
// reference stays stable across repeated initiations.
func (s *CheckoutService) InitiateCheckout(
	ctx context.Context,
	entityType model.EntityType,
	provider model.PaymentProvider,
	entityID int64,
	successURL, cancelURL string,
) (*CheckoutResult, error) {

	prov, ok := s.Providers[provider]
	if !ok {
		return nil, ErrProviderNotConfigured
	}

	payable, err := s.Payables.GetPayable(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if payable == nil {
		return nil, ErrNotFound
	}

	if payable.TotalAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	paid, err := s.Payments.HasPaid(ctx, entityType, entityID, provider)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrAlreadySettled
	}

	// Reuse the open attempt if one exists; otherwise create a fresh row and
	// derive its reference from entity id + payment id.
	var (
		paymentID int64
		reference string
	)
	pending, err := s.Payments.GetPending(ctx, entityType, entityID, provider)
	if err != nil {
		return nil, err
	}
	if pending != nil && pending.Reference != nil {
		paymentID = pending.PaymentID
		reference = *pending.Reference
	} else {
		paymentID, err = s.Payments.CreatePending(
			ctx, entityType, entityID,
			payable.TotalAmount, payable.Currency, provider,
		)
		if err != nil {
			return nil, err
		}
		reference = fmt.Sprintf("CLD-%s-%d-%d", entityType, entityID, paymentID)
		if err := s.Payments.SetReference(ctx, paymentID, reference); err != nil {
			return nil, err
		}
	}

	if successURL == "" {
		successURL = s.PublicBaseURL + "/payments/complete"
	}
	if cancelURL == "" {
		cancelURL = s.PublicBaseURL + "/payments/cancelled"
	}

	sess, err := prov.InitializeCheckout(ctx, CheckoutRequest{
		Amount:        payable.TotalAmount,
		Currency:      payable.Currency,
		Reference:     reference,
		Description:   payable.Description,
		CustomerEmail: payable.CustomerEmail,
		CallbackURL:   s.PublicBaseURL + "/cloudus/payments/webhooks/" + strings.ToLower(string(provider)),
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Metadata: map[string]string{
			"reference":   reference,
			"entity_type": string(entityType),
		},
	})
	if err != nil {
		return nil, &ProviderError{Provider: string(provider), Err: err}
	}

	if err := s.Payments.SetProviderSession(ctx, paymentID, sess.ProviderRef, sess.CheckoutURL); err != nil {
		return nil, err
	}

	return &CheckoutResult{
		CheckoutURL: sess.CheckoutURL,
		Reference:   reference,
	}, nil
}
