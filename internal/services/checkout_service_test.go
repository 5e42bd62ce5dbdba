package services

import (
	"context"
	"errors"
	"testing"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
)

type fakePayments struct {
	GetPendingFunc         func(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (*model.Payment, error)
	HasPaidFunc            func(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (bool, error)
	CreatePendingFunc      func(ctx context.Context, et model.EntityType, id int64, amount int64, currency string, p model.PaymentProvider) (int64, error)
	SetReferenceFunc       func(ctx context.Context, paymentID int64, reference string) error
	SetProviderSessionFunc func(ctx context.Context, paymentID int64, providerRef, checkoutURL string) error

	creates  int
	sessions int
}

func (f *fakePayments) GetPending(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (*model.Payment, error) {
	if f.GetPendingFunc != nil {
		return f.GetPendingFunc(ctx, et, id, p)
	}
	return nil, nil
}

func (f *fakePayments) HasPaid(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (bool, error) {
	if f.HasPaidFunc != nil {
		return f.HasPaidFunc(ctx, et, id, p)
	}
	return false, nil
}

func (f *fakePayments) CreatePending(ctx context.Context, et model.EntityType, id int64, amount int64, currency string, p model.PaymentProvider) (int64, error) {
	f.creates++
	if f.CreatePendingFunc != nil {
		return f.CreatePendingFunc(ctx, et, id, amount, currency, p)
	}
	return 1, nil
}

func (f *fakePayments) SetReference(ctx context.Context, paymentID int64, reference string) error {
	if f.SetReferenceFunc != nil {
		return f.SetReferenceFunc(ctx, paymentID, reference)
	}
	return nil
}

func (f *fakePayments) SetProviderSession(ctx context.Context, paymentID int64, providerRef, checkoutURL string) error {
	f.sessions++
	if f.SetProviderSessionFunc != nil {
		return f.SetProviderSessionFunc(ctx, paymentID, providerRef, checkoutURL)
	}
	return nil
}

type fakePayables struct {
	GetPayableFunc func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error)
}

func (f *fakePayables) GetPayable(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
	if f.GetPayableFunc != nil {
		return f.GetPayableFunc(ctx, et, id)
	}
	return nil, nil
}

type fakeProvider struct {
	InitializeFunc func(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	requests       []CheckoutRequest
}

func (f *fakeProvider) InitializeCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	f.requests = append(f.requests, req)
	if f.InitializeFunc != nil {
		return f.InitializeFunc(ctx, req)
	}
	return &CheckoutSession{CheckoutURL: "https://pay.example/" + req.Reference, ProviderRef: "prov-" + req.Reference}, nil
}

func payableFixture(amount int64) *repository.Payable {
	return &repository.Payable{
		Type:          model.EntityOrder,
		ID:            7,
		TotalAmount:   amount,
		Currency:      "ZAR",
		CustomerEmail: "thandi@example.com",
		Description:   "Laundry order",
	}
}

func newCheckoutService(payments *fakePayments, payables *fakePayables, prov *fakeProvider) *CheckoutService {
	return NewCheckoutService(payments, payables,
		map[model.PaymentProvider]CheckoutProvider{model.ProviderStripe: prov},
		"https://api.cloudus.example",
	)
}

func TestInitiateCheckoutEntityNotFound(t *testing.T) {
	payments := &fakePayments{}
	payables := &fakePayables{} // returns nil payable
	svc := newCheckoutService(payments, payables, &fakeProvider{})

	_, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if payments.creates != 0 {
		t.Fatalf("expected no payment rows, got %d", payments.creates)
	}
}

func TestInitiateCheckoutInvalidAmount(t *testing.T) {
	for _, amount := range []int64{0, -500} {
		payments := &fakePayments{}
		payables := &fakePayables{
			GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
				return payableFixture(amount), nil
			},
		}
		svc := newCheckoutService(payments, payables, &fakeProvider{})

		_, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
		if payments.creates != 0 {
			t.Fatalf("amount %d: expected no payment rows, got %d", amount, payments.creates)
		}
	}
}

func TestInitiateCheckoutAlreadySettled(t *testing.T) {
	payments := &fakePayments{
		HasPaidFunc: func(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (bool, error) {
			return true, nil
		},
	}
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	svc := newCheckoutService(payments, payables, &fakeProvider{})

	_, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
	if !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("expected ErrAlreadySettled, got %v", err)
	}
	if payments.creates != 0 {
		t.Fatalf("expected no new payment rows, got %d", payments.creates)
	}
}

func TestInitiateCheckoutProviderNotConfigured(t *testing.T) {
	svc := NewCheckoutService(&fakePayments{}, &fakePayables{},
		map[model.PaymentProvider]CheckoutProvider{}, "https://api.cloudus.example")

	_, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderOzow, 7, "", "")
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestInitiateCheckoutStripeScenario(t *testing.T) {
	payments := &fakePayments{
		CreatePendingFunc: func(ctx context.Context, et model.EntityType, id int64, amount int64, currency string, p model.PaymentProvider) (int64, error) {
			if et != model.EntityOrder || id != 7 {
				t.Fatalf("unexpected entity %s/%d", et, id)
			}
			if amount != 30000 || currency != "ZAR" {
				t.Fatalf("unexpected money %d %s", amount, currency)
			}
			if p != model.ProviderStripe {
				t.Fatalf("unexpected provider %s", p)
			}
			return 12, nil
		},
	}
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	prov := &fakeProvider{}
	svc := newCheckoutService(payments, payables, prov)

	result, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CheckoutURL == "" {
		t.Fatal("expected non-empty checkout URL")
	}
	if result.Reference != "CLD-ORDER-7-12" {
		t.Fatalf("unexpected reference %q", result.Reference)
	}
	if payments.creates != 1 {
		t.Fatalf("expected one payment row, got %d", payments.creates)
	}
	if payments.sessions != 1 {
		t.Fatalf("expected provider session persisted once, got %d", payments.sessions)
	}

	req := prov.requests[0]
	if req.Amount != 30000 || req.Currency != "ZAR" {
		t.Fatalf("provider saw %d %s", req.Amount, req.Currency)
	}
	if req.CustomerEmail != "thandi@example.com" {
		t.Fatalf("provider saw email %q", req.CustomerEmail)
	}
	if req.CallbackURL != "https://api.cloudus.example/cloudus/payments/webhooks/stripe" {
		t.Fatalf("unexpected callback URL %q", req.CallbackURL)
	}
}

func TestInitiateCheckoutReusesPendingReference(t *testing.T) {
	ref := "CLD-ORDER-7-12"
	payments := &fakePayments{
		GetPendingFunc: func(ctx context.Context, et model.EntityType, id int64, p model.PaymentProvider) (*model.Payment, error) {
			return &model.Payment{
				PaymentID: 12,
				Reference: &ref,
				Status:    model.PaymentPending,
			}, nil
		},
	}
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	prov := &fakeProvider{}
	svc := newCheckoutService(payments, payables, prov)

	result, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reference != ref {
		t.Fatalf("expected reused reference %q, got %q", ref, result.Reference)
	}
	if payments.creates != 0 {
		t.Fatalf("expected no new payment row, got %d", payments.creates)
	}
	if len(prov.requests) != 1 || prov.requests[0].Reference != ref {
		t.Fatalf("provider should re-initialize with the pending reference")
	}
}

func TestInitiateCheckoutProviderFailure(t *testing.T) {
	payments := &fakePayments{}
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	prov := &fakeProvider{
		InitializeFunc: func(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
			return nil, errors.New("api key revoked")
		},
	}
	svc := newCheckoutService(payments, payables, prov)

	_, err := svc.InitiateCheckout(context.Background(), model.EntityOrder, model.ProviderStripe, 7, "", "")
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Provider != "STRIPE" {
		t.Fatalf("unexpected provider in error: %q", pe.Provider)
	}
}

func TestInitiateCheckoutCustomURLs(t *testing.T) {
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	prov := &fakeProvider{}
	svc := newCheckoutService(&fakePayments{}, payables, prov)

	_, err := svc.InitiateCheckout(
		context.Background(), model.EntityOrder, model.ProviderStripe, 7,
		"https://shop.example/ok", "https://shop.example/nope",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := prov.requests[0]
	if req.SuccessURL != "https://shop.example/ok" || req.CancelURL != "https://shop.example/nope" {
		t.Fatalf("overrides not passed through: %q %q", req.SuccessURL, req.CancelURL)
	}
}
