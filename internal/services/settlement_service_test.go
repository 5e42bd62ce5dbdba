package services

import (
	"context"
	"errors"
	"testing"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
)

type fakeSettlementStore struct {
	GetByReferenceFunc func(ctx context.Context, reference string) (*model.Payment, error)
	MarkPaidFunc       func(ctx context.Context, paymentID int64, receiptURL *string, payload []byte) (bool, error)
	MarkFailedFunc     func(ctx context.Context, paymentID int64, payload []byte) (bool, error)

	paids, faileds int
}

func (f *fakeSettlementStore) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	if f.GetByReferenceFunc != nil {
		return f.GetByReferenceFunc(ctx, reference)
	}
	return nil, nil
}

func (f *fakeSettlementStore) MarkPaid(ctx context.Context, paymentID int64, receiptURL *string, payload []byte) (bool, error) {
	f.paids++
	if f.MarkPaidFunc != nil {
		return f.MarkPaidFunc(ctx, paymentID, receiptURL, payload)
	}
	return true, nil
}

func (f *fakeSettlementStore) MarkFailed(ctx context.Context, paymentID int64, payload []byte) (bool, error) {
	f.faileds++
	if f.MarkFailedFunc != nil {
		return f.MarkFailedFunc(ctx, paymentID, payload)
	}
	return true, nil
}

type fakeVerifier struct {
	VerifyFunc func(rawBody []byte, signature string) (*PaymentEvent, error)
}

func (f *fakeVerifier) VerifyEvent(rawBody []byte, signature string) (*PaymentEvent, error) {
	return f.VerifyFunc(rawBody, signature)
}

type auditCall struct {
	paymentID int64
	outcome   string
}

type fakeAudit struct {
	calls []auditCall
}

func (f *fakeAudit) Record(ctx context.Context, paymentID int64, provider, eventType, outcome, reference string) error {
	f.calls = append(f.calls, auditCall{paymentID: paymentID, outcome: outcome})
	return nil
}

type mailCall struct {
	to, reference string
}

type fakeMailer struct {
	calls []mailCall
}

func (f *fakeMailer) SendReceiptEmail(ctx context.Context, to, reference string, amount int64, currency, receiptURL string) error {
	f.calls = append(f.calls, mailCall{to: to, reference: reference})
	return nil
}

func pendingPayment(ref string) *model.Payment {
	return &model.Payment{
		PaymentID:  12,
		EntityType: model.EntityOrder,
		EntityID:   7,
		Amount:     30000,
		Currency:   "ZAR",
		Provider:   model.ProviderOzow,
		Reference:  &ref,
		Status:     model.PaymentPending,
	}
}

func newSettlementService(store *fakeSettlementStore, verifier *fakeVerifier, audit *fakeAudit, mailer ReceiptMailer) *SettlementService {
	payables := &fakePayables{
		GetPayableFunc: func(ctx context.Context, et model.EntityType, id int64) (*repository.Payable, error) {
			return payableFixture(30000), nil
		},
	}
	return NewSettlementService(store, payables, audit,
		map[model.PaymentProvider]EventVerifier{model.ProviderOzow: verifier},
		mailer,
	)
}

func TestHandleEventBadSignature(t *testing.T) {
	store := &fakeSettlementStore{}
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return nil, errors.New("hash mismatch")
		},
	}
	svc := newSettlementService(store, verifier, &fakeAudit{}, nil)

	err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{}`), "")
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
	if store.paids != 0 || store.faileds != 0 {
		t.Fatal("unverified event must not mutate the store")
	}
}

func TestHandleEventIgnoredOutcome(t *testing.T) {
	store := &fakeSettlementStore{}
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return &PaymentEvent{EventType: "ozow.pending", Outcome: OutcomeIgnored}, nil
		},
	}
	svc := newSettlementService(store, verifier, &fakeAudit{}, nil)

	if err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{}`), ""); err != nil {
		t.Fatalf("ignored event should ack cleanly, got %v", err)
	}
	if store.paids != 0 || store.faileds != 0 {
		t.Fatal("ignored event must not mutate the store")
	}
}

func TestHandleEventUnknownReference(t *testing.T) {
	store := &fakeSettlementStore{} // GetByReference → nil
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return &PaymentEvent{Reference: "CLD-ORDER-9-99", Outcome: OutcomePaid}, nil
		},
	}
	svc := newSettlementService(store, verifier, &fakeAudit{}, nil)

	err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{}`), "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.paids != 0 {
		t.Fatal("unknown reference must not mutate the store")
	}
}

func TestHandleEventPaid(t *testing.T) {
	ref := "CLD-ORDER-7-12"
	var gotReceipt *string
	store := &fakeSettlementStore{
		GetByReferenceFunc: func(ctx context.Context, reference string) (*model.Payment, error) {
			if reference != ref {
				t.Fatalf("looked up wrong reference %q", reference)
			}
			return pendingPayment(ref), nil
		},
		MarkPaidFunc: func(ctx context.Context, paymentID int64, receiptURL *string, payload []byte) (bool, error) {
			gotReceipt = receiptURL
			return true, nil
		},
	}
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return &PaymentEvent{
				Reference:  ref,
				EventType:  "ozow.complete",
				Outcome:    OutcomePaid,
				ReceiptURL: "https://pay.ozow.com/receipt/1",
				Raw:        rawBody,
			}, nil
		},
	}
	audit := &fakeAudit{}
	mailer := &fakeMailer{}
	svc := newSettlementService(store, verifier, audit, mailer)

	if err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{"Status":"Complete"}`), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.paids != 1 {
		t.Fatalf("expected one MarkPaid, got %d", store.paids)
	}
	if gotReceipt == nil || *gotReceipt != "https://pay.ozow.com/receipt/1" {
		t.Fatalf("receipt URL not passed through: %v", gotReceipt)
	}
	if len(audit.calls) != 1 || audit.calls[0].outcome != "PAID" {
		t.Fatalf("unexpected audit calls: %+v", audit.calls)
	}
	if len(mailer.calls) != 1 || mailer.calls[0].to != "thandi@example.com" {
		t.Fatalf("expected one receipt email to the customer, got %+v", mailer.calls)
	}
}

func TestHandleEventPaidTwiceIsNoOp(t *testing.T) {
	ref := "CLD-ORDER-7-12"
	applied := true
	store := &fakeSettlementStore{
		GetByReferenceFunc: func(ctx context.Context, reference string) (*model.Payment, error) {
			return pendingPayment(ref), nil
		},
		MarkPaidFunc: func(ctx context.Context, paymentID int64, receiptURL *string, payload []byte) (bool, error) {
			// first delivery applies, second finds the row already PAID
			was := applied
			applied = false
			return was, nil
		},
	}
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return &PaymentEvent{Reference: ref, EventType: "charge.success", Outcome: OutcomePaid}, nil
		},
	}
	audit := &fakeAudit{}
	mailer := &fakeMailer{}
	svc := newSettlementService(store, verifier, audit, mailer)

	for i := 0; i < 2; i++ {
		if err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{}`), ""); err != nil {
			t.Fatalf("delivery %d: unexpected error: %v", i+1, err)
		}
	}
	if store.paids != 2 {
		t.Fatalf("expected two MarkPaid attempts, got %d", store.paids)
	}
	if len(audit.calls) != 2 || audit.calls[0].outcome != "PAID" || audit.calls[1].outcome != "DUPLICATE" {
		t.Fatalf("unexpected audit trail: %+v", audit.calls)
	}
	if len(mailer.calls) != 1 {
		t.Fatalf("duplicate delivery must not re-send the receipt, got %d emails", len(mailer.calls))
	}
}

func TestHandleEventFailed(t *testing.T) {
	ref := "CLD-ORDER-7-12"
	store := &fakeSettlementStore{
		GetByReferenceFunc: func(ctx context.Context, reference string) (*model.Payment, error) {
			return pendingPayment(ref), nil
		},
	}
	verifier := &fakeVerifier{
		VerifyFunc: func(rawBody []byte, signature string) (*PaymentEvent, error) {
			return &PaymentEvent{Reference: ref, EventType: "ozow.cancelled", Outcome: OutcomeFailed}, nil
		},
	}
	audit := &fakeAudit{}
	mailer := &fakeMailer{}
	svc := newSettlementService(store, verifier, audit, mailer)

	if err := svc.HandleEvent(context.Background(), model.ProviderOzow, []byte(`{}`), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.faileds != 1 || store.paids != 0 {
		t.Fatalf("expected one MarkFailed, got paid=%d failed=%d", store.paids, store.faileds)
	}
	if len(mailer.calls) != 0 {
		t.Fatal("failed payment must not send a receipt")
	}
	if len(audit.calls) != 1 || audit.calls[0].outcome != "FAILED" {
		t.Fatalf("unexpected audit trail: %+v", audit.calls)
	}
}

func TestHandleEventProviderNotConfigured(t *testing.T) {
	svc := NewSettlementService(&fakeSettlementStore{}, &fakePayables{}, &fakeAudit{},
		map[model.PaymentProvider]EventVerifier{}, nil)

	err := svc.HandleEvent(context.Background(), model.ProviderStripe, []byte(`{}`), "")
	if !errors.Is(err, ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}
