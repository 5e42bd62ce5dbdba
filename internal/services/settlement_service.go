package services

import (
	"context"
	"fmt"
	"log"

	"CloudusAPI/internal/model"
)

// SettlementStore is the transition slice of the payment repository. MarkPaid
// and MarkFailed report false when the payment was already terminal.
type SettlementStore interface {
	GetByReference(ctx context.Context, reference string) (*model.Payment, error)
	MarkPaid(ctx context.Context, paymentID int64, receiptURL *string, payload []byte) (bool, error)
	MarkFailed(ctx context.Context, paymentID int64, payload []byte) (bool, error)
}

type AuditLog interface {
	Record(ctx context.Context, paymentID int64, provider, eventType, outcome, reference string) error
}

type ReceiptMailer interface {
	SendReceiptEmail(ctx context.Context, to, reference string, amount int64, currency, receiptURL string) error
}

// SettlementService applies verified provider events to the payment store.
type SettlementService struct {
	Payments  SettlementStore
	Payables  PayableStore
	Audit     AuditLog
	Verifiers map[model.PaymentProvider]EventVerifier
	Mailer    ReceiptMailer // nil disables receipt emails
}

func NewSettlementService(
	payments SettlementStore,
	payables PayableStore,
	audit AuditLog,
	verifiers map[model.PaymentProvider]EventVerifier,
	mailer ReceiptMailer,
) *SettlementService {
	return &SettlementService{
		Payments:  payments,
		Payables:  payables,
		Audit:     audit,
		Verifiers: verifiers,
		Mailer:    mailer,
	}
}

// HandleEvent verifies one inbound notification and, when it maps to a
// settlement outcome, transitions the matching payment. Unverifiable payloads
// change nothing; duplicate deliveries are acknowledged as no-ops.
func (s *SettlementService) HandleEvent(
	ctx context.Context,
	provider model.PaymentProvider,
	rawBody []byte,
	signature string,
) error {

	verifier, ok := s.Verifiers[provider]
	if !ok {
		return ErrProviderNotConfigured
	}

	event, err := verifier.VerifyEvent(rawBody, signature)
	if err != nil {
		log.Printf("webhook rejected: %s: %v", provider, err)
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	if event.Outcome == OutcomeIgnored {
		return nil
	}

	payment, err := s.Payments.GetByReference(ctx, event.Reference)
	if err != nil {
		return err
	}
	if payment == nil {
		return fmt.Errorf("%w: no payment for reference %q", ErrNotFound, event.Reference)
	}

	var applied bool
	switch event.Outcome {
	case OutcomePaid:
		var receiptURL *string
		if event.ReceiptURL != "" {
			receiptURL = &event.ReceiptURL
		}
		applied, err = s.Payments.MarkPaid(ctx, payment.PaymentID, receiptURL, event.Raw)
	case OutcomeFailed:
		applied, err = s.Payments.MarkFailed(ctx, payment.PaymentID, event.Raw)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	outcome := string(event.Outcome)
	if !applied {
		outcome = "DUPLICATE"
	}
	if err := s.Audit.Record(
		ctx, payment.PaymentID,
		string(provider), event.EventType, outcome, event.Reference,
	); err != nil {
		return err
	}

	if applied && event.Outcome == OutcomePaid && s.Mailer != nil {
		s.sendReceipt(ctx, payment, event)
	}

	return nil
}

// sendReceipt is best-effort; a mail failure never fails the webhook.
func (s *SettlementService) sendReceipt(
	ctx context.Context,
	payment *model.Payment,
	event *PaymentEvent,
) {
	payable, err := s.Payables.GetPayable(ctx, payment.EntityType, payment.EntityID)
	if err != nil || payable == nil {
		log.Printf("receipt email skipped: payable %s/%d not loadable: %v",
			payment.EntityType, payment.EntityID, err)
		return
	}
	if err := s.Mailer.SendReceiptEmail(
		ctx,
		payable.CustomerEmail,
		event.Reference,
		payment.Amount,
		payment.Currency,
		event.ReceiptURL,
	); err != nil {
		log.Printf("receipt email failed for %s: %v", event.Reference, err)
	}
}
