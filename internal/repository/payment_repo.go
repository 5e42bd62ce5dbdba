package repository

import (
	"context"
	"errors"
	"fmt"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// payableTables maps an entity type to its table and primary key column,
// used to mirror settlement status onto the payable row.
var payableTables = map[model.EntityType][2]string{
	model.EntityOrder:   {"orders", "orderid"},
	model.EntityBooking: {"bookings", "bookingid"},
	model.EntityProject: {"projectpayments", "projectpaymentid"},
}

const paymentColumns = `paymentid, entitytype, entityid, amount, currency,
	provider, reference, providerref, checkouturl, status,
	receipturl, providerpayload, createdat, settledat`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.EntityType,
		&p.EntityID,
		&p.Amount,
		&p.Currency,
		&p.Provider,
		&p.Reference,
		&p.ProviderRef,
		&p.CheckoutURL,
		&p.Status,
		&p.ReceiptURL,
		&p.ProviderPayload,
		&p.CreatedAt,
		&p.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) CreatePending(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
	amount int64,
	currency string,
	provider model.PaymentProvider,
) (int64, error) {

	var paymentID int64
	q := `
		INSERT INTO payments
			(entitytype, entityid, amount, currency, provider, status, createdat)
		VALUES
			($1, $2, $3, $4, $5, 'PENDING', NOW())
		RETURNING paymentid
	`
	err := r.DB.QueryRow(
		ctx, q,
		entityType, entityID, amount, currency, provider,
	).Scan(&paymentID)

	return paymentID, err
}

func (r *PaymentRepository) SetReference(
	ctx context.Context,
	paymentID int64,
	reference string,
) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments SET reference=$2 WHERE paymentid=$1
	`, paymentID, reference)
	return err
}

func (r *PaymentRepository) SetProviderSession(
	ctx context.Context,
	paymentID int64,
	providerRef string,
	checkoutURL string,
) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET providerref=$2, checkouturl=$3
		WHERE paymentid=$1
	`, paymentID, providerRef, checkoutURL)
	return err
}

// GetPending returns the open PENDING payment for an entity+provider, or nil.
func (r *PaymentRepository) GetPending(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
	provider model.PaymentProvider,
) (*model.Payment, error) {

	q := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE entitytype=$1 AND entityid=$2 AND provider=$3 AND status='PENDING'
		ORDER BY paymentid
		LIMIT 1
	`
	p, err := scanPayment(r.DB.QueryRow(ctx, q, entityType, entityID, provider))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) HasPaid(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
	provider model.PaymentProvider,
) (bool, error) {

	var exists bool
	q := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE entitytype=$1 AND entityid=$2 AND provider=$3 AND status='PAID'
		)
	`
	err := r.DB.QueryRow(ctx, q, entityType, entityID, provider).Scan(&exists)
	return exists, err
}

func (r *PaymentRepository) GetByReference(
	ctx context.Context,
	reference string,
) (*model.Payment, error) {

	q := `SELECT ` + paymentColumns + ` FROM payments WHERE reference=$1`
	p, err := scanPayment(r.DB.QueryRow(ctx, q, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// MarkPaid transitions a PENDING payment to PAID and mirrors the status onto
// the payable row in the same transaction. Returns false when the payment was
// already terminal (duplicate webhook delivery).
func (r *PaymentRepository) MarkPaid(
	ctx context.Context,
	paymentID int64,
	receiptURL *string,
	payload []byte,
) (bool, error) {

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var (
		entityType model.EntityType
		entityID   int64
	)
	err = tx.QueryRow(ctx, `
		UPDATE payments
		SET status='PAID',
		    receipturl=COALESCE($2, receipturl),
		    providerpayload=$3,
		    settledat=NOW()
		WHERE paymentid=$1 AND status='PENDING'
		RETURNING entitytype, entityid
	`, paymentID, receiptURL, payload).Scan(&entityType, &entityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if err := mirrorPayableStatus(ctx, tx, entityType, entityID, model.PaymentPaid); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// MarkFailed transitions a PENDING payment to FAILED. Same terminal-state
// guard and payable mirror as MarkPaid.
func (r *PaymentRepository) MarkFailed(
	ctx context.Context,
	paymentID int64,
	payload []byte,
) (bool, error) {

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var (
		entityType model.EntityType
		entityID   int64
	)
	err = tx.QueryRow(ctx, `
		UPDATE payments
		SET status='FAILED',
		    providerpayload=$2,
		    settledat=NOW()
		WHERE paymentid=$1 AND status='PENDING'
		RETURNING entitytype, entityid
	`, paymentID, payload).Scan(&entityType, &entityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if err := mirrorPayableStatus(ctx, tx, entityType, entityID, model.PaymentFailed); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

func mirrorPayableStatus(
	ctx context.Context,
	tx pgx.Tx,
	entityType model.EntityType,
	entityID int64,
	status model.PaymentStatus,
) error {
	t, ok := payableTables[entityType]
	if !ok {
		return fmt.Errorf("unknown entity type %q", entityType)
	}
	_, err := tx.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET paymentstatus=$1 WHERE %s=$2`, t[0], t[1],
	), status, entityID)
	return err
}

func (r *PaymentRepository) ListByEntity(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
) ([]model.Payment, error) {

	q := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE entitytype=$1 AND entityid=$2
		ORDER BY paymentid DESC
	`
	rows, err := r.DB.Query(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SummaryRow is one aggregation bucket for the reconciliation report.
type SummaryRow struct {
	Provider   model.PaymentProvider `json:"provider"`
	Status     model.PaymentStatus   `json:"status"`
	Count      int64                 `json:"count"`
	PaidAmount int64                 `json:"paid_amount"`
}

// Summarize returns row counts per provider+status and the sum of settled
// amounts for the PAID buckets.
func (r *PaymentRepository) Summarize(ctx context.Context) ([]SummaryRow, error) {
	q := `
		SELECT provider, status, COUNT(*),
		       COALESCE(SUM(amount) FILTER (WHERE status='PAID'), 0)
		FROM payments
		GROUP BY provider, status
		ORDER BY provider, status
	`
	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var s SummaryRow
		if err := rows.Scan(&s.Provider, &s.Status, &s.Count, &s.PaidAmount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
