package repository

import (
	"context"

	"CloudusAPI/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository struct {
	DB *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Record appends one audit entry for a verified provider event.
func (r *AuditRepository) Record(
	ctx context.Context,
	paymentID int64,
	provider, eventType, outcome, reference string,
) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO paymentaudit (auditid, paymentid, provider, eventtype, outcome, reference, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, uuid.New(), paymentID, provider, eventType, outcome, reference)
	return err
}

func (r *AuditRepository) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT auditid, paymentid, provider, eventtype, outcome, reference, createdat
		FROM paymentaudit
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(
			&e.AuditID, &e.PaymentID, &e.Provider,
			&e.EventType, &e.Outcome, &e.Reference, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
