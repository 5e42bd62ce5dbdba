package model

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one verified provider event and what it did to a payment.
type AuditEntry struct {
	AuditID   uuid.UUID `db:"auditid" json:"audit_id"`
	PaymentID int64     `db:"paymentid" json:"payment_id"`
	Provider  string    `db:"provider" json:"provider"`
	EventType string    `db:"eventtype" json:"event_type"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Reference string    `db:"reference" json:"reference"`
	CreatedAt time.Time `db:"createdat" json:"created_at"`
}
