package repository

import (
	"context"
	"errors"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Payable is the provider-agnostic view of anything that owes money.
type Payable struct {
	Type          model.EntityType
	ID            int64
	TotalAmount   int64 // minor units
	Currency      string
	CustomerEmail string
	Description   string
}

type PayableRepository struct {
	DB *pgxpool.Pool
}

func NewPayableRepository(db *pgxpool.Pool) *PayableRepository {
	return &PayableRepository{DB: db}
}

// GetPayable loads the monetary view of one payable entity, or nil when the
// row does not exist.
func (r *PayableRepository) GetPayable(
	ctx context.Context,
	entityType model.EntityType,
	entityID int64,
) (*Payable, error) {

	var q string
	switch entityType {
	case model.EntityOrder:
		q = `SELECT totalamount, currency, customeremail, description FROM orders WHERE orderid=$1`
	case model.EntityBooking:
		q = `SELECT totalamount, currency, customeremail, roomname FROM bookings WHERE bookingid=$1`
	case model.EntityProject:
		q = `SELECT totalamount, currency, customeremail, projectname FROM projectpayments WHERE projectpaymentid=$1`
	default:
		return nil, errors.New("unknown entity type")
	}

	p := Payable{Type: entityType, ID: entityID}
	err := r.DB.QueryRow(ctx, q, entityID).Scan(
		&p.TotalAmount,
		&p.Currency,
		&p.CustomerEmail,
		&p.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
