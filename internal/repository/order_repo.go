package repository

import (
	"context"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(
	ctx context.Context,
	customerEmail, description string,
	totalAmount int64,
	currency string,
) (int64, error) {
	var id int64
	query := `
		INSERT INTO orders (customeremail, description, totalamount, currency, paymentstatus, createdat)
		VALUES ($1, $2, $3, $4, 'PENDING', NOW())
		RETURNING orderid
	`
	err := r.DB.QueryRow(ctx, query, customerEmail, description, totalAmount, currency).Scan(&id)
	return id, err
}

// GetByID returns the order row for the given orderid
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	query := `SELECT orderid, customeremail, description, totalamount, currency, paymentstatus, createdat FROM orders WHERE orderid=$1`
	var o model.Order
	if err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&o.OrderID, &o.CustomerEmail, &o.Description,
		&o.TotalAmount, &o.Currency, &o.PaymentStatus, &o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
