package repository

import (
	"context"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectPaymentRepository struct {
	DB *pgxpool.Pool
}

func NewProjectPaymentRepository(db *pgxpool.Pool) *ProjectPaymentRepository {
	return &ProjectPaymentRepository{DB: db}
}

func (r *ProjectPaymentRepository) Create(
	ctx context.Context,
	customerEmail, projectName, milestone string,
	totalAmount int64,
	currency string,
) (int64, error) {
	var id int64
	query := `
		INSERT INTO projectpayments (customeremail, projectname, milestone, totalamount, currency, paymentstatus, createdat)
		VALUES ($1, $2, $3, $4, $5, 'PENDING', NOW())
		RETURNING projectpaymentid
	`
	err := r.DB.QueryRow(ctx, query, customerEmail, projectName, milestone, totalAmount, currency).Scan(&id)
	return id, err
}

func (r *ProjectPaymentRepository) GetByID(ctx context.Context, id int64) (*model.ProjectPayment, error) {
	query := `SELECT projectpaymentid, customeremail, projectname, milestone, totalamount, currency, paymentstatus, createdat FROM projectpayments WHERE projectpaymentid=$1`
	var p model.ProjectPayment
	if err := r.DB.QueryRow(ctx, query, id).Scan(
		&p.ProjectPaymentID, &p.CustomerEmail, &p.ProjectName, &p.Milestone,
		&p.TotalAmount, &p.Currency, &p.PaymentStatus, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
