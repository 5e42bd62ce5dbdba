package repository

import (
	"context"
	"time"

	"CloudusAPI/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	DB *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(
	ctx context.Context,
	customerEmail, roomName string,
	checkIn, checkOut *time.Time,
	totalAmount int64,
	currency string,
) (int64, error) {
	var id int64
	query := `
		INSERT INTO bookings (customeremail, roomname, checkin, checkout, totalamount, currency, paymentstatus, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, 'PENDING', NOW())
		RETURNING bookingid
	`
	err := r.DB.QueryRow(ctx, query, customerEmail, roomName, checkIn, checkOut, totalAmount, currency).Scan(&id)
	return id, err
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	query := `SELECT bookingid, customeremail, roomname, checkin, checkout, totalamount, currency, paymentstatus, createdat FROM bookings WHERE bookingid=$1`
	var b model.Booking
	if err := r.DB.QueryRow(ctx, query, bookingID).Scan(
		&b.BookingID, &b.CustomerEmail, &b.RoomName, &b.CheckIn, &b.CheckOut,
		&b.TotalAmount, &b.Currency, &b.PaymentStatus, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
