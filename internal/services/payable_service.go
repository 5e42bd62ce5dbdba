package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"CloudusAPI/internal/model"
	"CloudusAPI/internal/repository"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// PayableService is the thin CRUD layer for the entities that can be paid.
type PayableService struct {
	Orders   *repository.OrderRepository
	Bookings *repository.BookingRepository
	Projects *repository.ProjectPaymentRepository
}

func NewPayableService(
	or *repository.OrderRepository,
	br *repository.BookingRepository,
	pr *repository.ProjectPaymentRepository,
) *PayableService {
	return &PayableService{Orders: or, Bookings: br, Projects: pr}
}

func validateMoney(amount int64, currency string) error {
	if amount < 0 {
		return errors.New("total amount cannot be negative")
	}
	if !currencyRegex.MatchString(currency) {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}

func (s *PayableService) CreateOrder(
	ctx context.Context,
	customerEmail, description string,
	totalAmount int64,
	currency string,
) (int64, error) {
	if description == "" {
		return 0, errors.New("description is required")
	}
	if err := validateMoney(totalAmount, currency); err != nil {
		return 0, err
	}
	return s.Orders.Create(ctx, customerEmail, description, totalAmount, currency)
}

func (s *PayableService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.Orders.GetByID(ctx, id)
}

func (s *PayableService) CreateBooking(
	ctx context.Context,
	customerEmail, roomName string,
	checkIn, checkOut *time.Time,
	totalAmount int64,
	currency string,
) (int64, error) {
	if roomName == "" {
		return 0, errors.New("room name is required")
	}
	if checkIn != nil && checkOut != nil && !checkOut.After(*checkIn) {
		return 0, errors.New("check-out must be after check-in")
	}
	if err := validateMoney(totalAmount, currency); err != nil {
		return 0, err
	}
	return s.Bookings.Create(ctx, customerEmail, roomName, checkIn, checkOut, totalAmount, currency)
}

func (s *PayableService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

func (s *PayableService) CreateProjectPayment(
	ctx context.Context,
	customerEmail, projectName, milestone string,
	totalAmount int64,
	currency string,
) (int64, error) {
	if projectName == "" || milestone == "" {
		return 0, errors.New("project name and milestone are required")
	}
	if err := validateMoney(totalAmount, currency); err != nil {
		return 0, err
	}
	return s.Projects.Create(ctx, customerEmail, projectName, milestone, totalAmount, currency)
}

func (s *PayableService) GetProjectPayment(ctx context.Context, id int64) (*model.ProjectPayment, error) {
	return s.Projects.GetByID(ctx, id)
}
