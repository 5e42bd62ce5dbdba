package model

import "time"

type Order struct {
	OrderID       int64         `db:"orderid" json:"order_id"`
	CustomerEmail string        `db:"customeremail" json:"customer_email"`
	Description   string        `db:"description" json:"description"`
	TotalAmount   int64         `db:"totalamount" json:"total_amount"`
	Currency      string        `db:"currency" json:"currency"`
	PaymentStatus PaymentStatus `db:"paymentstatus" json:"payment_status"`
	CreatedAt     time.Time     `db:"createdat" json:"created_at"`
}

type Booking struct {
	BookingID     int64         `db:"bookingid" json:"booking_id"`
	CustomerEmail string        `db:"customeremail" json:"customer_email"`
	RoomName      string        `db:"roomname" json:"room_name"`
	CheckIn       *time.Time    `db:"checkin" json:"check_in"`
	CheckOut      *time.Time    `db:"checkout" json:"check_out"`
	TotalAmount   int64         `db:"totalamount" json:"total_amount"`
	Currency      string        `db:"currency" json:"currency"`
	PaymentStatus PaymentStatus `db:"paymentstatus" json:"payment_status"`
	CreatedAt     time.Time     `db:"createdat" json:"created_at"`
}

type ProjectPayment struct {
	ProjectPaymentID int64         `db:"projectpaymentid" json:"project_payment_id"`
	CustomerEmail    string        `db:"customeremail" json:"customer_email"`
	ProjectName      string        `db:"projectname" json:"project_name"`
	Milestone        string        `db:"milestone" json:"milestone"`
	TotalAmount      int64         `db:"totalamount" json:"total_amount"`
	Currency         string        `db:"currency" json:"currency"`
	PaymentStatus    PaymentStatus `db:"paymentstatus" json:"payment_status"`
	CreatedAt        time.Time     `db:"createdat" json:"created_at"`
}
