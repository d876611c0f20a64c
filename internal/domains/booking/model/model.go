package model

import (
	"time"

	"kaamdham/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldFreelancerID = "freelancer_id"
	FieldOfferingID   = "offering_id"
	FieldBookingDate  = "booking_date"
	FieldTimeSlot     = "time_slot"
	FieldAddress      = "address"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldPaymentType  = "payment_type"
	FieldPaymentRef   = "payment_ref"
	FieldAmount       = "amount"
	FieldStatus       = "status"
)

const (
	PaymentTypeCash   = "cash"
	PaymentTypeOnline = "online"
)

type Booking struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	FreelancerID string    `db:"freelancer_id"`
	OfferingID   string    `db:"offering_id"`
	BookingDate  time.Time `db:"booking_date"`
	TimeSlot     string    `db:"time_slot"`
	Address      string    `db:"address"`
	Latitude     float64   `db:"latitude"`
	Longitude    float64   `db:"longitude"`
	PaymentType  string    `db:"payment_type"`
	PaymentRef   *string   `db:"payment_ref"`
	Amount       int64     `db:"amount"`
	Status       string    `db:"status"`
	model.Metadata
}
