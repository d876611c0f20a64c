package dto

import (
	"time"

	"github.com/google/uuid"

	"kaamdham/internal/domains/booking/model"
	"kaamdham/shared"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/lifecycle"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type CreateBookingRequest struct {
	OfferingID  string  `json:"offering_id"  validate:"required,uuid"`
	BookingDate string  `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string  `json:"time_slot"    validate:"required,max=50"`
	Address     string  `json:"address"      validate:"required,max=500"`
	Latitude    float64 `json:"latitude"     validate:"required,latitude"`
	Longitude   float64 `json:"longitude"    validate:"required,longitude"`
	PaymentType string  `json:"payment_type" validate:"required,oneof=cash online"`
}

func (c *CreateBookingRequest) ToModel(user, freelancer string, amount int64) (model.Booking, error) {
	bookingDate, err := time.ParseInLocation(constant.DateOnlyFormat, c.BookingDate, timezone.GetLocation())
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:           uuid.NewString(),
		UserID:       user,
		FreelancerID: freelancer,
		OfferingID:   c.OfferingID,
		BookingDate:  bookingDate,
		TimeSlot:     c.TimeSlot,
		Address:      c.Address,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		PaymentType:  c.PaymentType,
		Amount:       amount,
		Status:       string(lifecycle.StatusBooked),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type EngagementOTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric,len=4"`
}

type BookingResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	FreelancerID string  `json:"freelancer_id"`
	OfferingID   string  `json:"offering_id"`
	BookingDate  string  `json:"booking_date"`
	TimeSlot     string  `json:"time_slot"`
	Address      string  `json:"address"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	PaymentType  string  `json:"payment_type"`
	Amount       int64   `json:"amount"`
	Status       string  `json:"status"`
	ClientSecret string  `json:"client_secret,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.FreelancerID = model.FreelancerID
	r.OfferingID = model.OfferingID
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyFormat)
	r.TimeSlot = model.TimeSlot
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.PaymentType = model.PaymentType
	r.Amount = model.Amount
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, m := range models {
		r.Bookings[i].FromModel(m)
	}
}

// EngagementResponse is one row in a freelancer's work feed, covering both
// direct bookings and hired job applications.
type EngagementResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Date      string `json:"date,omitempty"`
}

type FreelancerBookingsResponse struct {
	All            []EngagementResponse `json:"all"`
	AllTotal       int                  `json:"all_total"`
	Completed      []EngagementResponse `json:"completed"`
	CompletedTotal int                  `json:"completed_total"`
}
