package dto

import (
	"github.com/google/uuid"

	appDto "kaamdham/internal/domains/application/model/dto"
	jobModel "kaamdham/internal/domains/job/model"
	jobDto "kaamdham/internal/domains/job/model/dto"
	"kaamdham/shared/lifecycle"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type PostInstantRequest struct {
	Title       string  `json:"title"       validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Category    string  `json:"category"    validate:"required,max=100"`
	Budget      int64   `json:"budget"      validate:"required,gt=0"`
	Address     string  `json:"address"     validate:"required,max=500"`
	Latitude    float64 `json:"latitude"     validate:"required,latitude"`
	Longitude   float64 `json:"longitude"    validate:"required,longitude"`
	PaymentType string  `json:"payment_type" validate:"required,oneof=cash online"`
}

// ToModel builds an instant job. Instant jobs carry no preferred date:
// work starts as soon as a bid is accepted.
func (p *PostInstantRequest) ToModel(user string) jobModel.Job {
	return jobModel.Job{
		ID:          uuid.NewString(),
		UserID:      user,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Budget:      p.Budget,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Instant:     true,
		PaymentType: p.PaymentType,
		Status:      string(lifecycle.StatusOpen),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type BidRequest struct {
	JobID     string `json:"job_id"     validate:"required,uuid"`
	BidAmount int64  `json:"bid_amount" validate:"required,gt=0"`
	Message   string `json:"message"    validate:"omitempty,max=1000"`
}

// OpenInstantResponse reports the caller's live instant booking. Booking is
// null when there is none, never an error.
type OpenInstantResponse struct {
	Booking *jobDto.JobResponse          `json:"booking"`
	Bids    []appDto.ApplicationResponse `json:"bids,omitempty"`
}

type NearbyInstantResponse struct {
	Jobs      []jobDto.JobResponse `json:"jobs"`
	TotalData int                  `json:"total_data"`
}
