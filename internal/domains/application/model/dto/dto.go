package dto

import (
	"github.com/google/uuid"

	"kaamdham/internal/domains/application/model"
	"kaamdham/shared"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/lifecycle"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type ApplyRequest struct {
	JobID     string `json:"job_id"     validate:"required,uuid"`
	BidAmount int64  `json:"bid_amount" validate:"required,gt=0"`
	Message   string `json:"message"    validate:"omitempty,max=1000"`
}

func (a *ApplyRequest) ToModel(freelancer string) model.Application {
	return model.Application{
		ID:           uuid.NewString(),
		JobID:        a.JobID,
		FreelancerID: freelancer,
		BidAmount:    a.BidAmount,
		Message:      a.Message,
		Status:       string(lifecycle.StatusApplied),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  freelancer,
			ModifiedBy: freelancer,
		},
	}
}

type EngagementOTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric,len=4"`
}

type ApplicationResponse struct {
	ID           string  `json:"id"`
	JobID        string  `json:"job_id"`
	FreelancerID string  `json:"freelancer_id"`
	BidAmount    int64   `json:"bid_amount"`
	Message      string  `json:"message"`
	PaymentRef   *string `json:"payment_ref,omitempty"`
	Status       string  `json:"status"`
	gDto.Metadata
}

func (r *ApplicationResponse) FromModel(model model.Application) {
	r.ID = model.ID
	r.JobID = model.JobID
	r.FreelancerID = model.FreelancerID
	r.BidAmount = model.BidAmount
	r.Message = model.Message
	r.PaymentRef = model.PaymentRef
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

// ConfirmResponse carries the payment order created when an online instant
// bid is accepted. Both fields stay empty for cash engagements.
type ConfirmResponse struct {
	PaymentRef   string `json:"payment_ref,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type GetApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetApplicationsResponse) FromModels(models []model.Application, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Applications = make([]ApplicationResponse, len(models))
	for i, m := range models {
		r.Applications[i].FromModel(m)
	}
}
