package dto

import (
	"time"

	"github.com/google/uuid"

	"kaamdham/internal/domains/job/model"
	"kaamdham/shared"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/lifecycle"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type CreateJobRequest struct {
	Title         string  `json:"title"          validate:"required,min=3,max=100"`
	Description   string  `json:"description"    validate:"omitempty,max=2000"`
	Category      string  `json:"category"       validate:"required,max=100"`
	Budget        int64   `json:"budget"         validate:"required,gt=0"`
	PreferredDate string  `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
	Address       string  `json:"address"        validate:"required,max=500"`
	Latitude      float64 `json:"latitude"       validate:"required,latitude"`
	Longitude     float64 `json:"longitude"      validate:"required,longitude"`
	Instant       bool    `json:"instant"`
}

func (c *CreateJobRequest) ToModel(user string) (model.Job, error) {
	var preferredDate *time.Time

	if c.PreferredDate != constant.Empty {
		parsed, err := time.Parse(constant.DateOnlyFormat, c.PreferredDate)
		if err != nil {
			return model.Job{}, err
		}

		preferredDate = &parsed
	}

	return model.Job{
		ID:            uuid.NewString(),
		UserID:        user,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Budget:        c.Budget,
		PreferredDate: preferredDate,
		Address:       c.Address,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		Instant:       c.Instant,
		PaymentType:   model.PaymentTypeCash,
		Status:        string(lifecycle.StatusOpen),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateJobRequest struct {
	Title         string  `db:"title"          json:"title"          validate:"omitempty,min=3,max=100"`
	Description   string  `db:"description"    json:"description"    validate:"omitempty,max=2000"`
	Category      string  `db:"category"       json:"category"       validate:"omitempty,max=100"`
	Budget        int64   `db:"budget"         json:"budget"         validate:"omitempty,gt=0"`
	PreferredDate string  `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
	Address       string  `db:"address"        json:"address"        validate:"omitempty,max=500"`
	Latitude      float64 `db:"latitude"       json:"latitude"       validate:"omitempty,latitude"`
	Longitude     float64 `db:"longitude"      json:"longitude"      validate:"omitempty,longitude"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=assigned closed deleted"`
}

type JobResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Budget        int64   `json:"budget"`
	PreferredDate string  `json:"preferred_date,omitempty"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Instant       bool    `json:"instant"`
	PaymentType   string  `json:"payment_type"`
	Status        string  `json:"status"`
	DistanceKm    float64 `json:"distance_km,omitempty"`
	gDto.Metadata
}

func (r *JobResponse) FromModel(model model.Job) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Title = model.Title
	r.Description = model.Description
	r.Category = model.Category
	r.Budget = model.Budget

	if model.PreferredDate != nil {
		r.PreferredDate = model.PreferredDate.Format(constant.DateOnlyFormat)
	}

	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.Instant = model.Instant
	r.PaymentType = model.PaymentType
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetJobsResponse struct {
	Jobs      []JobResponse `json:"jobs"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetJobsResponse) FromModels(models []model.Job, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Jobs = make([]JobResponse, len(models))
	for i, m := range models {
		r.Jobs[i].FromModel(m)
	}
}
