package dto

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"kaamdham/internal/domains/offering/model"
	"kaamdham/shared"
	gDto "kaamdham/shared/dto"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type CreateOfferingRequest struct {
	Title       string   `json:"title"       validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Category    string   `json:"category"    validate:"required,max=100"`
	Price       int64    `json:"price"       validate:"required,gt=0"`
	Images      []string `json:"images"      validate:"omitempty,dive,url"`
}

func (c *CreateOfferingRequest) ToModel(freelancerID string) model.Offering {
	return model.Offering{
		ID:           uuid.NewString(),
		FreelancerID: freelancerID,
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Price:        c.Price,
		Images:       pq.StringArray(c.Images),
		Active:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  freelancerID,
			ModifiedBy: freelancerID,
		},
	}
}

type UpdateOfferingRequest struct {
	Title       string   `db:"title"       json:"title"       validate:"omitempty,min=3,max=100"`
	Description string   `db:"description" json:"description" validate:"omitempty,max=2000"`
	Category    string   `db:"category"    json:"category"    validate:"omitempty,max=100"`
	Price       int64    `db:"price"       json:"price"       validate:"omitempty,gt=0"`
	Images      []string `db:"images"      json:"images"      validate:"omitempty,dive,url"`
}

type OfferingResponse struct {
	ID           string   `json:"id"`
	FreelancerID string   `json:"freelancer_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        int64    `json:"price"`
	Images       []string `json:"images"`
	Active       bool     `json:"active"`
	gDto.Metadata
}

func (r *OfferingResponse) FromModel(model model.Offering) {
	r.ID = model.ID
	r.FreelancerID = model.FreelancerID
	r.Title = model.Title
	r.Description = model.Description
	r.Category = model.Category
	r.Price = model.Price
	r.Images = model.Images
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetOfferingsResponse struct {
	Offerings []OfferingResponse `json:"offerings"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetOfferingsResponse) FromModels(models []model.Offering, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Offerings = make([]OfferingResponse, len(models))
	for i, m := range models {
		r.Offerings[i].FromModel(m)
	}
}

type UploadImagesRequest struct {
	Images     []*multipart.FileHeader `json:"images" swaggerignore:"true" validate:"required,min=1,dive,required"`
	ImageFiles []multipart.File        `json:"-"`
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}

type DeleteImagesRequest struct {
	ImageURLs []string `json:"image_urls" validate:"required,min=1,dive,url"`
}
