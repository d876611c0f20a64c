package dto

import (
	"kaamdham/internal/domains/user/model"
	gDto "kaamdham/shared/dto"
)

type UpdateProfileRequest struct {
	FullName     *string  `db:"full_name"     json:"full_name"     validate:"omitempty,max=100"`
	Email        *string  `db:"email"         json:"email"         validate:"omitempty,email,max=100"`
	ProfileImage *string  `db:"profile_image" json:"profile_image" validate:"omitempty,max=500"`
	Address      *string  `db:"address"       json:"address"       validate:"omitempty,max=500"`
	Latitude     *float64 `db:"latitude"      json:"latitude"      validate:"omitempty,latitude"`
	Longitude    *float64 `db:"longitude"     json:"longitude"     validate:"omitempty,longitude"`
}

type UserResponse struct {
	ID           string   `json:"id"`
	Phone        string   `json:"phone"`
	Role         string   `json:"role"`
	FullName     *string  `json:"full_name"`
	Email        *string  `json:"email"`
	ProfileImage *string  `json:"profile_image"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Latest       bool     `json:"latest"`
	Active       bool     `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Phone = model.Phone
	r.Role = model.Role
	r.FullName = model.FullName
	r.Email = model.Email
	r.ProfileImage = model.ProfileImage
	r.Address = model.Address
	r.Latitude = model.Latitude
	r.Longitude = model.Longitude
	r.Latest = model.Latest
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}
