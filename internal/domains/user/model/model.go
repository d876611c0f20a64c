package model

import "kaamdham/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldPhone        = "phone"
	FieldRole         = "role"
	FieldPassword     = "password"
	FieldFullName     = "full_name"
	FieldEmail        = "email"
	FieldProfileImage = "profile_image"
	FieldAddress      = "address"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldLatest       = "latest"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"
)

type User struct {
	ID           string   `db:"id"`
	Phone        string   `db:"phone"`
	Role         string   `db:"role"`
	Password     *string  `db:"password"`
	FullName     *string  `db:"full_name"`
	Email        *string  `db:"email"`
	ProfileImage *string  `db:"profile_image"`
	Address      *string  `db:"address"`
	Latitude     *float64 `db:"latitude"`
	Longitude    *float64 `db:"longitude"`
	Latest       bool     `db:"latest"`
	LastLogin    *string  `db:"last_login"`
	Active       bool     `db:"active"`
	model.Metadata
}
