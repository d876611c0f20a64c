package model

import (
	"time"

	"kaamdham/shared/model"
)

const (
	TableName  = "jobs"
	EntityName = "job"

	FieldID            = "id"
	FieldUserID        = "user_id"
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldCategory      = "category"
	FieldBudget        = "budget"
	FieldPreferredDate = "preferred_date"
	FieldAddress       = "address"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldInstant       = "instant"
	FieldPaymentType   = "payment_type"
	FieldStatus        = "status"

	PaymentTypeCash   = "cash"
	PaymentTypeOnline = "online"
)

// Job covers both posted jobs (freelancers apply over days) and instant
// jobs (nearby freelancers bid right away). Instant jobs have no preferred
// date: work starts as soon as a bid is accepted.
type Job struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	Category      string     `db:"category"`
	Budget        int64      `db:"budget"`
	PreferredDate *time.Time `db:"preferred_date"`
	Address       string     `db:"address"`
	Latitude      float64    `db:"latitude"`
	Longitude     float64    `db:"longitude"`
	Instant       bool       `db:"instant"`
	PaymentType   string     `db:"payment_type"`
	Status        string     `db:"status"`
	model.Metadata
}
