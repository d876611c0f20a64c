package model

import (
	"github.com/lib/pq"

	"kaamdham/shared/model"
)

const (
	TableName  = "offerings"
	EntityName = "offering"

	FieldID           = "id"
	FieldFreelancerID = "freelancer_id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldPrice        = "price"
	FieldImages       = "images"
	FieldActive       = "active"
)

type Offering struct {
	ID           string         `db:"id"`
	FreelancerID string         `db:"freelancer_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Category     string         `db:"category"`
	Price        int64          `db:"price"`
	Images       pq.StringArray `db:"images"`
	Active       bool           `db:"active"`
	model.Metadata
}
