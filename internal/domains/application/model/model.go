package model

import "kaamdham/shared/model"

const (
	TableName  = "job_applications"
	EntityName = "job_application"

	FieldID           = "id"
	FieldJobID        = "job_id"
	FieldFreelancerID = "freelancer_id"
	FieldBidAmount    = "bid_amount"
	FieldMessage      = "message"
	FieldPaymentRef   = "payment_ref"
	FieldStatus       = "status"
)

// Application is a freelancer's claim on a job: a pitch on a posted job
// or a bid on an instant one. Both move through the same statuses.
type Application struct {
	ID           string  `db:"id"`
	JobID        string  `db:"job_id"`
	FreelancerID string  `db:"freelancer_id"`
	BidAmount    int64   `db:"bid_amount"`
	Message      string  `db:"message"`
	PaymentRef   *string `db:"payment_ref"`
	Status       string  `db:"status"`
	model.Metadata
}
