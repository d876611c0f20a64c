package dto

import (
	"time"

	"github.com/google/uuid"

	"kaamdham/internal/domains/chat/model"
	"kaamdham/shared"
	gModel "kaamdham/shared/model"
	"kaamdham/shared/timezone"
)

type SendMessageRequest struct {
	RoomID string `json:"room_id" validate:"required,uuid"`
	Body   string `json:"body"    validate:"required,max=4000"`
}

func (s *SendMessageRequest) ToModel(sender string) model.Message {
	return model.Message{
		ID:       uuid.NewString(),
		RoomID:   s.RoomID,
		SenderID: sender,
		Body:     s.Body,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  sender,
			ModifiedBy: sender,
		},
	}
}

type MessageResponse struct {
	ID       string `json:"id"`
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

func (r *MessageResponse) FromModel(model model.Message) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.SenderID = model.SenderID
	r.Body = model.Body
	r.SentAt = model.CreatedAt.Format(time.RFC3339)
}

type GetMessagesResponse struct {
	Messages  []MessageResponse `json:"messages"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetMessagesResponse) FromModels(models []model.Message, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Messages = make([]MessageResponse, len(models))
	for i, m := range models {
		r.Messages[i].FromModel(m)
	}
}
