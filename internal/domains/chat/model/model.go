package model

import "kaamdham/shared/model"

const (
	TableName  = "chat_messages"
	EntityName = "chat_message"

	FieldID       = "id"
	FieldRoomID   = "room_id"
	FieldSenderID = "sender_id"
	FieldBody     = "body"
)

// Message is one chat line in an engagement room. Rooms are keyed by the
// booking or application the two parties share.
type Message struct {
	ID       string `db:"id"`
	RoomID   string `db:"room_id"`
	SenderID string `db:"sender_id"`
	Body     string `db:"body"`
	model.Metadata
}
