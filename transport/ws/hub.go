package ws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"kaamdham/internal/domains/chat/model/dto"
)

// Hub fans chat messages out to every connection in a room. One connection
// belongs to exactly one room for its lifetime.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
}

type outbound struct {
	roomID  string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound),
		done:       make(chan struct{}),
	}
}

// Run owns the room map. It must be the only goroutine touching it. When it
// returns, done is closed so pending channel sends do not strand goroutines.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for roomID, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}

				delete(h.rooms, roomID)
			}

			return
		case client := <-h.register:
			if h.rooms[client.roomID] == nil {
				h.rooms[client.roomID] = make(map[*Client]bool)
			}

			h.rooms[client.roomID][client] = true

			log.Info().Str("room", client.roomID).Str("user", client.userID).Msg("chat client joined")
		case client := <-h.unregister:
			if clients, ok := h.rooms[client.roomID]; ok {
				if clients[client] {
					delete(clients, client)
					close(client.send)
				}

				if len(clients) == 0 {
					delete(h.rooms, client.roomID)
				}
			}

			log.Info().Str("room", client.roomID).Str("user", client.userID).Msg("chat client left")
		case message := <-h.broadcast:
			for client := range h.rooms[message.roomID] {
				select {
				case client.send <- message.payload:
				default:
					// Slow consumer, drop the connection rather than the room.
					delete(h.rooms[message.roomID], client)
					close(client.send)
				}
			}
		}
	}
}

// Publish serializes a stored message and hands it to every connection in
// its room.
func (h *Hub) Publish(message dto.MessageResponse) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal chat message")

		return
	}

	select {
	case h.broadcast <- outbound{roomID: message.RoomID, payload: payload}:
	case <-h.done:
	}
}
