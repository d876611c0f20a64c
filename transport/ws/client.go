package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/internal/domains/chat/model/dto"
	chatService "kaamdham/internal/domains/chat/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Client is one websocket connection pinned to a chat room.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	roomID  string
	userID  string
	service chatService.Chat
	cfg     *config.Config
}

type inbound struct {
	Body string `json:"body"`
}

// Serve upgrades the request and starts the read and write pumps. The
// caller must have authorized the user for the room already.
func Serve(
	hub *Hub,
	service chatService.Chat,
	cfg *config.Config,
	w http.ResponseWriter,
	r *http.Request,
	roomID, userID string,
) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")

		return
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, cfg.Chat.SendBufferEntries),
		roomID:  roomID,
		userID:  userID,
		service: service,
		cfg:     cfg,
	}

	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()

		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}

		c.conn.Close()
	}()

	pongWait := time.Duration(c.cfg.Chat.PongWaitSeconds) * time.Second

	c.conn.SetReadLimit(int64(c.cfg.Chat.MaxMessageBytes))
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("room", c.roomID).Msg("websocket read failed")
			}

			break
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Warn().Err(err).Str("room", c.roomID).Msg("malformed chat message")

			continue
		}

		req := dto.SendMessageRequest{RoomID: c.roomID, Body: in.Body}

		stored, err := c.service.Save(context.Background(), req, c.userID)
		if err != nil {
			log.Error().Err(err).Str("room", c.roomID).Msg("failed to store chat message")

			continue
		}

		c.hub.Publish(stored)
	}
}

func (c *Client) writePump() {
	writeWait := time.Duration(c.cfg.Chat.WriteWaitSeconds) * time.Second
	pongWait := time.Duration(c.cfg.Chat.PongWaitSeconds) * time.Second
	ticker := time.NewTicker(pongWait * 9 / 10)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
