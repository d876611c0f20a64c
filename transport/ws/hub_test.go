package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kaamdham/internal/domains/chat/model/dto"
)

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, roomID: "room-1", userID: "user-1", send: make(chan []byte, 1)}
	hub.register <- client

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancel")
	}

	select {
	case _, ok := <-client.send:
		assert.False(t, ok, "send channel should be closed on shutdown")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on shutdown")
	}
}

func TestHub_ShutdownUnblocksPublishers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	<-stopped

	published := make(chan struct{})
	go func() {
		hub.Publish(dto.MessageResponse{ID: "msg-1", RoomID: "room-1", Body: "late"})
		close(published)
	}()

	unregistered := make(chan struct{})
	go func() {
		client := &Client{hub: hub, roomID: "room-1", userID: "user-1", send: make(chan []byte, 1)}
		select {
		case client.hub.unregister <- client:
		case <-client.hub.done:
		}
		close(unregistered)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after hub shutdown")
	}

	select {
	case <-unregistered:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after hub shutdown")
	}
}
