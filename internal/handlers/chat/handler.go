package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	"kaamdham/internal/domains/chat/service"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/transport/http/response"
	"kaamdham/transport/ws"
)

type Handler struct {
	service service.Chat
	hub     *ws.Hub
	config  *config.Config
	otel    otel.Otel
}

func New(service service.Chat, hub *ws.Hub, config *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		hub:     hub,
		config:  config,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/chats", func(routerGroup chi.Router) {
		routerGroup.Get("/{roomID}/messages", handler.GetMessages)
		routerGroup.Get("/{roomID}/ws", handler.JoinRoom)
	})
}

// GetMessages returns the message history of a chat room.
// @Summary Get chat history
// @Description Retrieve the message history of a chat room the caller is a party to. Rooms are keyed by booking or application ID.
// @Tags Chat
// @Produce json
// @Param roomID path string true "Room ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetMessagesResponse] "Chat history"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/chats/{roomID}/messages [get]
// @Security BearerAuth
func (handler *Handler) GetMessages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMessages")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	roomID := chi.URLParam(request, "roomID")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.History(ctx, queryParams, roomID, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get chat history")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// JoinRoom upgrades the connection to a websocket on a chat room.
// @Summary Join a chat room
// @Description Upgrade to a websocket on a chat room the caller is a party to. Inbound frames are JSON {"body": "..."}.
// @Tags Chat
// @Param roomID path string true "Room ID"
// @Success 101 "Switching Protocols"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/chats/{roomID}/ws [get]
// @Security BearerAuth
func (handler *Handler) JoinRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".JoinRoom")
	defer scope.End()

	roomID := chi.URLParam(request, "roomID")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Authorize(ctx, roomID, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to authorize chat room access")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("User " + user + " joined room " + roomID)

	ws.Serve(handler.hub, handler.service, handler.config, writer, request, roomID, user)
}
