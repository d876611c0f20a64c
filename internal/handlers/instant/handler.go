package instant

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kaamdham/infras/otel"
	appService "kaamdham/internal/domains/application/service"
	"kaamdham/internal/domains/instant/model/dto"
	"kaamdham/internal/domains/instant/service"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/validator"
	"kaamdham/transport/http/response"
)

type Handler struct {
	service    service.Instant
	appService appService.Application
	otel       otel.Otel
}

func New(service service.Instant, appService appService.Application, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		appService: appService,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/instant", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.PostInstantBooking)
		routerGroup.Get("/", handler.GetOpenInstantBooking)
		routerGroup.Delete("/", handler.CancelInstantBooking)
		routerGroup.Get("/nearby", handler.GetNearbyInstantBookings)
		routerGroup.Post("/bids", handler.PlaceBid)
		routerGroup.Patch("/bids/{id}/accept", handler.AcceptBid)
	})
}

// PostInstantBooking posts an instant booking for nearby freelancers.
// @Summary Post an instant booking
// @Description Post an instant booking. A user can only have one live instant booking at a time.
// @Tags Instant
// @Accept json
// @Produce json
// @Param request body dto.PostInstantRequest true "Post Instant Request"
// @Success 201 {object} response.Data[jobDto.JobResponse] "Instant booking posted successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/instant [post]
// @Security BearerAuth
func (handler *Handler) PostInstantBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PostInstantBooking")
	defer scope.End()

	req := dto.PostInstantRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Post(ctx, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to post instant booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Instant booking posted by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetOpenInstantBooking returns the caller's live instant booking and its bids.
// @Summary Get own open instant booking
// @Description Retrieve the authenticated user's live instant booking along with the bids placed on it.
// @Tags Instant
// @Produce json
// @Success 200 {object} response.Data[dto.OpenInstantResponse] "Open instant booking"
// @Failure 500 {object} response.Error
// @Router /v1/instant [get]
// @Security BearerAuth
func (handler *Handler) GetOpenInstantBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOpenInstantBooking")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.GetOpen(ctx, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get open instant booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CancelInstantBooking cancels the caller's live instant booking.
// @Summary Cancel own instant booking
// @Description Cancel the authenticated user's live instant booking. Bookings with started work require support.
// @Tags Instant
// @Produce json
// @Success 200 {object} response.Message "Instant booking cancelled successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/instant [delete]
// @Security BearerAuth
func (handler *Handler) CancelInstantBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelInstantBooking")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Cancel(ctx, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel instant booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Instant booking cancelled by user " + user)

	response.WithMessage(writer, http.StatusOK, "Instant booking cancelled successfully")
}

// GetNearbyInstantBookings lists open instant bookings near the freelancer.
// @Summary Get nearby instant bookings
// @Description Retrieve open instant bookings within the configured radius of the given coordinates, nearest first.
// @Tags Instant
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.NearbyInstantResponse] "Nearby instant bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/instant/nearby [get]
// @Security BearerAuth
func (handler *Handler) GetNearbyInstantBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetNearbyInstantBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	geoParams := gDto.GeoParams{}
	geoParams.FromRequest(request)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Nearby(ctx, queryParams, geoParams, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get nearby instant bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// PlaceBid places a bid on an open instant booking.
// @Summary Bid on an instant booking
// @Description Place a bid on an open instant booking. One live bid per freelancer per booking.
// @Tags Instant
// @Accept json
// @Produce json
// @Param request body dto.BidRequest true "Bid Request"
// @Success 201 {object} response.Data[appDto.ApplicationResponse] "Bid placed successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/instant/bids [post]
// @Security BearerAuth
func (handler *Handler) PlaceBid(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PlaceBid")
	defer scope.End()

	req := dto.BidRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Bid(ctx, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to place bid")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Bid placed by freelancer " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// AcceptBid accepts a bid on the caller's instant booking.
// @Summary Accept a bid
// @Description Accept a bid on the caller's instant booking. Sibling bids are rejected and the engagement OTP is sent.
// @Tags Instant
// @Produce json
// @Param id path string true "Bid ID"
// @Success 200 {object} response.Data[appDto.ConfirmResponse] "Bid accepted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/instant/bids/{id}/accept [patch]
// @Security BearerAuth
func (handler *Handler) AcceptBid(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AcceptBid")
	defer scope.End()

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	// Accepting a bid is the same transition as confirming an application;
	// online instant bookings get their payment order in the response.
	res, err := handler.appService.Confirm(ctx, id, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to accept bid")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Bid " + id + " accepted")

	response.WithJSON(writer, http.StatusOK, res)
}
