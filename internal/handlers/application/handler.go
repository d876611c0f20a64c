package application

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kaamdham/infras/otel"
	"kaamdham/internal/domains/application/model/dto"
	"kaamdham/internal/domains/application/service"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/validator"
	"kaamdham/transport/http/response"
)

type Handler struct {
	service service.Application
	otel    otel.Otel
}

func New(service service.Application, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/applications", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Apply)
		routerGroup.Get("/myapplications", handler.GetMyApplications)
		routerGroup.Patch("/{id}/confirm", handler.ConfirmApplication)
		routerGroup.Patch("/{id}/reject", handler.RejectApplication)
		routerGroup.Patch("/{id}/start", handler.StartWork)
		routerGroup.Patch("/{id}/complete", handler.CompleteWork)
	})
}

// Apply submits an application on an open job.
// @Summary Apply to a job
// @Description Submit an application with a bid amount on an open job. One live application per freelancer per job.
// @Tags Application
// @Accept json
// @Produce json
// @Param request body dto.ApplyRequest true "Apply Request"
// @Success 201 {object} response.Data[dto.ApplicationResponse] "Application submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications [post]
// @Security BearerAuth
func (handler *Handler) Apply(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Apply")
	defer scope.End()

	req := dto.ApplyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Apply(ctx, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to apply to job")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Application submitted by freelancer " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetMyApplications lists the authenticated freelancer's applications.
// @Summary Get own applications
// @Description Retrieve the authenticated freelancer's applications with pagination.
// @Tags Application
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetApplicationsResponse] "List of applications"
// @Failure 500 {object} response.Error
// @Router /v1/applications/myapplications [get]
// @Security BearerAuth
func (handler *Handler) GetMyApplications(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyApplications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.GetMine(ctx, queryParams, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get applications")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ConfirmApplication shortlists an applicant and assigns the job.
// @Summary Confirm an application
// @Description Shortlist an applicant. Sibling applications are rejected and the job moves to assigned.
// @Tags Application
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Data[dto.ConfirmResponse] "Application confirmed successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/confirm [patch]
// @Security BearerAuth
func (handler *Handler) ConfirmApplication(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ConfirmApplication")
	defer scope.End()

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Confirm(ctx, id, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to confirm application")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Application " + id + " confirmed")

	response.WithJSON(writer, http.StatusOK, res)
}

// RejectApplication rejects a pending application.
// @Summary Reject an application
// @Description Reject an application that has not been shortlisted yet.
// @Tags Application
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Message "Application rejected successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/reject [patch]
// @Security BearerAuth
func (handler *Handler) RejectApplication(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectApplication")
	defer scope.End()

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Reject(ctx, id, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject application")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Application rejected successfully")
}

// StartWork moves a shortlisted application into progress.
// @Summary Start work on an application
// @Description Verify the start OTP collected from the customer and move the application into progress.
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.EngagementOTPRequest true "Engagement OTP Request"
// @Success 200 {object} response.Message "Work started successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/start [patch]
// @Security BearerAuth
func (handler *Handler) StartWork(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartWork")
	defer scope.End()

	req := dto.EngagementOTPRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Start(ctx, req, id, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to start work")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Work started on application " + id)

	response.WithMessage(writer, http.StatusOK, "Work started successfully")
}

// CompleteWork finishes an in-progress application.
// @Summary Complete work on an application
// @Description Verify the completion OTP collected from the customer, complete the application and close the job.
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.EngagementOTPRequest true "Engagement OTP Request"
// @Success 200 {object} response.Message "Work completed successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/complete [patch]
// @Security BearerAuth
func (handler *Handler) CompleteWork(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteWork")
	defer scope.End()

	req := dto.EngagementOTPRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Complete(ctx, req, id, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete work")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Work completed on application " + id)

	response.WithMessage(writer, http.StatusOK, "Work completed successfully")
}
