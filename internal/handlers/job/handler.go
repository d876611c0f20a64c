package job

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kaamdham/infras/otel"
	appService "kaamdham/internal/domains/application/service"
	"kaamdham/internal/domains/job/model/dto"
	"kaamdham/internal/domains/job/service"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/validator"
	"kaamdham/transport/http/response"
)

type Handler struct {
	service    service.Job
	appService appService.Application
	otel       otel.Otel
}

func New(service service.Job, appService appService.Application, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		appService: appService,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/jobs", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateJob)
		routerGroup.Get("/", handler.BrowseJobs)
		routerGroup.Get("/myjobs", handler.GetMyJobs)
		routerGroup.Get("/{id}", handler.GetJobByID)
		routerGroup.Patch("/{id}", handler.UpdateJob)
		routerGroup.Patch("/{id}/status", handler.UpdateJobStatus)
		routerGroup.Get("/{id}/applications", handler.GetJobApplications)
	})
}

// CreateJob posts a new job for the authenticated user.
// @Summary Post a new job
// @Description Post a job for freelancers to apply to. Instant jobs are limited to one open per user.
// @Tags Job
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Create Job Request"
// @Success 201 {object} response.Data[dto.JobResponse] "Job posted successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs [post]
// @Security BearerAuth
func (handler *Handler) CreateJob(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateJob")
	defer scope.End()

	req := dto.CreateJobRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Create(ctx, req, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create job")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Job posted successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// BrowseJobs lists open posted jobs for freelancers.
// @Summary Browse open jobs
// @Description Retrieve open posted jobs with pagination. Instant jobs are surfaced through the nearby listing instead.
// @Tags Job
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetJobsResponse] "List of jobs"
// @Failure 500 {object} response.Error
// @Router /v1/jobs [get]
// @Security BearerAuth
func (handler *Handler) BrowseJobs(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BrowseJobs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	res, err := handler.service.Browse(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to browse jobs")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetMyJobs lists the authenticated user's jobs.
// @Summary Get own jobs
// @Description Retrieve the authenticated user's posted jobs with pagination.
// @Tags Job
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetJobsResponse] "List of jobs"
// @Failure 500 {object} response.Error
// @Router /v1/jobs/myjobs [get]
// @Security BearerAuth
func (handler *Handler) GetMyJobs(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyJobs")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.GetMine(ctx, queryParams, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get jobs")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetJobByID retrieves one job.
// @Summary Get a job by ID
// @Description Retrieve one job by its ID.
// @Tags Job
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Data[dto.JobResponse] "Job"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetJobByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobByID")
	defer scope.End()

	id := chi.URLParam(request, "id")

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get job")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateJob edits an open job owned by the caller.
// @Summary Update a job
// @Description Update fields of an open job owned by the authenticated user.
// @Tags Job
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body dto.UpdateJobRequest true "Update Job Request"
// @Success 200 {object} response.Message "Job updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateJob(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateJob")
	defer scope.End()

	req := dto.UpdateJobRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.Update(ctx, req, id, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update job")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Job updated successfully")
}

// UpdateJobStatus moves a job through its lifecycle.
// @Summary Update a job's status
// @Description Transition a job to assigned, closed or deleted. Illegal transitions are rejected.
// @Tags Job
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param request body dto.UpdateJobStatusRequest true "Update Job Status Request"
// @Success 200 {object} response.Message "Job status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateJobStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateJobStatus")
	defer scope.End()

	req := dto.UpdateJobStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err := handler.service.UpdateStatus(ctx, req, id, user); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update job status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Job status updated successfully")
}

// GetJobApplications lists the applications on a job owned by the caller.
// @Summary Get applications for a job
// @Description Retrieve all applications on a job owned by the authenticated user.
// @Tags Job
// @Produce json
// @Param id path string true "Job ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[appDto.GetApplicationsResponse] "List of applications"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/jobs/{id}/applications [get]
// @Security BearerAuth
func (handler *Handler) GetJobApplications(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetJobApplications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	id := chi.URLParam(request, "id")
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.appService.GetForJob(ctx, queryParams, id, user)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get job applications")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
