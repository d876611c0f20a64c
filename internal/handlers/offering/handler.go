package offering

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"kaamdham/infras/otel"
	"kaamdham/internal/domains/offering/model"
	"kaamdham/internal/domains/offering/model/dto"
	"kaamdham/internal/domains/offering/service"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/validator"
	"kaamdham/transport/http/response"
)

type Handler struct {
	service service.Offering
	otel    otel.Otel
}

func New(service service.Offering, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/offerings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateOffering)
		routerGroup.Get("/", handler.GetOfferings)
		routerGroup.Post("/images", handler.UploadImages)
		routerGroup.Delete("/images", handler.DeleteImages)
		routerGroup.Get("/{id}", handler.GetOfferingByID)
		routerGroup.Patch("/{id}", handler.UpdateOffering)
		routerGroup.Delete("/{id}", handler.DeleteOffering)
	})
}

// CreateOffering handles the creation of a new service offering.
// @Summary Create a new offering
// @Description Create a new service offering for the authenticated freelancer.
// @Tags Offering
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferingRequest true "Create Offering Request"
// @Success 201 {object} response.Message "Offering created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings [post]
// @Security BearerAuth
func (handler *Handler) CreateOffering(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateOffering")
	defer scope.End()

	req := dto.CreateOfferingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create offering")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Offering created successfully by freelancer " + user)

	response.WithMessage(writer, http.StatusCreated, "Offering created successfully")
}

// GetOfferings retrieves offerings with optional filters.
// @Summary Get all offerings
// @Description Retrieve offerings with optional category and freelancer filtering plus pagination.
// @Tags Offering
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param freelancer_id query string false "Filter by freelancer ID"
// @Success 200 {object} response.Data[dto.GetOfferingsResponse] "List of offerings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings [get]
func (handler *Handler) GetOfferings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	category := request.URL.Query().Get(model.FieldCategory)
	freelancerID := request.URL.Query().Get(model.FieldFreelancerID)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if category != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldCategory,
			Table:    model.TableName,
			Operator: gDto.FilterOperatorEq,
			Value:    category,
		})
	}

	if freelancerID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldFreelancerID,
			Table:    model.TableName,
			Operator: gDto.FilterOperatorEq,
			Value:    freelancerID,
		})
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offerings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetOfferingByID retrieves a single offering.
// @Summary Get an offering by ID
// @Description Retrieve one offering by its ID.
// @Tags Offering
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Data[dto.OfferingResponse] "Offering"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings/{id} [get]
func (handler *Handler) GetOfferingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferingByID")
	defer scope.End()

	id := chi.URLParam(request, "id")

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get offering")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateOffering updates an offering owned by the caller.
// @Summary Update an offering
// @Description Update fields of an offering owned by the authenticated freelancer.
// @Tags Offering
// @Accept json
// @Produce json
// @Param id path string true "Offering ID"
// @Param request body dto.UpdateOfferingRequest true "Update Offering Request"
// @Success 200 {object} response.Message "Offering updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateOffering(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOffering")
	defer scope.End()

	req := dto.UpdateOfferingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, "id")

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update offering")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Offering updated successfully")
}

// DeleteOffering removes an offering owned by the caller.
// @Summary Delete an offering
// @Description Delete an offering owned by the authenticated freelancer.
// @Tags Offering
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Message "Offering deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteOffering(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteOffering")
	defer scope.End()

	id := chi.URLParam(request, "id")

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete offering")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Offering deleted successfully")
}

// UploadImages handles image uploads to S3.
// @Summary Upload offering images
// @Description Upload one or more image files to S3 and return their URLs in upload order.
// @Tags Offering
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files to upload"
// @Success 200 {object} response.Data[dto.UploadImagesResponse] "Images uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImages")
	defer scope.End()

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(writer, err)

		return
	}

	headers := request.MultipartForm.File[constant.FormImages]

	req := dto.UploadImagesRequest{}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to open uploaded file")

			response.WithError(writer, err)

			return
		}
		defer file.Close()

		req.Images = append(req.Images, header)
		req.ImageFiles = append(req.ImageFiles, file)
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate uploaded files")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UploadImages(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload images")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Images uploaded successfully by freelancer " + user)

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteImages handles deletion of images from S3.
// @Summary Delete offering images
// @Description Delete images from S3 by providing their URLs.
// @Tags Offering
// @Accept json
// @Produce json
// @Param request body dto.DeleteImagesRequest true "Delete Images Request"
// @Success 200 {object} response.Message "Images deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/offerings/images [delete]
// @Security BearerAuth
func (handler *Handler) DeleteImages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteImages")
	defer scope.End()

	req := dto.DeleteImagesRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.DeleteImagesFromS3(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete images")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Images deleted successfully")
}
