package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	appModel "kaamdham/internal/domains/application/model"
	appRepository "kaamdham/internal/domains/application/repository"
	bookingModel "kaamdham/internal/domains/booking/model"
	bookingRepository "kaamdham/internal/domains/booking/repository"
	"kaamdham/internal/domains/chat/model"
	"kaamdham/internal/domains/chat/model/dto"
	"kaamdham/internal/domains/chat/repository"
	jobModel "kaamdham/internal/domains/job/model"
	jobRepository "kaamdham/internal/domains/job/repository"
	"kaamdham/shared"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
)

type Chat interface {
	History(ctx context.Context, params gDto.QueryParams, roomID, userID string) (dto.GetMessagesResponse, error)
	Save(ctx context.Context, req dto.SendMessageRequest, senderID string) (dto.MessageResponse, error)
	Authorize(ctx context.Context, roomID, userID string) error
}

type serviceImpl struct {
	repo        repository.Chat
	bookingRepo bookingRepository.Booking
	appRepo     appRepository.Application
	jobRepo     jobRepository.Job
	cfg         *config.Config
	otel        otel.Otel
}

func New(
	repo repository.Chat,
	bookingRepo bookingRepository.Booking,
	appRepo appRepository.Application,
	jobRepo jobRepository.Job,
	cfg *config.Config,
	otel otel.Otel,
) Chat {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		cfg:         cfg,
		otel:        otel,
	}
}

func (s *serviceImpl) History(ctx context.Context, params gDto.QueryParams, roomID, userID string) (res dto.GetMessagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.Authorize(ctx, roomID, userID); err != nil {
		return res, err
	}

	filter := roomFilter(roomID)

	messages, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get chat history")

		return res, fmt.Errorf("failed to get chat history: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count chat history")

		return res, fmt.Errorf("failed to count chat history: %w", err)
	}

	res.FromModels(messages, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Save(ctx context.Context, req dto.SendMessageRequest, senderID string) (res dto.MessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.Authorize(ctx, req.RoomID, senderID); err != nil {
		return res, err
	}

	message := req.ToModel(senderID)

	if err = s.repo.Insert(ctx, message); err != nil {
		log.Error().Err(err).Msg("failed to insert chat message")

		return res, fmt.Errorf("failed to insert chat message: %w", err)
	}

	res.FromModel(message)

	return res, nil
}

// Authorize checks that the caller is a party to the engagement the room is
// keyed by, either side of a booking or of a job application.
func (s *serviceImpl) Authorize(ctx context.Context, roomID, userID string) (err error) {
	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(roomID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for chat room")

		return fmt.Errorf("failed to get booking for chat room: %w", err)
	}

	if booking.ID != constant.Empty {
		if booking.UserID == userID || booking.FreelancerID == userID {
			return nil
		}

		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	application, err := s.appRepo.Get(ctx, shared.FilterByID(roomID, appModel.FieldID, appModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get application for chat room")

		return fmt.Errorf("failed to get application for chat room: %w", err)
	}

	if application.ID == constant.Empty {
		return failure.NotFound("chat room not found") // nolint:wrapcheck
	}

	if application.FreelancerID == userID {
		return nil
	}

	job, err := s.jobRepo.Get(ctx, shared.FilterByID(application.JobID, jobModel.FieldID, jobModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get job for chat room")

		return fmt.Errorf("failed to get job for chat room: %w", err)
	}

	if job.UserID == userID {
		return nil
	}

	return failure.ResourceRestrictedError // nolint:wrapcheck
}

func roomFilter(roomID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Table:    model.TableName,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}
