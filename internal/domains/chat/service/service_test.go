package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/otel/mocks"
	appMocks "kaamdham/internal/domains/application/mocks"
	appModel "kaamdham/internal/domains/application/model"
	bookingMocks "kaamdham/internal/domains/booking/mocks"
	bookingModel "kaamdham/internal/domains/booking/model"
	chatMocks "kaamdham/internal/domains/chat/mocks"
	"kaamdham/internal/domains/chat/model"
	"kaamdham/internal/domains/chat/model/dto"
	"kaamdham/internal/domains/chat/service"
	jobMocks "kaamdham/internal/domains/job/mocks"
	jobModel "kaamdham/internal/domains/job/model"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	gModel "kaamdham/shared/model"
)

type chatServiceMocks struct {
	repo        *chatMocks.MockChat
	bookingRepo *bookingMocks.MockBooking
	appRepo     *appMocks.MockApplication
	jobRepo     *jobMocks.MockJob
}

func newChatService(t *testing.T) (service.Chat, chatServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := chatServiceMocks{
		repo:        chatMocks.NewMockChat(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		appRepo:     appMocks.NewMockApplication(ctrl),
		jobRepo:     jobMocks.NewMockJob(ctrl),
	}

	svc := service.New(m.repo, m.bookingRepo, m.appRepo, m.jobRepo, &config.Config{}, mocks.NewOtel())

	return svc, m
}

func TestChatService_Authorize(t *testing.T) {
	t.Run("booking customer may join", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)

		assert.NoError(t, svc.Authorize(context.Background(), "room-1", "customer-1"))
	})

	t.Run("booking freelancer may join", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)

		assert.NoError(t, svc.Authorize(context.Background(), "room-1", "freelancer-1"))
	})

	t.Run("stranger is restricted from a booking room", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)

		err := svc.Authorize(context.Background(), "room-1", "stranger-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})

	t.Run("application freelancer may join", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
		m.appRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(appModel.Application{
			ID:           "room-2",
			JobID:        "job-1",
			FreelancerID: "freelancer-1",
		}, nil)

		assert.NoError(t, svc.Authorize(context.Background(), "room-2", "freelancer-1"))
	})

	t.Run("job owner may join an application room", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
		m.appRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(appModel.Application{
			ID:           "room-2",
			JobID:        "job-1",
			FreelancerID: "freelancer-1",
		}, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(jobModel.Job{
			ID:     "job-1",
			UserID: "customer-1",
		}, nil)

		assert.NoError(t, svc.Authorize(context.Background(), "room-2", "customer-1"))
	})

	t.Run("stranger is restricted from an application room", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
		m.appRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(appModel.Application{
			ID:           "room-2",
			JobID:        "job-1",
			FreelancerID: "freelancer-1",
		}, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(jobModel.Job{
			ID:     "job-1",
			UserID: "customer-1",
		}, nil)

		err := svc.Authorize(context.Background(), "room-2", "stranger-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})

	t.Run("unknown room", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
		m.appRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(appModel.Application{}, nil)

		err := svc.Authorize(context.Background(), "room-x", "customer-1")

		assert.EqualError(t, err, "chat room not found")
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestChatService_Save(t *testing.T) {
	t.Run("party sends a message", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, message model.Message) error {
				assert.NotEmpty(t, message.ID)
				assert.Equal(t, "room-1", message.RoomID)
				assert.Equal(t, "customer-1", message.SenderID)
				assert.Equal(t, "hello, when can you start?", message.Body)

				return nil
			})

		res, err := svc.Save(context.Background(), dto.SendMessageRequest{
			RoomID: "room-1",
			Body:   "hello, when can you start?",
		}, "customer-1")

		require.NoError(t, err)
		assert.Equal(t, "room-1", res.RoomID)
		assert.Equal(t, "hello, when can you start?", res.Body)
	})

	t.Run("restricted sender cannot write", func(t *testing.T) {
		svc, m := newChatService(t)

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)

		_, err := svc.Save(context.Background(), dto.SendMessageRequest{
			RoomID: "room-1",
			Body:   "let me in",
		}, "stranger-1")

		assert.ErrorIs(t, err, failure.ResourceRestrictedError)
	})
}

func TestChatService_History(t *testing.T) {
	t.Run("returns room history with totals", func(t *testing.T) {
		svc, m := newChatService(t)

		sentAt := time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC)
		messages := []model.Message{
			{
				ID:       "msg-1",
				RoomID:   "room-1",
				SenderID: "customer-1",
				Body:     "hello",
				Metadata: gModel.Metadata{CreatedAt: sentAt},
			},
			{
				ID:       "msg-2",
				RoomID:   "room-1",
				SenderID: "freelancer-1",
				Body:     "hi, on my way",
				Metadata: gModel.Metadata{CreatedAt: sentAt.Add(time.Minute)},
			},
		}

		m.bookingRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingModel.Booking{
			ID:           "room-1",
			UserID:       "customer-1",
			FreelancerID: "freelancer-1",
		}, nil)
		m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(messages, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)

		res, err := svc.History(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, "room-1", "customer-1")

		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalData)
		assert.Equal(t, 1, res.TotalPage)
		require.Len(t, res.Messages, 2)
		assert.Equal(t, "hello", res.Messages[0].Body)
	})
}
