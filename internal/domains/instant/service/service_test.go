package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/otel/mocks"
	appMocks "kaamdham/internal/domains/application/mocks"
	appModel "kaamdham/internal/domains/application/model"
	"kaamdham/internal/domains/instant/model/dto"
	"kaamdham/internal/domains/instant/service"
	jobMocks "kaamdham/internal/domains/job/mocks"
	jobModel "kaamdham/internal/domains/job/model"
	eventMocks "kaamdham/internal/events/mocks"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
)

type instantServiceMocks struct {
	jobRepo   *jobMocks.MockJob
	appRepo   *appMocks.MockApplication
	publisher *eventMocks.MockPublisher
}

func newInstantService(t *testing.T) (service.Instant, instantServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := instantServiceMocks{
		jobRepo:   jobMocks.NewMockJob(ctrl),
		appRepo:   appMocks.NewMockApplication(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	m.publisher.EXPECT().PublishTransition(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.NearbyRadiusKm = 10

	svc := service.New(m.jobRepo, m.appRepo, cfg, m.publisher, mocks.NewOtel())

	return svc, m
}

func instantJob(id, userID string, lat, lng float64) jobModel.Job {
	return jobModel.Job{
		ID:        id,
		UserID:    userID,
		Title:     "Plumber needed now",
		Budget:    800,
		Latitude:  lat,
		Longitude: lng,
		Instant:   true,
		Status:    string(lifecycle.StatusOpen),
	}
}

func TestInstantService_Post(t *testing.T) {
	req := dto.PostInstantRequest{
		Title:       "Plumber needed now",
		Category:    "plumbing",
		Budget:      800,
		Address:     "Patan, Lalitpur",
		Latitude:    27.6766,
		Longitude:   85.3188,
		PaymentType: "cash",
	}

	t.Run("posts when no live booking exists", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.jobRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Post(context.Background(), req, "customer-1")

		assert.NoError(t, err)
		assert.True(t, res.Instant)
		assert.Equal(t, string(lifecycle.StatusOpen), res.Status)
	})

	t.Run("one live booking per user", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Post(context.Background(), req, "customer-1")

		assert.EqualError(t, err, "you already have an open instant booking")
	})
}

func TestInstantService_GetOpen(t *testing.T) {
	t.Run("returns the booking with its bids", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)
		m.appRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]appModel.Application{
				{ID: "bid-1", JobID: "job-1", FreelancerID: "freelancer-1", BidAmount: 700, Status: string(lifecycle.StatusApplied)},
			}, nil)

		res, err := svc.GetOpen(context.Background(), "customer-1")

		assert.NoError(t, err)
		assert.NotNil(t, res.Booking)
		assert.Len(t, res.Bids, 1)
	})

	t.Run("no live booking is an empty response", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(jobModel.Job{}, nil)

		res, err := svc.GetOpen(context.Background(), "customer-1")

		assert.NoError(t, err)
		assert.Nil(t, res.Booking)
	})
}

func TestInstantService_Nearby(t *testing.T) {
	// Thamel, roughly 2 km from the freelancer; Bhaktapur is well past the
	// 10 km radius.
	geo := gDto.GeoParams{Lat: 27.7172, Lng: 85.3240}

	t.Run("filters by radius and sorts closest first", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]jobModel.Job{
				instantJob("far", "customer-1", 27.6710, 85.4298),
				instantJob("near", "customer-2", 27.7215, 85.3205),
				instantJob("own", "freelancer-1", 27.7172, 85.3240),
			}, nil)

		res, err := svc.Nearby(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, geo, "freelancer-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Equal(t, "near", res.Jobs[0].ID)
	})

	t.Run("coordinates are required", func(t *testing.T) {
		svc, _ := newInstantService(t)

		_, err := svc.Nearby(context.Background(), gDto.QueryParams{}, gDto.GeoParams{}, "freelancer-1")

		assert.Error(t, err)
	})
}

func TestInstantService_Bid(t *testing.T) {
	req := dto.BidRequest{JobID: "job-1", BidAmount: 700}

	t.Run("places a bid on an open booking", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)
		m.appRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.appRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Bid(context.Background(), req, "freelancer-1")

		assert.NoError(t, err)
		assert.Equal(t, string(lifecycle.StatusApplied), res.Status)
	})

	t.Run("posted jobs are not biddable", func(t *testing.T) {
		svc, m := newInstantService(t)

		job := instantJob("job-1", "customer-1", 27.7, 85.3)
		job.Instant = false

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)

		_, err := svc.Bid(context.Background(), req, "freelancer-1")

		assert.Error(t, err)
	})

	t.Run("duplicate bid", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)
		m.appRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Bid(context.Background(), req, "freelancer-1")

		assert.EqualError(t, err, "you have already bid on this booking")
	})

	t.Run("own booking", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)

		_, err := svc.Bid(context.Background(), req, "customer-1")

		assert.Error(t, err)
	})
}

func TestInstantService_Cancel(t *testing.T) {
	t.Run("cancels and rejects live bids", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)
		m.appRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.appRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Cancel(context.Background(), "customer-1"))
	})

	t.Run("cancel after a bid was accepted", func(t *testing.T) {
		svc, m := newInstantService(t)

		job := instantJob("job-1", "customer-1", 27.7, 85.3)
		job.Status = string(lifecycle.StatusAssigned)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)
		m.appRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.appRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Cancel(context.Background(), "customer-1"))
	})

	t.Run("started work routes to support", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob("job-1", "customer-1", 27.7, 85.3), nil)
		m.appRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Cancel(context.Background(), "customer-1")

		assert.Error(t, err)
		assert.True(t, failure.IsSupportContact(err))
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		svc, m := newInstantService(t)

		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(jobModel.Job{}, nil)

		assert.Error(t, svc.Cancel(context.Background(), "customer-1"))
	})
}
