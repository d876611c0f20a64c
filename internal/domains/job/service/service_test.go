package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/otel/mocks"
	jobMocks "kaamdham/internal/domains/job/mocks"
	"kaamdham/internal/domains/job/model"
	"kaamdham/internal/domains/job/model/dto"
	"kaamdham/internal/domains/job/service"
	eventMocks "kaamdham/internal/events/mocks"
	cacheMocks "kaamdham/shared/cache/mocks"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/lifecycle"
)

type jobServiceMocks struct {
	repo      *jobMocks.MockJob
	cache     *cacheMocks.MockRedisCache
	publisher *eventMocks.MockPublisher
}

func newJobService(t *testing.T) (service.Job, jobServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := jobServiceMocks{
		repo:      jobMocks.NewMockJob(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().PublishTransition(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, cfg, m.cache, m.publisher, mocks.NewOtel())

	return svc, m
}

func postedJob(id, userID, status string) model.Job {
	return model.Job{
		ID:       id,
		UserID:   userID,
		Title:    "Paint the fence",
		Category: "painting",
		Budget:   2000,
		Status:   status,
	}
}

func TestJobService_Create(t *testing.T) {
	t.Run("posted job", func(t *testing.T) {
		svc, m := newJobService(t)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Create(context.Background(), dto.CreateJobRequest{
			Title:         "Paint the fence",
			Category:      "painting",
			Budget:        2000,
			PreferredDate: "2026-09-20",
			Address:       "Boudha, Kathmandu",
			Latitude:      27.7215,
			Longitude:     85.3620,
		}, "customer-1")

		assert.NoError(t, err)
		assert.Equal(t, string(lifecycle.StatusOpen), res.Status)
		assert.Equal(t, "2026-09-20", res.PreferredDate)
	})

	t.Run("second open instant job is refused", func(t *testing.T) {
		svc, m := newJobService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := svc.Create(context.Background(), dto.CreateJobRequest{
			Title:     "Plumber needed now",
			Category:  "plumbing",
			Budget:    800,
			Address:   "Patan, Lalitpur",
			Latitude:  27.6766,
			Longitude: 85.3188,
			Instant:   true,
		}, "customer-1")

		assert.EqualError(t, err, "you already have an open instant booking")
	})
}

func TestJobService_Get(t *testing.T) {
	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", string(lifecycle.StatusOpen)), nil)

		res, err := svc.Get(context.Background(), "job-1")

		assert.NoError(t, err)
		assert.Equal(t, "job-1", res.ID)
	})

	t.Run("deleted job reads as not found", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", string(lifecycle.StatusDeleted)), nil)

		_, err := svc.Get(context.Background(), "job-1")

		assert.Error(t, err)
	})
}

func TestJobService_Update(t *testing.T) {
	t.Run("owner edits an open job", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", string(lifecycle.StatusOpen)), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Update(context.Background(), dto.UpdateJobRequest{Budget: 2500}, "job-1", "customer-1")

		assert.NoError(t, err)
	})

	t.Run("assigned jobs are locked", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", string(lifecycle.StatusAssigned)), nil)

		err := svc.Update(context.Background(), dto.UpdateJobRequest{Budget: 2500}, "job-1", "customer-1")

		assert.EqualError(t, err, "only open jobs can be edited")
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", string(lifecycle.StatusOpen)), nil)

		err := svc.Update(context.Background(), dto.UpdateJobRequest{Budget: 2500}, "job-1", "somebody-else")

		assert.Error(t, err)
	})
}

func TestJobService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		affected  int64
		wantErr   bool
		skipWrite bool
	}{
		{name: "open to deleted", from: "open", to: "deleted", affected: 1},
		{name: "open to assigned", from: "open", to: "assigned", affected: 1},
		{name: "assigned to closed", from: "assigned", to: "closed", affected: 1},
		{name: "closed is terminal", from: "closed", to: "deleted", wantErr: true, skipWrite: true},
		{name: "lost race", from: "open", to: "deleted", affected: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newJobService(t)

			m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(postedJob("job-1", "customer-1", tt.from), nil)

			if !tt.skipWrite {
				m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.affected, nil)
			}

			err := svc.UpdateStatus(context.Background(), dto.UpdateJobStatusRequest{Status: tt.to}, "job-1", "customer-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobService_Browse(t *testing.T) {
	t.Run("lists open posted jobs", func(t *testing.T) {
		svc, m := newJobService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Job{postedJob("job-1", "customer-1", string(lifecycle.StatusOpen))}, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		res, err := svc.Browse(context.Background(), gDto.QueryParams{Limit: 10, Page: 1})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.TotalData)
		assert.Len(t, res.Jobs, 1)
	})
}
