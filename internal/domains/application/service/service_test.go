package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/otel/mocks"
	paymentMocks "kaamdham/infras/payment/mocks"
	smsMocks "kaamdham/infras/sms/mocks"
	appMocks "kaamdham/internal/domains/application/mocks"
	"kaamdham/internal/domains/application/model"
	"kaamdham/internal/domains/application/model/dto"
	"kaamdham/internal/domains/application/service"
	jobMocks "kaamdham/internal/domains/job/mocks"
	jobModel "kaamdham/internal/domains/job/model"
	userMocks "kaamdham/internal/domains/user/mocks"
	userModel "kaamdham/internal/domains/user/model"
	eventMocks "kaamdham/internal/events/mocks"
	cacheMocks "kaamdham/shared/cache/mocks"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
	otpMocks "kaamdham/shared/otp/mocks"
	"kaamdham/shared/timezone"
)

type applicationMocks struct {
	repo      *appMocks.MockApplication
	jobRepo   *jobMocks.MockJob
	userRepo  *userMocks.MockUser
	cache     *cacheMocks.MockRedisCache
	otp       *otpMocks.MockManager
	sms       *smsMocks.MockSender
	gateway   *paymentMocks.MockGateway
	publisher *eventMocks.MockPublisher
}

func newApplicationService(t *testing.T) (service.Application, applicationMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := applicationMocks{
		repo:      appMocks.NewMockApplication(ctrl),
		jobRepo:   jobMocks.NewMockJob(ctrl),
		userRepo:  userMocks.NewMockUser(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		otp:       otpMocks.NewMockManager(ctrl),
		sms:       smsMocks.NewMockSender(ctrl),
		gateway:   paymentMocks.NewMockGateway(ctrl),
		publisher: eventMocks.NewMockPublisher(ctrl),
	}

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().PublishTransition(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.OTP.EngagementTTLSeconds = 86400

	svc := service.New(m.repo, m.jobRepo, m.userRepo, cfg, m.cache, m.otp, m.sms, m.gateway, m.publisher, mocks.NewOtel())

	return svc, m
}

func openJob(id, ownerID string) jobModel.Job {
	return jobModel.Job{
		ID:     id,
		UserID: ownerID,
		Title:  "Fix the kitchen sink",
		Status: string(lifecycle.StatusOpen),
	}
}

func TestApplicationService_Apply(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ApplyRequest
		setupMock func(m applicationMocks)
		wantErr   error
	}{
		{
			name: "successful application",
			req:  dto.ApplyRequest{JobID: "job-1", BidAmount: 500},
			setupMock: func(m applicationMocks) {
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "own job",
			req:  dto.ApplyRequest{JobID: "job-1", BidAmount: 500},
			setupMock: func(m applicationMocks) {
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "freelancer-1"), nil)
			},
			wantErr: failure.BadRequestFromString("you cannot apply to your own job"),
		},
		{
			name: "job already assigned",
			req:  dto.ApplyRequest{JobID: "job-1", BidAmount: 500},
			setupMock: func(m applicationMocks) {
				job := openJob("job-1", "customer-1")
				job.Status = string(lifecycle.StatusAssigned)

				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)
			},
			wantErr: failure.Conflict("this job is no longer accepting applications"),
		},
		{
			name: "duplicate application",
			req:  dto.ApplyRequest{JobID: "job-1", BidAmount: 500},
			setupMock: func(m applicationMocks) {
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
				m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: failure.Conflict("you have already applied to this job"),
		},
		{
			name: "deleted job",
			req:  dto.ApplyRequest{JobID: "job-1", BidAmount: 500},
			setupMock: func(m applicationMocks) {
				job := openJob("job-1", "customer-1")
				job.Status = string(lifecycle.StatusDeleted)

				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)
			},
			wantErr: failure.NotFound("job not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newApplicationService(t)
			tt.setupMock(m)

			res, err := svc.Apply(context.Background(), tt.req, "freelancer-1")

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "job-1", res.JobID)
			assert.Equal(t, string(lifecycle.StatusApplied), res.Status)
		})
	}
}

func TestApplicationService_Confirm(t *testing.T) {
	application := model.Application{
		ID:           "app-1",
		JobID:        "job-1",
		FreelancerID: "freelancer-1",
		Status:       string(lifecycle.StatusApplied),
	}

	tests := []struct {
		name      string
		userID    string
		setupMock func(m applicationMocks)
		wantErr   bool
	}{
		{
			name:   "successful confirm rejects siblings and assigns job",
			userID: "customer-1",
			setupMock: func(m applicationMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
				m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
				m.otp.EXPECT().Issue(gomock.Any(), "engagement", "app-1:start", gomock.Any(), gomock.Any()).Return("1234", nil)
				m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
				m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)
			},
		},
		{
			name:   "not job owner",
			userID: "somebody-else",
			setupMock: func(m applicationMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
			},
			wantErr: true,
		},
		{
			name:   "already shortlisted",
			userID: "customer-1",
			setupMock: func(m applicationMocks) {
				shortlisted := application
				shortlisted.Status = string(lifecycle.StatusShortlisted)

				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
			},
			wantErr: true,
		},
		{
			name:   "lost race on status update",
			userID: "customer-1",
			setupMock: func(m applicationMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
				m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
				m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newApplicationService(t)
			tt.setupMock(m)

			_, err := svc.Confirm(context.Background(), "app-1", tt.userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("accepting an online instant bid creates a payment order", func(t *testing.T) {
		svc, m := newApplicationService(t)

		bid := application
		bid.BidAmount = 1200

		instantJob := openJob("job-1", "customer-1")
		instantJob.Instant = true
		instantJob.PaymentType = jobModel.PaymentTypeOnline

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bid, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(instantJob, nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		// sibling rejection, then the stored payment reference
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.gateway.EXPECT().
			CreateIntent(gomock.Any(), int64(1200), "app-1").
			Return("pi_456", "pi_456_secret", nil)
		m.otp.EXPECT().Issue(gomock.Any(), "engagement", "app-1:start", gomock.Any(), gomock.Any()).Return("1234", nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
		m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)

		res, err := svc.Confirm(context.Background(), "app-1", "customer-1")

		assert.NoError(t, err)
		assert.Equal(t, "pi_456", res.PaymentRef)
		assert.Equal(t, "pi_456_secret", res.ClientSecret)
	})

	t.Run("cash engagements carry no payment order", func(t *testing.T) {
		svc, m := newApplicationService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.otp.EXPECT().Issue(gomock.Any(), "engagement", "app-1:start", gomock.Any(), gomock.Any()).Return("1234", nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
		m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)

		res, err := svc.Confirm(context.Background(), "app-1", "customer-1")

		assert.NoError(t, err)
		assert.Empty(t, res.PaymentRef)
		assert.Empty(t, res.ClientSecret)
	})
}

func TestApplicationService_Reject(t *testing.T) {
	t.Run("rejects a pending application", func(t *testing.T) {
		svc, m := newApplicationService(t)

		application := model.Application{ID: "app-1", JobID: "job-1", Status: string(lifecycle.StatusApplied)}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		assert.NoError(t, svc.Reject(context.Background(), "app-1", "customer-1"))
	})

	t.Run("application already underway routes to support", func(t *testing.T) {
		svc, m := newApplicationService(t)

		application := model.Application{ID: "app-1", JobID: "job-1", Status: string(lifecycle.StatusInProgress)}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(application, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)

		err := svc.Reject(context.Background(), "app-1", "customer-1")

		assert.Error(t, err)
		assert.True(t, failure.IsSupportContact(err))
	})
}

func TestApplicationService_Start(t *testing.T) {
	shortlisted := model.Application{
		ID:           "app-1",
		JobID:        "job-1",
		FreelancerID: "freelancer-1",
		Status:       string(lifecycle.StatusShortlisted),
	}

	t.Run("starts work with a valid code", func(t *testing.T) {
		svc, m := newApplicationService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
		m.otp.EXPECT().Verify(gomock.Any(), "engagement", "app-1:start", "1234").Return(nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.otp.EXPECT().Issue(gomock.Any(), "engagement", "app-1:complete", gomock.Any(), gomock.Any()).Return("5678", nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
		m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "1234"}, "app-1", "freelancer-1")

		assert.NoError(t, err)
	})

	t.Run("preferred date in the future blocks the start", func(t *testing.T) {
		svc, m := newApplicationService(t)

		tomorrow := timezone.Now().Add(24 * time.Hour)
		job := openJob("job-1", "customer-1")
		job.PreferredDate = &tomorrow

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "1234"}, "app-1", "freelancer-1")

		assert.Error(t, err)
		assert.NotEmpty(t, failure.GetRetryOn(err))
	})

	t.Run("wrong code", func(t *testing.T) {
		svc, m := newApplicationService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)
		m.otp.EXPECT().Verify(gomock.Any(), "engagement", "app-1:start", "0000").Return(errors.New("invalid code"))

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "0000"}, "app-1", "freelancer-1")

		assert.Error(t, err)
	})

	t.Run("only the shortlisted freelancer can start", func(t *testing.T) {
		svc, m := newApplicationService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "1234"}, "app-1", "somebody-else")

		assert.Error(t, err)
	})
}

func TestApplicationService_Complete(t *testing.T) {
	inProgress := model.Application{
		ID:           "app-1",
		JobID:        "job-1",
		FreelancerID: "freelancer-1",
		Status:       string(lifecycle.StatusInProgress),
	}

	t.Run("completes work and closes the job", func(t *testing.T) {
		svc, m := newApplicationService(t)

		job := openJob("job-1", "customer-1")
		job.Status = string(lifecycle.StatusAssigned)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inProgress, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(job, nil)
		m.otp.EXPECT().Verify(gomock.Any(), "engagement", "app-1:complete", "5678").Return(nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.jobRepo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		err := svc.Complete(context.Background(), dto.EngagementOTPRequest{OTP: "5678"}, "app-1", "freelancer-1")

		assert.NoError(t, err)
	})

	t.Run("cannot complete before starting", func(t *testing.T) {
		svc, m := newApplicationService(t)

		shortlisted := inProgress
		shortlisted.Status = string(lifecycle.StatusShortlisted)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(shortlisted, nil)
		m.jobRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(openJob("job-1", "customer-1"), nil)

		err := svc.Complete(context.Background(), dto.EngagementOTPRequest{OTP: "5678"}, "app-1", "freelancer-1")

		assert.Error(t, err)
	})
}
