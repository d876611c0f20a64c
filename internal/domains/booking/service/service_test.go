package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"kaamdham/config"
	"kaamdham/infras/otel/mocks"
	paymentMocks "kaamdham/infras/payment/mocks"
	smsMocks "kaamdham/infras/sms/mocks"
	appMocks "kaamdham/internal/domains/application/mocks"
	appModel "kaamdham/internal/domains/application/model"
	bookingMocks "kaamdham/internal/domains/booking/mocks"
	"kaamdham/internal/domains/booking/model"
	"kaamdham/internal/domains/booking/model/dto"
	"kaamdham/internal/domains/booking/service"
	offeringMocks "kaamdham/internal/domains/offering/mocks"
	offeringModel "kaamdham/internal/domains/offering/model"
	userMocks "kaamdham/internal/domains/user/mocks"
	userModel "kaamdham/internal/domains/user/model"
	eventMocks "kaamdham/internal/events/mocks"
	cacheMocks "kaamdham/shared/cache/mocks"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
	otpMocks "kaamdham/shared/otp/mocks"
	"kaamdham/shared/timezone"
)

type bookingServiceMocks struct {
	repo         *bookingMocks.MockBooking
	offeringRepo *offeringMocks.MockOffering
	appRepo      *appMocks.MockApplication
	userRepo     *userMocks.MockUser
	cache        *cacheMocks.MockRedisCache
	otp          *otpMocks.MockManager
	sms          *smsMocks.MockSender
	gateway      *paymentMocks.MockGateway
	publisher    *eventMocks.MockPublisher
}

func newBookingService(t *testing.T) (service.Booking, bookingServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := bookingServiceMocks{
		repo:         bookingMocks.NewMockBooking(ctrl),
		offeringRepo: offeringMocks.NewMockOffering(ctrl),
		appRepo:      appMocks.NewMockApplication(ctrl),
		userRepo:     userMocks.NewMockUser(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		otp:          otpMocks.NewMockManager(ctrl),
		sms:          smsMocks.NewMockSender(ctrl),
		gateway:      paymentMocks.NewMockGateway(ctrl),
		publisher:    eventMocks.NewMockPublisher(ctrl),
	}

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().PublishTransition(
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
	).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.OTP.EngagementTTLSeconds = 86400

	svc := service.New(
		m.repo, m.offeringRepo, m.appRepo, m.userRepo,
		cfg, m.cache, m.otp, m.sms, m.gateway, m.publisher, mocks.NewOtel(),
	)

	return svc, m
}

func activeOffering(id, freelancerID string) offeringModel.Offering {
	return offeringModel.Offering{
		ID:           id,
		FreelancerID: freelancerID,
		Title:        "Deep house cleaning",
		Price:        1500,
		Active:       true,
	}
}

func bookedBooking(id string) model.Booking {
	return model.Booking{
		ID:           id,
		UserID:       "customer-1",
		FreelancerID: "freelancer-1",
		OfferingID:   "offering-1",
		BookingDate:  timezone.Now(),
		TimeSlot:     "morning",
		PaymentType:  model.PaymentTypeCash,
		Amount:       1500,
		Status:       string(lifecycle.StatusBooked),
	}
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		OfferingID:  "offering-1",
		BookingDate: "2026-09-15",
		TimeSlot:    "morning",
		Address:     "Baneshwor, Kathmandu",
		Latitude:    27.6915,
		Longitude:   85.3420,
		PaymentType: model.PaymentTypeCash,
	}

	t.Run("cash booking", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.offeringRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeOffering("offering-1", "freelancer-1"), nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Create(context.Background(), validReq, "customer-1")

		assert.NoError(t, err)
		assert.Equal(t, string(lifecycle.StatusBooked), res.Status)
		assert.Equal(t, int64(1500), res.Amount)
		assert.Empty(t, res.ClientSecret)
	})

	t.Run("online booking opens a payment intent", func(t *testing.T) {
		svc, m := newBookingService(t)

		req := validReq
		req.PaymentType = model.PaymentTypeOnline

		m.offeringRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeOffering("offering-1", "freelancer-1"), nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), int64(1500), gomock.Any()).Return("pi_123", "pi_123_secret", nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Create(context.Background(), req, "customer-1")

		assert.NoError(t, err)
		assert.Equal(t, "pi_123_secret", res.ClientSecret)
	})

	t.Run("own offering", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.offeringRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(activeOffering("offering-1", "customer-1"), nil)

		_, err := svc.Create(context.Background(), validReq, "customer-1")

		assert.EqualError(t, err, "you cannot book your own offering")
	})

	t.Run("inactive offering", func(t *testing.T) {
		svc, m := newBookingService(t)

		offering := activeOffering("offering-1", "freelancer-1")
		offering.Active = false

		m.offeringRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offering, nil)

		_, err := svc.Create(context.Background(), validReq, "customer-1")

		assert.Error(t, err)
	})
}

func TestBookingService_Confirm(t *testing.T) {
	t.Run("freelancer confirms and the start code goes out", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.otp.EXPECT().Issue(gomock.Any(), "engagement", "booking-1:start", gomock.Any(), gomock.Any()).Return("1234", nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
		m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)

		assert.NoError(t, svc.Confirm(context.Background(), "booking-1", "freelancer-1"))
	})

	t.Run("only the booked freelancer can confirm", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)

		assert.Error(t, svc.Confirm(context.Background(), "booking-1", "somebody-else"))
	})

	t.Run("lost race on status update", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		assert.Error(t, svc.Confirm(context.Background(), "booking-1", "freelancer-1"))
	})
}

func TestBookingService_StartAndComplete(t *testing.T) {
	t.Run("start verifies the code and issues the completion code", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := bookedBooking("booking-1")
		booking.Status = string(lifecycle.StatusConfirmed)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.otp.EXPECT().Verify(gomock.Any(), "engagement", "booking-1:start", "1234").Return(nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.otp.EXPECT().Issue(gomock.Any(), "engagement", "booking-1:complete", gomock.Any(), gomock.Any()).Return("5678", nil)
		m.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{ID: "customer-1", Phone: "+9779812345678"}, nil)
		m.sms.EXPECT().Send(gomock.Any(), "+9779812345678", gomock.Any()).Return(nil)

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "1234"}, "booking-1", "freelancer-1")

		assert.NoError(t, err)
	})

	t.Run("cannot start an unconfirmed booking", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)

		err := svc.Start(context.Background(), dto.EngagementOTPRequest{OTP: "1234"}, "booking-1", "freelancer-1")

		assert.Error(t, err)
	})

	t.Run("complete verifies the completion code", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := bookedBooking("booking-1")
		booking.Status = string(lifecycle.StatusOnGoing)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.otp.EXPECT().Verify(gomock.Any(), "engagement", "booking-1:complete", "5678").Return(nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		err := svc.Complete(context.Background(), dto.EngagementOTPRequest{OTP: "5678"}, "booking-1", "freelancer-1")

		assert.NoError(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("customer cancels a fresh booking", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)

		assert.NoError(t, svc.Cancel(context.Background(), "booking-1", "customer-1"))
	})

	t.Run("online cancel voids the payment intent", func(t *testing.T) {
		svc, m := newBookingService(t)

		ref := "pi_123"
		booking := bookedBooking("booking-1")
		booking.PaymentType = model.PaymentTypeOnline
		booking.PaymentRef = &ref

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.repo.EXPECT().UpdateChecked(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
		m.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_123").Return(nil)

		assert.NoError(t, svc.Cancel(context.Background(), "booking-1", "customer-1"))
	})

	t.Run("confirmed booking routes to support", func(t *testing.T) {
		svc, m := newBookingService(t)

		booking := bookedBooking("booking-1")
		booking.Status = string(lifecycle.StatusConfirmed)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Cancel(context.Background(), "booking-1", "customer-1")

		assert.Error(t, err)
		assert.True(t, failure.IsSupportContact(err))
	})

	t.Run("only the customer can cancel", func(t *testing.T) {
		svc, m := newBookingService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookedBooking("booking-1"), nil)

		assert.Error(t, svc.Cancel(context.Background(), "booking-1", "freelancer-1"))
	})
}

func TestBookingService_GetFreelancerBookings(t *testing.T) {
	t.Run("completed engagements leave the all bucket", func(t *testing.T) {
		svc, m := newBookingService(t)

		ongoing := bookedBooking("booking-1")
		ongoing.Status = string(lifecycle.StatusOnGoing)

		finished := bookedBooking("booking-2")
		finished.Status = string(lifecycle.StatusCompleted)

		completedApp := appModel.Application{
			ID:           "app-1",
			JobID:        "job-1",
			FreelancerID: "freelancer-1",
			BidAmount:    900,
			Status:       string(lifecycle.StatusCompleted),
		}

		// live bucket, then completed bucket
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{ongoing}, nil)
		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{finished}, nil)

		m.appRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)
		m.appRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]appModel.Application{completedApp}, nil)

		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		m.appRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
		m.appRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)

		res, err := svc.GetFreelancerBookings(context.Background(), gDto.QueryParams{Limit: 10, Page: 1}, "freelancer-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, res.AllTotal)
		assert.Equal(t, 2, res.CompletedTotal)

		require.Len(t, res.All, 1)
		assert.Equal(t, "booking-1", res.All[0].ID)
		for _, row := range res.All {
			assert.NotEqual(t, string(lifecycle.StatusCompleted), row.Status)
		}

		require.Len(t, res.Completed, 2)
		assert.Equal(t, "booking", res.Completed[0].Kind)
		assert.Equal(t, "job", res.Completed[1].Kind)
	})
}
