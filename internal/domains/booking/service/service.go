package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	"kaamdham/infras/payment"
	"kaamdham/infras/sms"
	appModel "kaamdham/internal/domains/application/model"
	appRepository "kaamdham/internal/domains/application/repository"
	"kaamdham/internal/domains/booking/model"
	"kaamdham/internal/domains/booking/model/dto"
	"kaamdham/internal/domains/booking/repository"
	offeringModel "kaamdham/internal/domains/offering/model"
	offeringRepository "kaamdham/internal/domains/offering/repository"
	userModel "kaamdham/internal/domains/user/model"
	userRepository "kaamdham/internal/domains/user/repository"
	"kaamdham/internal/events"
	"kaamdham/shared"
	"kaamdham/shared/cache"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
	"kaamdham/shared/otp"
)

const (
	cacheGetBooking  = "booking:get"
	cacheGetBookings = "booking:get_all"

	engagementKindBooking = "booking"
	engagementKindJob     = "job"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, userID string) (dto.BookingResponse, error)
	Get(ctx context.Context, id, requesterID string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, userID string) (dto.GetBookingsResponse, error)
	Confirm(ctx context.Context, id, freelancerID string) error
	Start(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) error
	Complete(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) error
	Cancel(ctx context.Context, id, userID string) error
	GetFreelancerBookings(ctx context.Context, params gDto.QueryParams, freelancerID string) (dto.FreelancerBookingsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	offeringRepo offeringRepository.Offering
	appRepo      appRepository.Application
	userRepo     userRepository.User
	cfg          *config.Config
	cache        cache.RedisCache
	otpManager   otp.Manager
	smsSender    sms.Sender
	gateway      payment.Gateway
	publisher    events.Publisher
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	offeringRepo offeringRepository.Offering,
	appRepo appRepository.Application,
	userRepo userRepository.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otpManager otp.Manager,
	smsSender sms.Sender,
	gateway payment.Gateway,
	publisher events.Publisher,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		offeringRepo: offeringRepo,
		appRepo:      appRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		cache:        cache,
		otpManager:   otpManager,
		smsSender:    smsSender,
		gateway:      gateway,
		publisher:    publisher,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, userID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	offering, err := s.offeringRepo.Get(ctx, shared.FilterByID(req.OfferingID, offeringModel.FieldID, offeringModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get offering")

		return res, fmt.Errorf("failed to get offering: %w", err)
	}

	if offering.ID == constant.Empty || !offering.Active {
		return res, failure.NotFound("offering not found") // nolint:wrapcheck
	}

	if offering.FreelancerID == userID {
		return res, failure.BadRequestFromString("you cannot book your own offering") // nolint:wrapcheck
	}

	booking, err := req.ToModel(userID, offering.FreelancerID, offering.Price)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking date")

		return res, failure.BadRequestFromString("booking_date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	var clientSecret string

	if booking.PaymentType == model.PaymentTypeOnline {
		intentID, secret, err := s.gateway.CreateIntent(ctx, booking.Amount, booking.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to create payment intent")

			return res, fmt.Errorf("failed to create payment intent: %w", err)
		}

		booking.PaymentRef = &intentID
		clientSecret = secret
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return res, fmt.Errorf("failed to insert booking: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetBookings)

	res.FromModel(booking)
	res.ClientSecret = clientSecret

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id, requesterID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.UserID != requesterID && booking.FreelancerID != requesterID {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, userID string) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Table:    model.TableName,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetBookings, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

// Confirm is the freelancer accepting the job. The customer gets the four
// digit start code by SMS and reads it out when the freelancer arrives.
func (s *serviceImpl) Confirm(ctx context.Context, id, freelancerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.FreelancerID != freelancerID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if err = s.transition(ctx, booking, lifecycle.StatusConfirmed, freelancerID); err != nil {
		return err
	}

	return s.issueEngagementOTP(ctx, startSubject(id), booking.UserID)
}

func (s *serviceImpl) Start(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Start")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.FreelancerID != freelancerID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if err = lifecycle.Guard(lifecycle.FlowBooking, lifecycle.Status(booking.Status), lifecycle.StatusOnGoing); err != nil {
		return err // nolint:wrapcheck
	}

	if err = s.otpManager.Verify(ctx, otp.PurposeEngagement, startSubject(id), req.OTP); err != nil {
		return err // nolint:wrapcheck
	}

	if err = s.transition(ctx, booking, lifecycle.StatusOnGoing, freelancerID); err != nil {
		return err
	}

	// The completion code goes out at start so the customer has it on hand
	// when the work wraps up.
	return s.issueEngagementOTP(ctx, completeSubject(id), booking.UserID)
}

func (s *serviceImpl) Complete(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.FreelancerID != freelancerID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if err = lifecycle.Guard(lifecycle.FlowBooking, lifecycle.Status(booking.Status), lifecycle.StatusCompleted); err != nil {
		return err // nolint:wrapcheck
	}

	if err = s.otpManager.Verify(ctx, otp.PurposeEngagement, completeSubject(id), req.OTP); err != nil {
		return err // nolint:wrapcheck
	}

	return s.transition(ctx, booking, lifecycle.StatusCompleted, freelancerID)
}

func (s *serviceImpl) Cancel(ctx context.Context, id, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if booking.UserID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if booking.Status != string(lifecycle.StatusBooked) {
		return failure.SupportContact("this booking is already underway, please contact support to cancel") // nolint:wrapcheck
	}

	if err = s.transition(ctx, booking, lifecycle.StatusCancelled, userID); err != nil {
		return err
	}

	if booking.PaymentType == model.PaymentTypeOnline && booking.PaymentRef != nil {
		if err = s.gateway.CancelIntent(ctx, *booking.PaymentRef); err != nil {
			log.Error().Err(err).Str("booking", id).Msg("failed to cancel payment intent")

			return fmt.Errorf("failed to cancel payment intent: %w", err)
		}
	}

	return nil
}

// GetFreelancerBookings builds the freelancer's work feed: the all bucket
// holds live engagements only, the completed bucket holds finished ones.
// Hired job applications ride along with direct bookings, and completing an
// engagement moves it from one bucket to the other, decrementing the all
// total and incrementing the completed total.
func (s *serviceImpl) GetFreelancerBookings(ctx context.Context, params gDto.QueryParams, freelancerID string) (res dto.FreelancerBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetFreelancerBookings")
	defer scope.End()
	defer scope.TraceIfError(err)

	liveBookings := freelancerBookingsFilter(freelancerID, false)
	doneBookings := freelancerBookingsFilter(freelancerID, true)
	liveApplications := hiredApplicationsFilter(freelancerID, false)
	doneApplications := hiredApplicationsFilter(freelancerID, true)

	if res.All, err = s.collectEngagements(ctx, params, liveBookings, liveApplications); err != nil {
		return res, err
	}

	if res.Completed, err = s.collectEngagements(ctx, params, doneBookings, doneApplications); err != nil {
		return res, err
	}

	if res.AllTotal, err = s.countEngagements(ctx, liveBookings, liveApplications); err != nil {
		return res, err
	}

	if res.CompletedTotal, err = s.countEngagements(ctx, doneBookings, doneApplications); err != nil {
		return res, err
	}

	return res, nil
}

func (s *serviceImpl) collectEngagements(ctx context.Context, params gDto.QueryParams, bookingFilter, appFilter gDto.FilterGroup) ([]dto.EngagementResponse, error) {
	bookings, err := s.repo.GetAll(ctx, params, bookingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get freelancer bookings")

		return nil, fmt.Errorf("failed to get freelancer bookings: %w", err)
	}

	applications, err := s.appRepo.GetAll(ctx, params, appFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get hired applications")

		return nil, fmt.Errorf("failed to get hired applications: %w", err)
	}

	rows := make([]dto.EngagementResponse, 0, len(bookings)+len(applications))

	for _, b := range bookings {
		rows = append(rows, dto.EngagementResponse{
			ID:        b.ID,
			Kind:      engagementKindBooking,
			Reference: b.OfferingID,
			Amount:    b.Amount,
			Status:    b.Status,
			Date:      b.BookingDate.Format(constant.DateOnlyFormat),
		})
	}

	for _, a := range applications {
		rows = append(rows, dto.EngagementResponse{
			ID:        a.ID,
			Kind:      engagementKindJob,
			Reference: a.JobID,
			Amount:    a.BidAmount,
			Status:    a.Status,
		})
	}

	return rows, nil
}

func (s *serviceImpl) countEngagements(ctx context.Context, bookingFilter, appFilter gDto.FilterGroup) (int, error) {
	bookingTotal, err := s.repo.Count(ctx, bookingFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count freelancer bookings")

		return 0, fmt.Errorf("failed to count freelancer bookings: %w", err)
	}

	appTotal, err := s.appRepo.Count(ctx, appFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count hired applications")

		return 0, fmt.Errorf("failed to count hired applications: %w", err)
	}

	return bookingTotal + appTotal, nil
}

func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, to lifecycle.Status, actor string) error {
	from := lifecycle.Status(booking.Status)

	if err := lifecycle.Guard(lifecycle.FlowBooking, from, to); err != nil {
		return err // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(
		ctx,
		map[string]any{model.FieldStatus: string(to)},
		statusFilter(booking.ID, booking.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking status changed, refresh and try again") // nolint:wrapcheck
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowBooking, booking.ID, from, to, actor)
	s.invalidate(ctx, booking.ID)

	return nil
}

func (s *serviceImpl) issueEngagementOTP(ctx context.Context, subject, customerID string) error {
	code, err := s.otpManager.Issue(ctx, otp.PurposeEngagement, subject, constant.EngagementOTPDigits, s.cfg.OTP.EngagementTTLSeconds)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue engagement OTP")

		return fmt.Errorf("failed to issue engagement OTP: %w", err)
	}

	customer, err := s.userRepo.Get(ctx, shared.FilterByID(customerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get customer")

		return fmt.Errorf("failed to get customer: %w", err)
	}

	if err = s.smsSender.Send(ctx, customer.Phone, fmt.Sprintf("Your KaamDham verification code is %s", code)); err != nil {
		log.Error().Err(err).Msg("failed to send engagement OTP")

		return fmt.Errorf("failed to send engagement OTP: %w", err)
	}

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}
	}()

	shared.InvalidateCaches(ctx, s.cache, cacheGetBookings)
}

func startSubject(id string) string {
	return id + ":start"
}

func completeSubject(id string) string {
	return id + ":complete"
}

func statusFilter(id, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Table:    model.TableName,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}

func freelancerBookingsFilter(freelancerID string, completed bool) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldFreelancerID,
			Table:    model.TableName,
			Value:    freelancerID,
			Operator: gDto.FilterOperatorEq,
		},
	}

	if completed {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldStatus,
			Table:    model.TableName,
			Value:    string(lifecycle.StatusCompleted),
			Operator: gDto.FilterOperatorEq,
		})
	} else {
		filters = append(filters,
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusCancelled),
				Operator: gDto.FilterOperatorNotEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusCompleted),
				Operator: gDto.FilterOperatorNotEq,
			},
		)
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

func hiredApplicationsFilter(freelancerID string, completed bool) gDto.FilterGroup {
	statuses := []string{
		string(lifecycle.StatusShortlisted),
		string(lifecycle.StatusInProgress),
	}
	if completed {
		statuses = []string{string(lifecycle.StatusCompleted)}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    appModel.FieldFreelancerID,
				Table:    appModel.TableName,
				Value:    freelancerID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    appModel.FieldStatus,
				Table:    appModel.TableName,
				Value:    statuses,
				Operator: gDto.FilterOperatorIn,
			},
		},
	}
}
