package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	"kaamdham/infras/payment"
	"kaamdham/infras/sms"
	"kaamdham/internal/domains/application/model"
	"kaamdham/internal/domains/application/model/dto"
	"kaamdham/internal/domains/application/repository"
	jobModel "kaamdham/internal/domains/job/model"
	jobRepository "kaamdham/internal/domains/job/repository"
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
	"kaamdham/shared/timezone"
)

const (
	cacheGetApplications = "application:get_all"
)

type Application interface {
	Apply(ctx context.Context, req dto.ApplyRequest, freelancerID string) (dto.ApplicationResponse, error)
	GetForJob(ctx context.Context, params gDto.QueryParams, jobID, userID string) (dto.GetApplicationsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, freelancerID string) (dto.GetApplicationsResponse, error)
	Confirm(ctx context.Context, id, userID string) (dto.ConfirmResponse, error)
	Reject(ctx context.Context, id, userID string) error
	Start(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) error
	Complete(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) error
}

type serviceImpl struct {
	repo       repository.Application
	jobRepo    jobRepository.Job
	userRepo   userRepository.User
	cfg        *config.Config
	cache      cache.RedisCache
	otpManager otp.Manager
	smsSender  sms.Sender
	gateway    payment.Gateway
	publisher  events.Publisher
	otel       otel.Otel
}

func New(
	repo repository.Application,
	jobRepo jobRepository.Job,
	userRepo userRepository.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otpManager otp.Manager,
	smsSender sms.Sender,
	gateway payment.Gateway,
	publisher events.Publisher,
	otel otel.Otel,
) Application {
	return &serviceImpl{
		repo:       repo,
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		cfg:        cfg,
		cache:      cache,
		otpManager: otpManager,
		smsSender:  smsSender,
		gateway:    gateway,
		publisher:  publisher,
		otel:       otel,
	}
}

func (s *serviceImpl) Apply(ctx context.Context, req dto.ApplyRequest, freelancerID string) (res dto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Apply")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.getJob(ctx, req.JobID)
	if err != nil {
		return res, err
	}

	if job.UserID == freelancerID {
		return res, failure.BadRequestFromString("you cannot apply to your own job") // nolint:wrapcheck
	}

	if job.Status != string(lifecycle.StatusOpen) {
		return res, failure.Conflict("this job is no longer accepting applications") // nolint:wrapcheck
	}

	exist, err := s.repo.Exist(ctx, applicantFilter(req.JobID, freelancerID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing application")

		return res, fmt.Errorf("failed to check existing application: %w", err)
	}

	if exist {
		return res, failure.Conflict("you have already applied to this job") // nolint:wrapcheck
	}

	application := req.ToModel(freelancerID)

	if err = s.repo.Insert(ctx, application); err != nil {
		log.Error().Err(err).Msg("failed to insert application")

		return res, fmt.Errorf("failed to insert application: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetApplications)

	res.FromModel(application)

	return res, nil
}

func (s *serviceImpl) GetForJob(ctx context.Context, params gDto.QueryParams, jobID, userID string) (res dto.GetApplicationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetForJob")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return res, err
	}

	if job.UserID != userID {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldJobID,
				Table:    model.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, freelancerID string) (res dto.GetApplicationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldFreelancerID,
				Table:    model.TableName,
				Value:    freelancerID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return s.list(ctx, params, filter)
}

// Confirm shortlists one application, turns the rest of the field away and
// hands the customer the four digit code the freelancer will need on the
// doorstep.
func (s *serviceImpl) Confirm(ctx context.Context, id, userID string) (res dto.ConfirmResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, job, err := s.getApplicationWithJob(ctx, id)
	if err != nil {
		return res, err
	}

	if job.UserID != userID {
		return res, failure.ResourceRestrictedError // nolint:wrapcheck
	}

	from := lifecycle.Status(application.Status)

	if err = lifecycle.Guard(lifecycle.FlowApplication, from, lifecycle.StatusShortlisted); err != nil {
		return res, err // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(
		ctx,
		map[string]any{model.FieldStatus: string(lifecycle.StatusShortlisted)},
		statusFilter(id, application.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to shortlist application")

		return res, fmt.Errorf("failed to shortlist application: %w", err)
	}

	if affected == 0 {
		return res, failure.Conflict("application status changed, refresh and try again") // nolint:wrapcheck
	}

	if err = s.rejectSiblings(ctx, application); err != nil {
		return res, err
	}

	if _, err = s.jobRepo.UpdateChecked(
		ctx,
		map[string]any{jobModel.FieldStatus: string(lifecycle.StatusAssigned)},
		jobStatusFilter(job.ID, string(lifecycle.StatusOpen)),
	); err != nil {
		log.Error().Err(err).Msg("failed to assign job")

		return res, fmt.Errorf("failed to assign job: %w", err)
	}

	// Accepting an online instant bid opens the payment order right away;
	// the accept response hands the client the intent to settle.
	if job.Instant && job.PaymentType == jobModel.PaymentTypeOnline {
		intentID, clientSecret, err := s.gateway.CreateIntent(ctx, application.BidAmount, id)
		if err != nil {
			log.Error().Err(err).Msg("failed to create payment intent")

			return res, fmt.Errorf("failed to create payment intent: %w", err)
		}

		if err = s.repo.Update(
			ctx,
			map[string]any{model.FieldPaymentRef: intentID},
			shared.FilterByID(id, model.FieldID, model.TableName),
		); err != nil {
			log.Error().Err(err).Msg("failed to store payment reference")

			return res, fmt.Errorf("failed to store payment reference: %w", err)
		}

		res.PaymentRef = intentID
		res.ClientSecret = clientSecret
	}

	if err = s.issueEngagementOTP(ctx, startSubject(id), job.UserID); err != nil {
		return res, err
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowApplication, id, from, lifecycle.StatusShortlisted, userID)
	s.publisher.PublishTransition(ctx, lifecycle.FlowJob, job.ID, lifecycle.StatusOpen, lifecycle.StatusAssigned, userID)
	shared.InvalidateCaches(ctx, s.cache, cacheGetApplications)

	return res, nil
}

func (s *serviceImpl) Reject(ctx context.Context, id, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, job, err := s.getApplicationWithJob(ctx, id)
	if err != nil {
		return err
	}

	if job.UserID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if application.Status != string(lifecycle.StatusApplied) {
		return failure.SupportContact("this application is already underway and cannot be rejected") // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(
		ctx,
		map[string]any{model.FieldStatus: string(lifecycle.StatusRejected)},
		statusFilter(id, application.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to reject application")

		return fmt.Errorf("failed to reject application: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("application status changed, refresh and try again") // nolint:wrapcheck
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowApplication, id, lifecycle.StatusApplied, lifecycle.StatusRejected, userID)
	shared.InvalidateCaches(ctx, s.cache, cacheGetApplications)

	return nil
}

func (s *serviceImpl) Start(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Start")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, job, err := s.getApplicationWithJob(ctx, id)
	if err != nil {
		return err
	}

	if application.FreelancerID != freelancerID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	from := lifecycle.Status(application.Status)

	if err = lifecycle.Guard(lifecycle.FlowApplication, from, lifecycle.StatusInProgress); err != nil {
		return err // nolint:wrapcheck
	}

	if job.PreferredDate != nil {
		today := timezone.Format(timezone.Now(), constant.DateOnlyFormat)
		preferred := timezone.Format(*job.PreferredDate, constant.DateOnlyFormat)

		if today < preferred {
			return failure.DateGuard("work cannot start before the preferred date", preferred) // nolint:wrapcheck
		}
	}

	if err = s.otpManager.Verify(ctx, otp.PurposeEngagement, startSubject(id), req.OTP); err != nil {
		return err // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(
		ctx,
		map[string]any{model.FieldStatus: string(lifecycle.StatusInProgress)},
		statusFilter(id, application.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to start engagement")

		return fmt.Errorf("failed to start engagement: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("application status changed, refresh and try again") // nolint:wrapcheck
	}

	// The completion code goes out as soon as work starts so the customer
	// has it on hand when the freelancer wraps up.
	if err = s.issueEngagementOTP(ctx, completeSubject(id), job.UserID); err != nil {
		return err
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowApplication, id, from, lifecycle.StatusInProgress, freelancerID)
	shared.InvalidateCaches(ctx, s.cache, cacheGetApplications)

	return nil
}

func (s *serviceImpl) Complete(ctx context.Context, req dto.EngagementOTPRequest, id, freelancerID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, job, err := s.getApplicationWithJob(ctx, id)
	if err != nil {
		return err
	}

	if application.FreelancerID != freelancerID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	from := lifecycle.Status(application.Status)

	if err = lifecycle.Guard(lifecycle.FlowApplication, from, lifecycle.StatusCompleted); err != nil {
		return err // nolint:wrapcheck
	}

	if err = s.otpManager.Verify(ctx, otp.PurposeEngagement, completeSubject(id), req.OTP); err != nil {
		return err // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(
		ctx,
		map[string]any{model.FieldStatus: string(lifecycle.StatusCompleted)},
		statusFilter(id, application.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to complete engagement")

		return fmt.Errorf("failed to complete engagement: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("application status changed, refresh and try again") // nolint:wrapcheck
	}

	if _, err = s.jobRepo.UpdateChecked(
		ctx,
		map[string]any{jobModel.FieldStatus: string(lifecycle.StatusClosed)},
		jobStatusFilter(job.ID, string(lifecycle.StatusAssigned)),
	); err != nil {
		log.Error().Err(err).Msg("failed to close job")

		return fmt.Errorf("failed to close job: %w", err)
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowApplication, id, from, lifecycle.StatusCompleted, freelancerID)
	s.publisher.PublishTransition(ctx, lifecycle.FlowJob, job.ID, lifecycle.StatusAssigned, lifecycle.StatusClosed, freelancerID)
	shared.InvalidateCaches(ctx, s.cache, cacheGetApplications)

	return nil
}

func (s *serviceImpl) rejectSiblings(ctx context.Context, confirmed model.Application) error {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldJobID,
				Table:    model.TableName,
				Value:    confirmed.JobID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				ArgName:  "sibling_id",
				Field:    model.FieldID,
				Table:    model.TableName,
				Value:    confirmed.ID,
				Operator: gDto.FilterOperatorNotEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusApplied),
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	if err := s.repo.Update(ctx, map[string]any{model.FieldStatus: string(lifecycle.StatusRejected)}, filter); err != nil {
		log.Error().Err(err).Msg("failed to reject sibling applications")

		return fmt.Errorf("failed to reject sibling applications: %w", err)
	}

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

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetApplicationsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetApplications, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for applications")

		return res, nil
	}

	applications, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get applications")

		return res, fmt.Errorf("failed to get applications: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count applications")

		return res, fmt.Errorf("failed to count applications: %w", err)
	}

	res.FromModels(applications, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save applications to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getApplicationWithJob(ctx context.Context, id string) (model.Application, jobModel.Job, error) {
	application, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get application")

		return application, jobModel.Job{}, fmt.Errorf("failed to get application: %w", err)
	}

	if application.ID == constant.Empty {
		return application, jobModel.Job{}, failure.NotFound("application not found") // nolint:wrapcheck
	}

	job, err := s.getJob(ctx, application.JobID)
	if err != nil {
		return application, job, err
	}

	return application, job, nil
}

func (s *serviceImpl) getJob(ctx context.Context, id string) (jobModel.Job, error) {
	job, err := s.jobRepo.Get(ctx, shared.FilterByID(id, jobModel.FieldID, jobModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get job")

		return job, fmt.Errorf("failed to get job: %w", err)
	}

	if job.ID == constant.Empty || job.Status == string(lifecycle.StatusDeleted) {
		return job, failure.NotFound("job not found") // nolint:wrapcheck
	}

	return job, nil
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

func jobStatusFilter(id, status string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    jobModel.FieldID,
				Table:    jobModel.TableName,
				Value:    id,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    jobModel.FieldStatus,
				Table:    jobModel.TableName,
				Value:    status,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}

func applicantFilter(jobID, freelancerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldJobID,
				Table:    model.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldFreelancerID,
				Table:    model.TableName,
				Value:    freelancerID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusRejected),
				Operator: gDto.FilterOperatorNotEq,
			},
		},
	}
}
