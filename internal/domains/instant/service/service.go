package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	appModel "kaamdham/internal/domains/application/model"
	appDto "kaamdham/internal/domains/application/model/dto"
	appRepository "kaamdham/internal/domains/application/repository"
	"kaamdham/internal/domains/instant/model/dto"
	jobModel "kaamdham/internal/domains/job/model"
	jobDto "kaamdham/internal/domains/job/model/dto"
	jobRepository "kaamdham/internal/domains/job/repository"
	"kaamdham/internal/events"
	"kaamdham/shared"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
)

type Instant interface {
	Post(ctx context.Context, req dto.PostInstantRequest, userID string) (jobDto.JobResponse, error)
	GetOpen(ctx context.Context, userID string) (dto.OpenInstantResponse, error)
	Nearby(ctx context.Context, params gDto.QueryParams, geo gDto.GeoParams, freelancerID string) (dto.NearbyInstantResponse, error)
	Bid(ctx context.Context, req dto.BidRequest, freelancerID string) (appDto.ApplicationResponse, error)
	Cancel(ctx context.Context, userID string) error
}

type serviceImpl struct {
	jobRepo   jobRepository.Job
	appRepo   appRepository.Application
	cfg       *config.Config
	publisher events.Publisher
	otel      otel.Otel
}

func New(
	jobRepo jobRepository.Job,
	appRepo appRepository.Application,
	cfg *config.Config,
	publisher events.Publisher,
	otel otel.Otel,
) Instant {
	return &serviceImpl{
		jobRepo:   jobRepo,
		appRepo:   appRepo,
		cfg:       cfg,
		publisher: publisher,
		otel:      otel,
	}
}

func (s *serviceImpl) Post(ctx context.Context, req dto.PostInstantRequest, userID string) (res jobDto.JobResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Post")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.jobRepo.Exist(ctx, liveInstantFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check open instant bookings")

		return res, fmt.Errorf("failed to check open instant bookings: %w", err)
	}

	if exist {
		return res, failure.Conflict("you already have an open instant booking") // nolint:wrapcheck
	}

	job := req.ToModel(userID)

	if err = s.jobRepo.Insert(ctx, job); err != nil {
		log.Error().Err(err).Msg("failed to insert instant booking")

		return res, fmt.Errorf("failed to insert instant booking: %w", err)
	}

	res.FromModel(job)

	return res, nil
}

// GetOpen returns the caller's live instant booking with its bids. No live
// booking is an empty response, not an error: the client polls this after
// posting.
func (s *serviceImpl) GetOpen(ctx context.Context, userID string) (res dto.OpenInstantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetOpen")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.jobRepo.Get(ctx, liveInstantFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get instant booking")

		return res, fmt.Errorf("failed to get instant booking: %w", err)
	}

	if job.ID == constant.Empty {
		return res, nil
	}

	booking := jobDto.JobResponse{}
	booking.FromModel(job)
	res.Booking = &booking

	bids, err := s.appRepo.GetAll(ctx, gDto.QueryParams{}, bidsFilter(job.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bids")

		return res, fmt.Errorf("failed to get bids: %w", err)
	}

	res.Bids = make([]appDto.ApplicationResponse, len(bids))
	for i, b := range bids {
		res.Bids[i].FromModel(b)
	}

	return res, nil
}

// Nearby lists open instant jobs within the configured radius of the
// caller, closest first.
func (s *serviceImpl) Nearby(ctx context.Context, params gDto.QueryParams, geo gDto.GeoParams, freelancerID string) (res dto.NearbyInstantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Nearby")
	defer scope.End()
	defer scope.TraceIfError(err)

	if geo.IsZero() {
		return res, failure.BadRequestFromString("lat and lng query parameters are required") // nolint:wrapcheck
	}

	jobs, err := s.jobRepo.GetAll(ctx, params, openInstantJobsFilter())
	if err != nil {
		log.Error().Err(err).Msg("failed to get instant jobs")

		return res, fmt.Errorf("failed to get instant jobs: %w", err)
	}

	res.Jobs = make([]jobDto.JobResponse, 0, len(jobs))

	for _, j := range jobs {
		if j.UserID == freelancerID {
			continue
		}

		distance := shared.HaversineKm(geo.Lat, geo.Lng, j.Latitude, j.Longitude)
		if distance > s.cfg.Booking.NearbyRadiusKm {
			continue
		}

		row := jobDto.JobResponse{}
		row.FromModel(j)
		row.DistanceKm = distance

		res.Jobs = append(res.Jobs, row)
	}

	sort.Slice(res.Jobs, func(i, k int) bool {
		return res.Jobs[i].DistanceKm < res.Jobs[k].DistanceKm
	})

	res.TotalData = len(res.Jobs)

	return res, nil
}

func (s *serviceImpl) Bid(ctx context.Context, req dto.BidRequest, freelancerID string) (res appDto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Bid")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.jobRepo.Get(ctx, shared.FilterByID(req.JobID, jobModel.FieldID, jobModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get instant job")

		return res, fmt.Errorf("failed to get instant job: %w", err)
	}

	if job.ID == constant.Empty || !job.Instant || job.Status == string(lifecycle.StatusDeleted) {
		return res, failure.NotFound("instant booking not found") // nolint:wrapcheck
	}

	if job.UserID == freelancerID {
		return res, failure.BadRequestFromString("you cannot bid on your own booking") // nolint:wrapcheck
	}

	if job.Status != string(lifecycle.StatusOpen) {
		return res, failure.Conflict("this booking is no longer accepting bids") // nolint:wrapcheck
	}

	exist, err := s.appRepo.Exist(ctx, bidderFilter(req.JobID, freelancerID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check existing bid")

		return res, fmt.Errorf("failed to check existing bid: %w", err)
	}

	if exist {
		return res, failure.Conflict("you have already bid on this booking") // nolint:wrapcheck
	}

	apply := appDto.ApplyRequest{JobID: req.JobID, BidAmount: req.BidAmount, Message: req.Message}
	bid := apply.ToModel(freelancerID)

	if err = s.appRepo.Insert(ctx, bid); err != nil {
		log.Error().Err(err).Msg("failed to insert bid")

		return res, fmt.Errorf("failed to insert bid: %w", err)
	}

	res.FromModel(bid)

	return res, nil
}

// Cancel withdraws the caller's live instant booking and turns away its
// open bids. Once a freelancer has started working the booking can only be
// unwound through support.
func (s *serviceImpl) Cancel(ctx context.Context, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.jobRepo.Get(ctx, liveInstantFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get instant booking")

		return fmt.Errorf("failed to get instant booking: %w", err)
	}

	if job.ID == constant.Empty {
		return failure.NotFound("no open instant booking to cancel") // nolint:wrapcheck
	}

	started, err := s.appRepo.Exist(ctx, startedBidFilter(job.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check started bids")

		return fmt.Errorf("failed to check started bids: %w", err)
	}

	if started {
		return failure.SupportContact("work on this booking has already started, please contact support to cancel") // nolint:wrapcheck
	}

	from := lifecycle.Status(job.Status)

	if err = lifecycle.Guard(lifecycle.FlowJob, from, lifecycle.StatusDeleted); err != nil {
		return err // nolint:wrapcheck
	}

	affected, err := s.jobRepo.UpdateChecked(
		ctx,
		map[string]any{jobModel.FieldStatus: string(lifecycle.StatusDeleted)},
		jobStatusFilter(job.ID, job.Status),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel instant booking")

		return fmt.Errorf("failed to cancel instant booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking status changed, refresh and try again") // nolint:wrapcheck
	}

	if err = s.appRepo.Update(
		ctx,
		map[string]any{appModel.FieldStatus: string(lifecycle.StatusRejected)},
		liveBidsFilter(job.ID),
	); err != nil {
		log.Error().Err(err).Msg("failed to reject bids")

		return fmt.Errorf("failed to reject bids: %w", err)
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowJob, job.ID, from, lifecycle.StatusDeleted, userID)

	return nil
}

func liveInstantFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    jobModel.FieldUserID,
				Table:    jobModel.TableName,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    jobModel.FieldInstant,
				Table:    jobModel.TableName,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    jobModel.FieldStatus,
				Table:    jobModel.TableName,
				Value:    []string{string(lifecycle.StatusOpen), string(lifecycle.StatusAssigned)},
				Operator: gDto.FilterOperatorIn,
			},
		},
	}
}

func openInstantJobsFilter() gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    jobModel.FieldInstant,
				Table:    jobModel.TableName,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    jobModel.FieldStatus,
				Table:    jobModel.TableName,
				Value:    string(lifecycle.StatusOpen),
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}

func bidsFilter(jobID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    appModel.FieldJobID,
				Table:    appModel.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}

func bidderFilter(jobID, freelancerID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    appModel.FieldJobID,
				Table:    appModel.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    appModel.FieldFreelancerID,
				Table:    appModel.TableName,
				Value:    freelancerID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    appModel.FieldStatus,
				Table:    appModel.TableName,
				Value:    string(lifecycle.StatusRejected),
				Operator: gDto.FilterOperatorNotEq,
			},
		},
	}
}

func startedBidFilter(jobID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    appModel.FieldJobID,
				Table:    appModel.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    appModel.FieldStatus,
				Table:    appModel.TableName,
				Value:    []string{string(lifecycle.StatusInProgress), string(lifecycle.StatusCompleted)},
				Operator: gDto.FilterOperatorIn,
			},
		},
	}
}

func liveBidsFilter(jobID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    appModel.FieldJobID,
				Table:    appModel.TableName,
				Value:    jobID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    appModel.FieldStatus,
				Table:    appModel.TableName,
				Value:    []string{string(lifecycle.StatusApplied), string(lifecycle.StatusShortlisted)},
				Operator: gDto.FilterOperatorIn,
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
