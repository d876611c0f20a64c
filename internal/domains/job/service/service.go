package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"kaamdham/config"
	"kaamdham/infras/otel"
	"kaamdham/internal/domains/job/model"
	"kaamdham/internal/domains/job/model/dto"
	"kaamdham/internal/domains/job/repository"
	"kaamdham/internal/events"
	"kaamdham/shared"
	"kaamdham/shared/cache"
	"kaamdham/shared/constant"
	gDto "kaamdham/shared/dto"
	"kaamdham/shared/failure"
	"kaamdham/shared/lifecycle"
)

const (
	cacheGetJob  = "job:get"
	cacheGetJobs = "job:get_all"
)

type Job interface {
	Create(ctx context.Context, req dto.CreateJobRequest, userID string) (dto.JobResponse, error)
	Get(ctx context.Context, id string) (dto.JobResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, userID string) (dto.GetJobsResponse, error)
	Browse(ctx context.Context, params gDto.QueryParams) (dto.GetJobsResponse, error)
	Update(ctx context.Context, req dto.UpdateJobRequest, id, userID string) error
	UpdateStatus(ctx context.Context, req dto.UpdateJobStatusRequest, id, userID string) error
}

type serviceImpl struct {
	repo      repository.Job
	cfg       *config.Config
	cache     cache.RedisCache
	publisher events.Publisher
	otel      otel.Otel
}

func New(
	repo repository.Job,
	cfg *config.Config,
	cache cache.RedisCache,
	publisher events.Publisher,
	otel otel.Otel,
) Job {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		publisher: publisher,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateJobRequest, userID string) (res dto.JobResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Instant {
		// One open instant job per user; a second request means the client
		// lost track of the first one.
		exist, err := s.repo.Exist(ctx, openInstantFilter(userID))
		if err != nil {
			log.Error().Err(err).Msg("failed to check open instant jobs")

			return res, fmt.Errorf("failed to check open instant jobs: %w", err)
		}

		if exist {
			return res, failure.Conflict("you already have an open instant booking") // nolint:wrapcheck
		}
	}

	job, err := req.ToModel(userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse preferred date")

		return res, failure.BadRequestFromString("preferred_date must be formatted as YYYY-MM-DD") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, job); err != nil {
		log.Error().Err(err).Msg("failed to insert job")

		return res, fmt.Errorf("failed to insert job: %w", err)
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetJobs)

	res.FromModel(job)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.JobResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetJob, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for job")

		return res, nil
	}

	job, err := s.getJob(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(job)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save job to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, userID string) (res dto.GetJobsResponse, err error) {
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
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusDeleted),
				Operator: gDto.FilterOperatorNotEq,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) Browse(ctx context.Context, params gDto.QueryParams) (res dto.GetJobsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Browse")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusOpen),
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldInstant,
				Table:    model.TableName,
				Value:    false,
				Operator: gDto.FilterOperatorEq,
			},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateJobRequest, id, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.getJob(ctx, id)
	if err != nil {
		return err
	}

	if job.UserID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if job.Status != string(lifecycle.StatusOpen) {
		return failure.Conflict("only open jobs can be edited") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, userID)

	if req.PreferredDate != constant.Empty {
		updatedFields[model.FieldPreferredDate] = req.PreferredDate
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update job")

		return fmt.Errorf("failed to update job: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateJobStatusRequest, id, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	job, err := s.getJob(ctx, id)
	if err != nil {
		return err
	}

	if job.UserID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	from := lifecycle.Status(job.Status)
	to := lifecycle.Status(req.Status)

	if err = lifecycle.Guard(lifecycle.FlowJob, from, to); err != nil {
		return err // nolint:wrapcheck
	}

	affected, err := s.repo.UpdateChecked(ctx, map[string]any{model.FieldStatus: req.Status}, statusFilter(id, job.Status))
	if err != nil {
		log.Error().Err(err).Msg("failed to update job status")

		return fmt.Errorf("failed to update job status: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("job status changed, refresh and try again") // nolint:wrapcheck
	}

	s.publisher.PublishTransition(ctx, lifecycle.FlowJob, id, from, to, userID)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetJobsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetJobs, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for jobs")

		return res, nil
	}

	jobs, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get jobs")

		return res, fmt.Errorf("failed to get jobs: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count jobs")

		return res, fmt.Errorf("failed to count jobs: %w", err)
	}

	res.FromModels(jobs, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save jobs to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getJob(ctx context.Context, id string) (model.Job, error) {
	job, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get job")

		return job, fmt.Errorf("failed to get job: %w", err)
	}

	if job.ID == constant.Empty || job.Status == string(lifecycle.StatusDeleted) {
		return job, failure.NotFound("job not found") // nolint:wrapcheck
	}

	return job, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetJob, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete job from cache")
		}
	}()

	shared.InvalidateCaches(ctx, s.cache, cacheGetJobs)
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

func openInstantFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Table:    model.TableName,
				Value:    userID,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldInstant,
				Table:    model.TableName,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Table:    model.TableName,
				Value:    string(lifecycle.StatusOpen),
				Operator: gDto.FilterOperatorEq,
			},
		},
	}
}
