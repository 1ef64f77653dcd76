package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

const scheduleCachePrefix = "schedule:blocks"

type courseScheduleRepository interface {
	ListMeetings(ctx context.Context, filter models.ScheduleFilter) ([]models.MeetingWithContext, error)
}

// ScheduleQuery selects the semester and optional course prefix of a schedule.
type ScheduleQuery struct {
	Year   int    `form:"year" validate:"required,min=1900,max=2999"`
	Term   string `form:"term" validate:"required"`
	Prefix string `form:"prefix" validate:"omitempty,max=16"`
}

// ScheduleService builds the weekly schedule blocks shown on the calendar.
type ScheduleService struct {
	repo      courseScheduleRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService. cache may be nil.
func NewScheduleService(repo courseScheduleRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Filter validates the query and normalises it into a repository filter.
func (s *ScheduleService) Filter(query ScheduleQuery) (models.ScheduleFilter, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.ScheduleFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule query")
	}
	term, err := models.ParseTerm(query.Term)
	if err != nil {
		return models.ScheduleFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "term must be FALL or SPRING")
	}
	return models.ScheduleFilter{
		Year:   query.Year,
		Term:   term,
		Prefix: strings.ToUpper(strings.TrimSpace(query.Prefix)),
	}, nil
}

// Blocks returns the schedule blocks for the query and whether they were
// served from cache.
func (s *ScheduleService) Blocks(ctx context.Context, query ScheduleQuery) ([]models.ScheduleBlock, bool, error) {
	filter, err := s.Filter(query)
	if err != nil {
		return nil, false, err
	}

	key := CacheKey(scheduleCachePrefix, strconv.Itoa(filter.Year), string(filter.Term), filter.Prefix)
	var cached []models.ScheduleBlock
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("schedule cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, true, nil
	}

	rows, err := s.repo.ListMeetings(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	blocks := scheduler.BuildScheduleBlocks(rows)

	if err := s.cache.Set(ctx, key, blocks, s.cacheTTL); err != nil {
		s.logger.Warn("schedule cache write failed", zap.String("key", key), zap.Error(err))
	}
	s.logger.Debug("schedule blocks built",
		zap.Int("year", filter.Year),
		zap.String("term", string(filter.Term)),
		zap.String("prefix", filter.Prefix),
		zap.Int("meetings", len(rows)),
		zap.Int("blocks", len(blocks)),
	)
	return blocks, false, nil
}

// Invalidate drops every cached schedule. Called after any meeting changes.
func (s *ScheduleService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, scheduleCachePrefix+":*")
}
