package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/export"
)

var scheduleExportHeaders = []string{"Day", "Start", "End", "Prefix", "Course", "Level", "Room", "Campus"}

type scheduleBlockSource interface {
	Filter(query ScheduleQuery) (models.ScheduleFilter, error)
	Blocks(ctx context.Context, query ScheduleQuery) ([]models.ScheduleBlock, bool, error)
}

// ExportFile is a rendered export ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders schedule blocks as downloadable files.
type ExportService struct {
	schedules scheduleBlockSource
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules scheduleBlockSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{schedules: schedules, logger: logger}
}

// ExportSchedule renders the schedule selected by query in the requested
// format (csv, pdf or xlsx; csv when empty).
func (s *ExportService) ExportSchedule(ctx context.Context, query ScheduleQuery, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv, pdf or xlsx")
	}
	filter, err := s.schedules.Filter(query)
	if err != nil {
		return nil, err
	}
	blocks, _, err := s.schedules.Blocks(ctx, query)
	if err != nil {
		return nil, err
	}

	dataset := scheduleDataset(filter, blocks)
	payload, err := export.Render(f, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule export")
	}

	s.logger.Info("schedule exported",
		zap.String("format", string(f)),
		zap.Int("blocks", len(blocks)),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    exportFilename(filter, f),
		ContentType: f.ContentType(),
		Data:        payload,
	}, nil
}

func scheduleDataset(filter models.ScheduleFilter, blocks []models.ScheduleBlock) export.Dataset {
	title := fmt.Sprintf("Course Schedule %s %d", filter.Term.DisplayName(), filter.Year)
	if filter.Prefix != "" {
		title += " " + filter.Prefix
	}

	rows := make([]map[string]string, 0, len(blocks))
	for _, b := range blocks {
		start := fmt.Sprintf("%02d:%02d", b.StartHour, b.StartMinute)
		end := fmt.Sprintf("%02d:%02d", b.EndHour, b.EndMinute)
		for _, c := range b.Courses {
			level := "Graduate"
			if c.IsUndergraduate {
				level = "Undergraduate"
			}
			rows = append(rows, map[string]string{
				"Day":    b.Weekday.DisplayName(),
				"Start":  start,
				"End":    end,
				"Prefix": b.CoursePrefix,
				"Course": b.CoursePrefix + " " + c.CourseNumber,
				"Level":  level,
				"Room":   c.Room,
				"Campus": c.Campus,
			})
		}
	}
	return export.Dataset{Title: title, Headers: scheduleExportHeaders, Rows: rows}
}

func exportFilename(filter models.ScheduleFilter, f export.Format) string {
	parts := []string{"schedule", strings.ToLower(string(filter.Term)), strconv.Itoa(filter.Year)}
	if filter.Prefix != "" {
		parts = append(parts, sanitizeFilename(strings.ToLower(filter.Prefix)))
	}
	return strings.Join(parts, "_") + "." + string(f)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 64 {
		return result[:64]
	}
	return result
}
