package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

func newExportServiceForTest() *ExportService {
	schedules := NewScheduleService(&fakeScheduleRepo{rows: scheduleRows()}, nil, 0, nil, zap.NewNop())
	return NewExportService(schedules, zap.NewNop())
}

func TestExportServiceScheduleCSV(t *testing.T) {
	svc := newExportServiceForTest()

	file, err := svc.ExportSchedule(context.Background(), ScheduleQuery{Year: 2024, Term: "FALL", Prefix: "cs"}, "")
	require.NoError(t, err)
	assert.Equal(t, "schedule_fall_2024_cs.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, scheduleExportHeaders, records[0])
	assert.Equal(t, []string{"Monday", "09:00", "10:15", "CS", "CS 051", "Undergraduate", "G115", "Allston"}, records[1])
	assert.Equal(t, "Wednesday", records[3][0])
}

func TestExportServiceSchedulePDFAndXLSX(t *testing.T) {
	svc := newExportServiceForTest()

	pdf, err := svc.ExportSchedule(context.Background(), ScheduleQuery{Year: 2024, Term: "FALL"}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "schedule_fall_2024.pdf", pdf.Filename)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF")))

	xlsx, err := svc.ExportSchedule(context.Background(), ScheduleQuery{Year: 2024, Term: "FALL"}, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsx.ContentType)
	assert.True(t, bytes.HasPrefix(xlsx.Data, []byte("PK")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest()
	_, err := svc.ExportSchedule(context.Background(), ScheduleQuery{Year: 2024, Term: "FALL"}, "docx")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "a_b-c", sanitizeFilename("a b/c"))
}
