package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

type meetingServiceMock struct {
	createOwner models.MeetingOwner
	createReq   service.MeetingRequest
	createErr   error
	updateID    string
	deleteErr   error
	listOwner   models.MeetingOwner
	checkResult *service.ConflictCheckResult
}

func (m *meetingServiceMock) Get(ctx context.Context, id string) (*models.Meeting, error) {
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
	}
	return &models.Meeting{ID: id, Day: models.Monday, StartTime: timeofday.MustParse("09:00"), EndTime: timeofday.MustParse("10:15"), Owner: models.CourseInstanceOwner{ID: "ci-1"}}, nil
}

func (m *meetingServiceMock) ListByOwner(ctx context.Context, owner models.MeetingOwner) ([]models.Meeting, error) {
	m.listOwner = owner
	return []models.Meeting{}, nil
}

func (m *meetingServiceMock) Create(ctx context.Context, owner models.MeetingOwner, req service.MeetingRequest) (*models.Meeting, error) {
	m.createOwner = owner
	m.createReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Meeting{ID: "new", Day: models.Monday, Owner: owner}, nil
}

func (m *meetingServiceMock) Update(ctx context.Context, id string, req service.MeetingRequest) (*models.Meeting, error) {
	m.updateID = id
	return &models.Meeting{ID: id, Owner: models.CourseInstanceOwner{ID: "ci-1"}}, nil
}

func (m *meetingServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *meetingServiceMock) CheckConflicts(ctx context.Context, req service.CheckConflictRequest) (*service.ConflictCheckResult, error) {
	return m.checkResult, nil
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body []byte
	switch p := payload.(type) {
	case string:
		body = []byte(p)
	default:
		var err error
		body, err = json.Marshal(p)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestMeetingHandlerCreateForNonClassEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &meetingServiceMock{}
	h := NewMeetingHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/non-class-events/nce-1/meetings", map[string]string{"day": "FRIDAY", "start_time": "15:00", "end_time": "16:00"})
	c.Params = gin.Params{{Key: "id", Value: "nce-1"}}

	h.CreateForNonClassEvent(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.NonClassEventOwner{ID: "nce-1"}, svc.createOwner)
	assert.Equal(t, "FRIDAY", svc.createReq.Day)
	assert.Nil(t, svc.createReq.RoomID)

	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NON_CLASS_EVENT", body.Data["owner_type"])
	assert.Equal(t, "nce-1", body.Data["owner_id"])
}

func TestMeetingHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	msg := "G115 is not available on Monday between 10:30 AM - 11:45 AM. CONFLICTS WITH: CS 50, CS 51"
	conflict := &models.BookingConflictError{Message: msg, Conflicts: []models.Booking{{Title: "CS 50"}, {Title: "CS 51"}}}
	svc := &meetingServiceMock{createErr: appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msg)}
	h := NewMeetingHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/course-instances/ci-1/meetings", map[string]string{"day": "MONDAY", "start_time": "10:30", "end_time": "11:45", "room_id": "6f1c2d3e-0000-4000-8000-000000000001"})
	c.Params = gin.Params{{Key: "id", Value: "ci-1"}}

	h.CreateForCourseInstance(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Data struct {
			Conflicts []models.Booking `json:"conflicts"`
		} `json:"data"`
		Error appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, msg, body.Error.Message)
	assert.Len(t, body.Data.Conflicts, 2)
	assert.Equal(t, models.CourseInstanceOwner{ID: "ci-1"}, svc.createOwner)
}

func TestMeetingHandlerInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMeetingHandler(&meetingServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPut, "/meetings/m1", "invalid")
	c.Params = gin.Params{{Key: "id", Value: "m1"}}

	h.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeetingHandlerGetAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMeetingHandler(&meetingServiceMock{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "meeting not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/meetings/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/meetings/m1", nil)
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	h.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"start_time":"09:00:00"`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/meetings/m1", nil)
	c.Params = gin.Params{{Key: "id", Value: "m1"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeetingHandlerListByCourseInstance(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &meetingServiceMock{}
	h := NewMeetingHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/course-instances/ci-7/meetings", nil)
	c.Params = gin.Params{{Key: "id", Value: "ci-7"}}

	h.ListByCourseInstance(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CourseInstanceOwner{ID: "ci-7"}, svc.listOwner)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestMeetingHandlerCheckConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &meetingServiceMock{checkResult: &service.ConflictCheckResult{Available: true, Conflicts: []models.Booking{}}}
	h := NewMeetingHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/meetings/conflicts", map[string]interface{}{"day": "MONDAY", "start_time": "08:00", "end_time": "09:00", "room_id": "r", "year": 2024, "term": "FALL"})

	h.CheckConflicts(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"available":true,"conflicts":[]}}`, w.Body.String())
}
