package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/handler"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/config"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type studentTokens struct{}

func (studentTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if token == "student" {
		return &models.JWTClaims{UserID: "u2", Role: models.RoleStudent}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newTestEngine() http.Handler {
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	h := Handlers{
		Meeting:  handler.NewMeetingHandler(nil),
		Schedule: handler.NewScheduleHandler(nil, nil),
		Room:     handler.NewRoomHandler(nil),
		Semester: handler.NewSemesterHandler(nil),
		Metrics:  handler.NewMetricsHandler(nil, nil),
	}
	return Setup(cfg, h, studentTokens{}, nil, zap.NewNop())
}

func TestMutatingRoutesRequireAdmin(t *testing.T) {
	r := newTestEngine()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/course-instances/ci-1/meetings"},
		{http.MethodPost, "/api/v1/non-class-events/nce-1/meetings"},
		{http.MethodPut, "/api/v1/meetings/m1"},
		{http.MethodDelete, "/api/v1/meetings/m1"},
		{http.MethodPost, "/api/v1/meetings/conflicts"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.path)

		req := httptest.NewRequest(rt.method, rt.path, nil)
		req.Header.Set("Authorization", "Bearer student")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, rt.path)
	}
}

func TestHealthAndDocsRoutes(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
