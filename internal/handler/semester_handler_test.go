package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

type semesterServiceMock struct {
	err error
}

func (m semesterServiceMock) List(ctx context.Context) ([]models.Semester, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []models.Semester{{ID: "s1", Year: 2024, Term: models.TermFall}}, nil
}

func TestSemesterHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/semesters", nil)

	NewSemesterHandler(semesterServiceMock{}).List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"term":"FALL"`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/semesters", nil)
	NewSemesterHandler(semesterServiceMock{err: errors.New("boom")}).List(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
