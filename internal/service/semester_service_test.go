package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

func TestSemesterServiceList(t *testing.T) {
	repo := &fakeSemesterRepo{semesters: []models.Semester{{ID: "s1", Year: 2024, Term: models.TermFall}}}
	list, err := NewSemesterService(repo, nil).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	repo.err = errors.New("boom")
	_, err = NewSemesterService(repo, nil).List(context.Background())
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
