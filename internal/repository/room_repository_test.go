package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

var roomColumnList = []string{"id", "name", "capacity", "building_id", "building_name", "campus_id", "campus_name", "created_at", "updated_at"}

func TestRoomRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.campus_id = $1 AND (r.name ILIKE $2 OR b.name ILIKE $2) ORDER BY c.name ASC, b.name ASC, r.name ASC LIMIT 10 OFFSET 10")).
		WithArgs("camp-1", "%G1%").
		WillReturnRows(sqlmock.NewRows(roomColumnList).
			AddRow("r1", "G115", 60, "b1", "Maxwell Dworkin", "camp-1", "Allston", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms r JOIN buildings b ON b.id = r.building_id WHERE b.campus_id = $1")).
		WithArgs("camp-1", "%G1%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{CampusID: "camp-1", Search: "G1", Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 11, total)
	assert.Equal(t, "Maxwell Dworkin G115", rooms[0].DisplayName())
	require.NotNil(t, rooms[0].Capacity)
	assert.Equal(t, 60, *rooms[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListDefaultsPaging(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT 50 OFFSET 0")).WillReturnRows(sqlmock.NewRows(roomColumnList))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{})
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
