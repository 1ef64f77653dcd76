package models

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/pkg/timeofday"
)

func TestOwnerFromColumns(t *testing.T) {
	ci := sql.NullString{String: "ci-1", Valid: true}
	nce := sql.NullString{String: "ev-1", Valid: true}

	owner, err := OwnerFromColumns(ci, sql.NullString{})
	require.NoError(t, err)
	assert.Equal(t, CourseInstanceOwner{ID: "ci-1"}, owner)

	owner, err = OwnerFromColumns(sql.NullString{}, nce)
	require.NoError(t, err)
	assert.Equal(t, OwnerNonClassEvent, owner.Kind())
	assert.Equal(t, "ev-1", owner.OwnerID())

	_, err = OwnerFromColumns(ci, nce)
	assert.ErrorIs(t, err, ErrInvalidOwner)

	_, err = OwnerFromColumns(sql.NullString{}, sql.NullString{})
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestOwnerColumnsRoundTrip(t *testing.T) {
	for _, owner := range []MeetingOwner{CourseInstanceOwner{ID: "a"}, NonClassEventOwner{ID: "b"}} {
		got, err := OwnerFromColumns(OwnerColumns(owner))
		require.NoError(t, err)
		assert.Equal(t, owner, got)
	}
}

func TestMeetingMarshalJSONFlattensOwner(t *testing.T) {
	room := "room-1"
	m := Meeting{
		ID:        "m-1",
		Day:       Monday,
		StartTime: timeofday.MustParse("10:30"),
		EndTime:   timeofday.MustParse("11:45"),
		RoomID:    &room,
		Owner:     NonClassEventOwner{ID: "ev-9"},
	}
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "NON_CLASS_EVENT", decoded["owner_type"])
	assert.Equal(t, "ev-9", decoded["owner_id"])
	assert.Equal(t, "10:30:00", decoded["start_time"])
	assert.Equal(t, "room-1", decoded["room_id"])
}

func TestParseDay(t *testing.T) {
	for raw, want := range map[string]Day{"monday": Monday, "FRI": Friday, " Wed ": Wednesday, "THURSDAY": Thursday} {
		got, err := ParseDay(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	for _, raw := range []string{"", "SATURDAY", "sun", "MO"} {
		_, err := ParseDay(raw)
		assert.Error(t, err, raw)
	}
	assert.Equal(t, "Monday", Monday.DisplayName())
	assert.Equal(t, 5, Friday.Index())
	assert.Equal(t, 0, Day("SUNDAY").Index())
}

func TestParseTerm(t *testing.T) {
	term, err := ParseTerm("spring")
	require.NoError(t, err)
	assert.Equal(t, TermSpring, term)
	assert.Equal(t, "Fall", TermFall.DisplayName())

	_, err = ParseTerm("summer")
	assert.Error(t, err)
}
