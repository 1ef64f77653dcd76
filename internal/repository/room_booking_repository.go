package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

const roomBookingColumns = `meeting_id, room_id, room_name, academic_year, term, day, start_time, end_time, meeting_title`

// RoomBookingRepository reads the room booking index from the room_booking_info view.
type RoomBookingRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewRoomBookingRepository creates a booking index repository. observer may be nil.
func NewRoomBookingRepository(db *sqlx.DB, observer QueryObserver) *RoomBookingRepository {
	return &RoomBookingRepository{db: db, observer: observer}
}

// LoadBookings returns every meeting booked in the room for the semester,
// ordered by day and start time.
func (r *RoomBookingRepository) LoadBookings(ctx context.Context, roomID string, year int, term models.Term) ([]models.Booking, error) {
	defer observe(r.observer, "room_bookings", time.Now())

	query := `SELECT ` + roomBookingColumns + ` FROM room_booking_info WHERE room_id = $1 AND academic_year = $2 AND term = $3 ORDER BY CASE day WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3 WHEN 'THURSDAY' THEN 4 ELSE 5 END, start_time ASC`
	bookings := make([]models.Booking, 0)
	if err := r.db.SelectContext(ctx, &bookings, query, roomID, year, term); err != nil {
		return nil, fmt.Errorf("load room bookings: %w", err)
	}
	return bookings, nil
}
