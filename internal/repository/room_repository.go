package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

const roomSelect = `SELECT r.id, r.name, r.capacity, r.building_id, b.name AS building_name, b.campus_id, c.name AS campus_name, r.created_at, r.updated_at FROM rooms r JOIN buildings b ON b.id = r.building_id JOIN campuses c ON c.id = b.campus_id`

// RoomRepository provides read access to rooms with their building and campus.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms with optional filtering and pagination.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	var conditions []string
	var args []interface{}

	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("b.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.BuildingID != "" {
		conditions = append(conditions, fmt.Sprintf("r.building_id = $%d", len(args)+1))
		args = append(args, filter.BuildingID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(r.name ILIKE $%d OR b.name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s%s ORDER BY c.name ASC, b.name ASC, r.name ASC LIMIT %d OFFSET %d", roomSelect, where, size, offset)
	rooms := make([]models.Room, 0)
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM rooms r JOIN buildings b ON b.id = r.building_id" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}

	return rooms, total, nil
}

// FindByID loads a room by id. A missing room yields sql.ErrNoRows.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.db.GetContext(ctx, &room, roomSelect+" WHERE r.id = $1", id); err != nil {
		return nil, err
	}
	return &room, nil
}
