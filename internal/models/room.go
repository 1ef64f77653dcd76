package models

import "time"

// Room is a bookable space inside a building on a campus.
type Room struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Capacity     *int      `db:"capacity" json:"capacity,omitempty"`
	BuildingID   string    `db:"building_id" json:"building_id"`
	BuildingName string    `db:"building_name" json:"building_name"`
	CampusID     string    `db:"campus_id" json:"campus_id"`
	CampusName   string    `db:"campus_name" json:"campus_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName joins building and room, e.g. "Maxwell Dworkin G115".
func (r Room) DisplayName() string {
	if r.BuildingName == "" {
		return r.Name
	}
	return r.BuildingName + " " + r.Name
}

// RoomFilter describes query params for listing rooms.
type RoomFilter struct {
	CampusID   string
	BuildingID string
	Search     string
	Page       int
	PageSize   int
}
