package models

import "time"

// Semester is identified by academic year and term.
type Semester struct {
	ID        string    `db:"id" json:"id"`
	Year      int       `db:"academic_year" json:"year"`
	Term      Term      `db:"term" json:"term"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
