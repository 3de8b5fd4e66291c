package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Doctor represents an instructor record. Availability windows and explicit
// unavailable ranges are stored as JSON columns and decoded at the service
// boundary before the engine sees them.
type Doctor struct {
	ID              string         `db:"id" json:"id"`
	FullName        string         `db:"full_name" json:"full_name"`
	WeeklyHours     int            `db:"weekly_hours" json:"weekly_hours"`
	AssignedMinutes int            `db:"assigned_minutes" json:"assigned_minutes"`
	Windows         types.JSONText `db:"windows" json:"windows"`
	Unavailable     types.JSONText `db:"unavailable" json:"unavailable"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// DayWindow is the available interval of a doctor on one day. Days the
// doctor has no window for are not teachable.
type DayWindow struct {
	Day          string `json:"day"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
}

// BlockedRange is an explicit unavailable interval on one day. The same
// shape is used for lab rooms' forbidden ranges.
type BlockedRange struct {
	Day          string `json:"day"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
}
