package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Room types recognised by the scheduler.
const (
	RoomTypeClassroom = "classroom"
	RoomTypeLab       = "lab"
	RoomTypeTraining  = "training"
)

// Room represents a teaching room. Blocked holds a JSON array of
// BlockedRange entries and only applies to lab rooms.
type Room struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Type      string         `db:"type" json:"type"`
	Blocked   types.JSONText `db:"blocked" json:"blocked"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
