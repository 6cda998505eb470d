package models

import "time"

// ScheduleBlock represents a committed lesson occupying a room, trainer
// and time slot on a given date. Times are wall-clock "HH:MM" strings;
// the pair [StartTime, EndTime) is half-open.
type ScheduleBlock struct {
	ID        string    `db:"id" json:"id"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	ModuleID  string    `db:"module_id" json:"module_id"`
	RoomID    string    `db:"room_id" json:"room_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedule blocks.
type ScheduleFilter struct {
	TrainerID string
	ClassID   string
	ModuleID  string
	RoomID    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ScheduleConflict describes an existing block that causes a conflict.
// Dimension names the colliding resource: trainer, room or class.
type ScheduleConflict struct {
	BlockID   string `json:"block_id"`
	TrainerID string `json:"trainer_id"`
	ClassID   string `json:"class_id"`
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Dimension string `json:"dimension"`
}

// ScheduleConflictError is returned when a block collides with an existing one.
type ScheduleConflictError struct {
	Message  string           `json:"message"`
	Conflict ScheduleConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
