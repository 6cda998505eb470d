package models

import "time"

// AvailabilityWindow is a trainer-declared open time range eligible for
// scheduling. Windows for the same trainer on the same date never
// overlap; the pair [StartTime, EndTime) is half-open.
type AvailabilityWindow struct {
	ID        string    `db:"id" json:"id"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AvailabilityFilter scopes window queries per trainer and date range.
type AvailabilityFilter struct {
	TrainerID string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// SegmentLabel tags a reconciled sub-interval.
type SegmentLabel string

const (
	SegmentAvailable SegmentLabel = "AVAILABLE"
	SegmentOccupied  SegmentLabel = "OCCUPIED"
)

// ReconciledSegment is a computed, non-persisted sub-interval of an
// availability window. Occupied segments carry the occupying block id.
type ReconciledSegment struct {
	Date      time.Time    `json:"date"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Label     SegmentLabel `json:"label"`
	BlockID   string       `json:"block_id,omitempty"`
}

// TeachingStatus is the per (class, module, trainer) progress state.
type TeachingStatus string

const (
	TeachingNotStarted TeachingStatus = "NOT_STARTED"
	TeachingInProgress TeachingStatus = "IN_PROGRESS"
	TeachingFinished   TeachingStatus = "FINISHED"
)

// ModuleProgress reports taught hours against a module's required total.
// It is computed fresh per request and never stored.
type ModuleProgress struct {
	ClassID     string         `json:"class_id"`
	ModuleID    string         `json:"module_id"`
	TrainerID   string         `json:"trainer_id"`
	TaughtHours float64        `json:"taught_hours"`
	TotalHours  float64        `json:"total_hours"`
	Status      TeachingStatus `json:"status"`
}
