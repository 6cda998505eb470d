package models

import "time"

// Evaluation stores a trainee's score for one module, keyed by the
// trainee's enrollment. Scores use the 0-20 scale.
type Evaluation struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	ModuleID     string    `db:"module_id" json:"module_id"`
	Score        float64   `db:"score" json:"score"`
	EvaluatedAt  time.Time `db:"evaluated_at" json:"evaluated_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// EvaluationFilter scopes evaluation listings.
type EvaluationFilter struct {
	EnrollmentID string
	ModuleID     string
	ClassID      string
	TraineeID    string
}
