package models

import "time"

// Trainee represents an enrolled student.
type Trainee struct {
	ID        string     `db:"id" json:"id"`
	UserID    *string    `db:"user_id" json:"user_id,omitempty"`
	Email     string     `db:"email" json:"email"`
	FullName  string     `db:"full_name" json:"full_name"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// TraineeFilter captures filtering options for listing trainees.
type TraineeFilter struct {
	Search    string
	Active    *bool
	ClassID   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
