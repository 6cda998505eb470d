package models

import "time"

// Class is a cohort following a course over a date range.
type Class struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter captures filtering options for listing classes.
type ClassFilter struct {
	Search    string
	CourseID  string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Enrollment links a trainee to a class.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	ClassID    string    `db:"class_id" json:"class_id"`
	TraineeID  string    `db:"trainee_id" json:"trainee_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail joins enrollment rows with trainee identity for listings.
type EnrollmentDetail struct {
	Enrollment
	TraineeName  string `db:"trainee_name" json:"trainee_name"`
	TraineeEmail string `db:"trainee_email" json:"trainee_email"`
}
