package models

import "time"

// Teacher represents an instructor eligible to be assigned tutoring shifts.
type Teacher struct {
	ID                string    `db:"id" json:"id"`
	NIP               *string   `db:"nip" json:"nip,omitempty"`
	Email             string    `db:"email" json:"email"`
	FullName          string    `db:"full_name" json:"full_name"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	MinClasses        int       `db:"min_classes" json:"min_classes"`
	DesiredShiftCount int       `db:"desired_shift_count" json:"desired_shift_count"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TeacherRoster is a teacher enriched with the sets the eligibility builder
// needs: teachable subjects and available timeslots, both resolved for one
// campaign.
type TeacherRoster struct {
	Teacher
	TeachableSubjectIDs  []string `json:"teachable_subject_ids"`
	AvailableTimeslotIDs []string `json:"available_timeslot_ids"`
}
