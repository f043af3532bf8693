package models

import "time"

// RegularClass is a pre-existing recurring lesson that occupies a
// (teacher, timeslot) pair and is outside the optimization: the eligibility
// builder omits any decision variable at that pair for that teacher.
type RegularClass struct {
	ID                 string    `db:"id" json:"id"`
	TeacherID          string    `db:"teacher_id" json:"teacher_id"`
	SubjectID          string    `db:"subject_id" json:"subject_id"`
	TimeSlotID         string    `db:"timeslot_id" json:"timeslot_id"`
	EnrolledStudentIDs []string  `db:"-" json:"enrolled_student_ids"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// RegularClassEnrollment is a single (regular_class, student) row as stored,
// since a regular class enrolls a list of students.
type RegularClassEnrollment struct {
	RegularClassID string `db:"regular_class_id" json:"regular_class_id"`
	StudentID      string `db:"student_id" json:"student_id"`
}
