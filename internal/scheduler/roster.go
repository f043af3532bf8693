// Package scheduler builds and solves the CP-SAT tutoring-shift model for one
// campaign: it derives the eligible (teacher, student, subject, timeslot)
// decision keys, posts the hard constraints and weighted objective, invokes
// the solver, and projects the solution back to shifts and shortages.
package scheduler

import "github.com/noah-isme/sma-adp-api/internal/models"

// Roster is the immutable, read-only slice of the institution's data that is
// relevant to one campaign solve. It is built once by the service layer from
// the repositories and handed to Solve; nothing in this package mutates it.
type Roster struct {
	CampaignID string

	Subjects map[string]models.Subject
	Teachers map[string]models.TeacherRoster
	Students map[string]models.StudentRoster
	TimeSlots map[string]models.TimeSlot

	// RegularClassAt maps a (teacher_id, timeslot_id) pair occupied by a
	// recurring class; its presence blocks eligibility at that pair.
	RegularClassAt map[TeacherTimeSlot]models.RegularClass
	// RegularEnrollment maps a regular class id to its enrolled students,
	// consumed by S4 (recurring-class continuity bonus).
	RegularEnrollment map[string][]string
}

// TeacherTimeSlot is a (teacher_id, timeslot_id) pair, used both to look up
// recurring-class blocks and to key per-teacher-per-slot aggregates (H3,
// S1, S2).
type TeacherTimeSlot struct {
	TeacherID  string
	TimeSlotID string
}

// NewRoster builds an empty roster ready to be populated by the repository
// loader for one campaign.
func NewRoster(campaignID string) *Roster {
	return &Roster{
		CampaignID:        campaignID,
		Subjects:          make(map[string]models.Subject),
		Teachers:          make(map[string]models.TeacherRoster),
		Students:          make(map[string]models.StudentRoster),
		TimeSlots:         make(map[string]models.TimeSlot),
		RegularClassAt:    make(map[TeacherTimeSlot]models.RegularClass),
		RegularEnrollment: make(map[string][]string),
	}
}

// HasRegularClassAt reports whether a recurring class occupies the given
// (teacher, timeslot) pair, per invariant 4.
func (r *Roster) HasRegularClassAt(teacherID, timeSlotID string) bool {
	_, ok := r.RegularClassAt[TeacherTimeSlot{TeacherID: teacherID, TimeSlotID: timeSlotID}]
	return ok
}

// RegularlyTaughtBy reports whether the given (student, teacher, subject)
// triple already appears in some recurring class enrollment, for S4.
func (r *Roster) RegularlyTaughtBy(studentID, teacherID, subjectID string) bool {
	for key, rc := range r.RegularClassAt {
		if key.TeacherID != teacherID || rc.SubjectID != subjectID {
			continue
		}
		for _, sid := range r.RegularEnrollment[rc.ID] {
			if sid == studentID {
				return true
			}
		}
	}
	return false
}
