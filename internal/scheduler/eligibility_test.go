package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func slot(id string, date time.Time, period int) models.TimeSlot {
	return models.TimeSlot{ID: id, CampaignID: "camp-1", Date: date, PeriodIndex: period}
}

func baseRoster() *Roster {
	r := NewRoster("camp-1")
	day1 := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

	r.TimeSlots["ts-1"] = slot("ts-1", day1, 1)
	r.TimeSlots["ts-2"] = slot("ts-2", day1, 2)

	r.Teachers["teacher-1"] = models.TeacherRoster{
		Teacher:              models.Teacher{ID: "teacher-1", FullName: "Teacher One", MinClasses: 0},
		TeachableSubjectIDs:  []string{"math"},
		AvailableTimeslotIDs: []string{"ts-1", "ts-2"},
	}

	r.Students["student-1"] = models.StudentRoster{
		Student:              models.Student{ID: "student-1", FullName: "Student One", Grade: "10"},
		Requirements:         map[string]int{"math": 1},
		AvailableTimeslotIDs: []string{"ts-1", "ts-2"},
	}
	r.Students["student-2"] = models.StudentRoster{
		Student:              models.Student{ID: "student-2", FullName: "Student Two", Grade: "10"},
		Requirements:         map[string]int{"math": 1},
		AvailableTimeslotIDs: []string{"ts-1", "ts-2"},
	}

	return r
}

func TestBuildEligibilityIntersectsAllFiveConditions(t *testing.T) {
	r := baseRoster()
	elig := BuildEligibility(r)

	assert.Len(t, elig.Keys, 4, "2 students x 2 timeslots, both eligible for the sole teacher/subject")
	for _, key := range elig.Keys {
		assert.Equal(t, "teacher-1", key.TeacherID)
		assert.Equal(t, "math", key.SubjectID)
	}
}

func TestBuildEligibilityExcludesUnteachableSubject(t *testing.T) {
	r := baseRoster()
	r.Students["student-1"] = models.StudentRoster{
		Student:              models.Student{ID: "student-1", Grade: "10"},
		Requirements:         map[string]int{"science": 1},
		AvailableTimeslotIDs: []string{"ts-1", "ts-2"},
	}
	elig := BuildEligibility(r)

	for _, key := range elig.Keys {
		assert.NotEqual(t, "student-1", key.StudentID, "teacher-1 does not teach science")
	}
}

func TestBuildEligibilityExcludesRegularClassSlot(t *testing.T) {
	r := baseRoster()
	r.RegularClassAt[TeacherTimeSlot{TeacherID: "teacher-1", TimeSlotID: "ts-1"}] = models.RegularClass{
		ID: "rc-1", TeacherID: "teacher-1", SubjectID: "math", TimeSlotID: "ts-1",
	}
	elig := BuildEligibility(r)

	for _, key := range elig.Keys {
		assert.NotEqual(t, "ts-1", key.TimeSlotID, "teacher-1's ts-1 is occupied by a recurring class")
	}
	assert.Len(t, elig.Keys, 2, "only ts-2 remains eligible for both students")
}

func TestBuildEligibilityExcludesZeroRequirement(t *testing.T) {
	r := baseRoster()
	roster1 := r.Students["student-1"]
	roster1.Requirements["math"] = 0
	r.Students["student-1"] = roster1

	elig := BuildEligibility(r)
	for _, key := range elig.Keys {
		assert.NotEqual(t, "student-1", key.StudentID)
	}
}

func TestBuildEligibilityDeterministicOrder(t *testing.T) {
	r := baseRoster()
	first := BuildEligibility(r)
	second := BuildEligibility(r)
	assert.Equal(t, first.Keys, second.Keys, "BuildEligibility must be deterministic across calls on the same roster")
}
