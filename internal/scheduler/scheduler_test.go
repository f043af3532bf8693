package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func day(offset int) time.Time {
	return time.Date(2026, 7, 6+offset, 0, 0, 0, 0, time.UTC)
}

func teacher(id string, minClasses int, subjects, slots []string) models.TeacherRoster {
	return models.TeacherRoster{
		Teacher:              models.Teacher{ID: id, FullName: id, MinClasses: minClasses},
		TeachableSubjectIDs:  subjects,
		AvailableTimeslotIDs: slots,
	}
}

func student(id, grade string, requirements map[string]int, slots []string) models.StudentRoster {
	return models.StudentRoster{
		Student:              models.Student{ID: id, FullName: id, Grade: grade},
		Requirements:         requirements,
		AvailableTimeslotIDs: slots,
	}
}

func TestSolveE1TrivialMatch(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.Teachers["t1"] = teacher("t1", 1, []string{"m"}, []string{"ts1"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1"})

	outcome, err := Solve(context.Background(), r, Weights{}, Options{})
	require.NoError(t, err)
	require.Len(t, outcome.Shifts, 1)
	assert.Equal(t, "t1", outcome.Shifts[0].TeacherID)
	assert.Equal(t, "m", outcome.Shifts[0].SubjectID)
	assert.Equal(t, "ts1", outcome.Shifts[0].TimeSlotID)
	assert.Equal(t, []string{"s1"}, outcome.Shifts[0].StudentIDs)
	assert.Empty(t, outcome.Shortage)
}

func TestSolveE2InfeasibleByAvailabilityYieldsShortage(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.Teachers["t1"] = teacher("t1", 1, []string{"m"}, []string{"ts1"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, nil)

	outcome, err := Solve(context.Background(), r, Weights{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcome.Shifts)
	require.Contains(t, outcome.Shortage, "s1")
	assert.Equal(t, 1, outcome.Shortage["s1"]["m"])
}

func TestSolveE3MinClassesGateWithShortagePenalty(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.TimeSlots["ts2"] = slot("ts2", day(0), 2)
	r.Teachers["t1"] = teacher("t1", 2, []string{"m"}, []string{"ts1", "ts2"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1", "ts2"})

	outcome, err := Solve(context.Background(), r, Weights{models.WeightShortagePenalty: 1000}, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcome.Shifts, "min_classes=2 is unreachable with one unit of demand, so T1 must stay idle")
	require.Contains(t, outcome.Shortage, "s1")
	assert.Equal(t, 1, outcome.Shortage["s1"]["m"])
}

func TestSolveE4PairPreference(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.Teachers["t1"] = teacher("t1", 0, []string{"m"}, []string{"ts1"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1"})
	r.Students["s2"] = student("s2", "10", map[string]int{"m": 1}, []string{"ts1"})

	weights := Weights{
		models.WeightMaxTwoStudentsBonus: 10,
		models.WeightSameGradeBonus:      10,
	}
	outcome, err := Solve(context.Background(), r, weights, Options{})
	require.NoError(t, err)
	require.Len(t, outcome.Shifts, 1)
	assert.ElementsMatch(t, []string{"s1", "s2"}, outcome.Shifts[0].StudentIDs)
}

func TestSolveE5GapAvoidancePrefersContiguousSlots(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts2"] = slot("ts2", day(0), 2)
	r.TimeSlots["ts3"] = slot("ts3", day(0), 3)
	r.TimeSlots["ts4"] = slot("ts4", day(0), 4)
	r.Teachers["t1"] = teacher("t1", 0, []string{"m"}, []string{"ts2", "ts3", "ts4"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts2"})
	r.Students["s2"] = student("s2", "10", map[string]int{"m": 1}, []string{"ts3", "ts4"})

	weights := Weights{
		models.WeightTeacherGapPenalty: 10,
		models.WeightShortagePenalty:   100,
	}
	outcome, err := Solve(context.Background(), r, weights, Options{})
	require.NoError(t, err)

	used := make(map[string]bool)
	for _, sh := range outcome.Shifts {
		used[sh.TimeSlotID] = true
	}
	assert.True(t, used["ts2"] && used["ts3"], "gap penalty should steer the teacher to the contiguous (2,3) pairing")
	assert.False(t, used["ts4"])
}

func TestSolveE6RecurringClassBlocksVariable(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.Teachers["t1"] = teacher("t1", 0, []string{"m"}, []string{"ts1"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1"})
	r.RegularClassAt[TeacherTimeSlot{TeacherID: "t1", TimeSlotID: "ts1"}] = models.RegularClass{
		ID: "rc1", TeacherID: "t1", SubjectID: "m", TimeSlotID: "ts1",
	}

	outcome, err := Solve(context.Background(), r, Weights{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, outcome.Shifts, "the only (teacher, timeslot) pair is occupied by a recurring class")
	require.Contains(t, outcome.Shortage, "s1")
	assert.Equal(t, 1, outcome.Shortage["s1"]["m"])
}

func TestSolveWeightMonotonicityOnShortagePenalty(t *testing.T) {
	buildRoster := func() *Roster {
		r := NewRoster("camp-1")
		r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
		r.Teachers["t1"] = teacher("t1", 3, []string{"m"}, []string{"ts1"})
		r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1"})
		return r
	}

	low, err := Solve(context.Background(), buildRoster(), Weights{models.WeightShortagePenalty: 1}, Options{})
	require.NoError(t, err)
	high, err := Solve(context.Background(), buildRoster(), Weights{models.WeightShortagePenalty: 1000}, Options{})
	require.NoError(t, err)

	totalShortage := func(o *Outcome) int {
		total := 0
		for _, bySubject := range o.Shortage {
			for _, amount := range bySubject {
				total += amount
			}
		}
		return total
	}
	assert.GreaterOrEqual(t, totalShortage(low), totalShortage(high), "raising shortagePenalty must not increase total shortage at the optimum")
}

func TestSolveOutputIsDeterministicAcrossRuns(t *testing.T) {
	buildRoster := func() *Roster {
		r := NewRoster("camp-1")
		r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
		r.TimeSlots["ts2"] = slot("ts2", day(0), 2)
		r.Teachers["t1"] = teacher("t1", 0, []string{"m"}, []string{"ts1", "ts2"})
		r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1", "ts2"})
		r.Students["s2"] = student("s2", "10", map[string]int{"m": 1}, []string{"ts1", "ts2"})
		return r
	}

	first, err := Solve(context.Background(), buildRoster(), Weights{}, Options{})
	require.NoError(t, err)
	second, err := Solve(context.Background(), buildRoster(), Weights{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Shifts, second.Shifts)
}

func TestSolveRespectsDeadlineOption(t *testing.T) {
	r := NewRoster("camp-1")
	r.TimeSlots["ts1"] = slot("ts1", day(0), 1)
	r.Teachers["t1"] = teacher("t1", 0, []string{"m"}, []string{"ts1"})
	r.Students["s1"] = student("s1", "10", map[string]int{"m": 1}, []string{"ts1"})

	outcome, err := Solve(context.Background(), r, Weights{}, Options{Driver: DriverOptions{Deadline: 5 * time.Second, Workers: 4}})
	require.NoError(t, err)
	assert.Len(t, outcome.Shifts, 1)
}
