package scheduler

import (
	"fmt"
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// Result is the projected outcome of one solve: the assigned shifts and the
// strictly-positive shortage entries, both deterministically ordered.
type Result struct {
	Shifts     []models.Shift
	Shortage   map[string]map[string]int // student_id -> subject_id -> amount
	Diagnostic string
}

// Project groups {(t,s,subj,ts) : x=1} by (t,subj,ts) into shift records and
// reads the shortage slack variables into a map, per spec §4.5. When sol is
// not Feasible, it returns an empty-but-well-formed Result carrying the
// solver's diagnostic, matching the "always a well-formed pair" contract of
// §7.
func Project(roster *Roster, elig *Eligibility, vars *Vars, sol *Solution) *Result {
	result := &Result{Shortage: make(map[string]map[string]int)}

	if !sol.Feasible() {
		result.Diagnostic = sol.Diagnostic
		return result
	}

	type group struct {
		TeacherID  string
		SubjectID  string
		TimeSlotID string
	}
	studentsByGroup := make(map[group][]string)

	for _, key := range elig.Keys {
		if !cpmodel.SolutionBooleanValue(sol.Response, vars.X[key]) {
			continue
		}
		g := group{TeacherID: key.TeacherID, SubjectID: key.SubjectID, TimeSlotID: key.TimeSlotID}
		studentsByGroup[g] = append(studentsByGroup[g], key.StudentID)
	}

	groups := make([]group, 0, len(studentsByGroup))
	for g := range studentsByGroup {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		tsA, tsB := roster.TimeSlots[a.TimeSlotID], roster.TimeSlots[b.TimeSlotID]
		if !tsA.Date.Equal(tsB.Date) {
			return tsA.Date.Before(tsB.Date)
		}
		if tsA.PeriodIndex != tsB.PeriodIndex {
			return tsA.PeriodIndex < tsB.PeriodIndex
		}
		if a.TeacherID != b.TeacherID {
			return a.TeacherID < b.TeacherID
		}
		return a.SubjectID < b.SubjectID
	})

	for i, g := range groups {
		students := studentsByGroup[g]
		sort.Strings(students)
		result.Shifts = append(result.Shifts, models.Shift{
			ID:         fmt.Sprintf("shift_%d", i+1),
			CampaignID: roster.CampaignID,
			TeacherID:  g.TeacherID,
			SubjectID:  g.SubjectID,
			TimeSlotID: g.TimeSlotID,
			StudentIDs: students,
		})
	}

	for ss, shortageVar := range vars.Shortage {
		amount := int(cpmodel.SolutionIntegerValue(sol.Response, shortageVar))
		if amount <= 0 {
			continue
		}
		if result.Shortage[ss.StudentID] == nil {
			result.Shortage[ss.StudentID] = make(map[string]int)
		}
		result.Shortage[ss.StudentID][ss.SubjectID] = amount
	}

	return result
}
