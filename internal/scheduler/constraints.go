package scheduler

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// Vars holds every decision and auxiliary variable the model allocates,
// keyed the way the objective needs to find them again. It is the single
// piece of mutable state threaded between constraints.go, objective.go, and
// project.go for the duration of one solve.
type Vars struct {
	X map[Key]cpmodel.BoolVar

	// Shortage[s,subj] is H1's slack variable.
	Shortage map[studentSubject]cpmodel.IntVar

	// Present[t] and Total[t] back H4.
	Present map[string]cpmodel.BoolVar
	Total   map[string]*cpmodel.LinearExpr

	// Count[t,ts] is the per-(teacher,timeslot) headcount used by S1/S2.
	Count map[TeacherTimeSlot]*cpmodel.LinearExpr
}

// PostHardConstraints allocates the decision variables for every key in X
// and posts H1-H4. It returns the Vars the objective needs to build S1-S7.
func PostHardConstraints(b *Builder, roster *Roster, elig *Eligibility) *Vars {
	vars := &Vars{
		X:        make(map[Key]cpmodel.BoolVar, len(elig.Keys)),
		Shortage: make(map[studentSubject]cpmodel.IntVar),
		Present:  make(map[string]cpmodel.BoolVar),
		Total:    make(map[string]*cpmodel.LinearExpr),
		Count:    make(map[TeacherTimeSlot]*cpmodel.LinearExpr),
	}

	for _, key := range elig.Keys {
		name := fmt.Sprintf("x_%s_%s_%s_%s", key.TeacherID, key.StudentID, key.SubjectID, key.TimeSlotID)
		vars.X[key] = b.BoolVar(name)
	}

	postH1(b, roster, elig, vars)
	postH2(b, elig, vars)
	postH3(b, elig, vars)
	postH4(b, roster, elig, vars)

	return vars
}

// postH1 posts the demand-with-shortage equality for every (student,
// subject) with required_count > 0.
func postH1(b *Builder, roster *Roster, elig *Eligibility, vars *Vars) {
	for _, student := range roster.Students {
		for subjectID, required := range student.Requirements {
			if required < 1 {
				continue
			}
			key := studentSubject{StudentID: student.ID, SubjectID: subjectID}
			keys := elig.byStudentSubject[key]

			boolVars := make([]cpmodel.BoolVar, 0, len(keys))
			for _, k := range keys {
				boolVars = append(boolVars, vars.X[k])
			}

			shortage := b.IntVar(fmt.Sprintf("shortage_%s_%s", student.ID, subjectID), 0, int64(required))
			vars.Shortage[key] = shortage

			expr := Sum(boolVars...)
			expr.AddTerm(shortage, 1)
			b.PostEquality(expr, int64(required))
		}
	}
}

// postH2 posts the at-most-one-lesson-per-timeslot constraint for every
// (student, timeslot) pair that has at least one eligible key.
func postH2(b *Builder, elig *Eligibility, vars *Vars) {
	for _, keys := range elig.byStudentSlot {
		boolVars := make([]cpmodel.BoolVar, 0, len(keys))
		for _, k := range keys {
			boolVars = append(boolVars, vars.X[k])
		}
		b.PostLessOrEqual(Sum(boolVars...), 1)
	}
}

// postH3 posts the at-most-two-students-per-teacher-per-timeslot constraint
// and records Count[t,ts] for the objective's S1/S2 terms.
func postH3(b *Builder, elig *Eligibility, vars *Vars) {
	for ts, keys := range elig.byTeacherSlot {
		boolVars := make([]cpmodel.BoolVar, 0, len(keys))
		for _, k := range keys {
			boolVars = append(boolVars, vars.X[k])
		}
		count := Sum(boolVars...)
		vars.Count[ts] = count
		b.PostLessOrEqual(count, 2)
	}
}

// postH4 posts the teacher presence/minimum-load reification for every
// teacher who has at least one eligible key.
func postH4(b *Builder, roster *Roster, elig *Eligibility, vars *Vars) {
	for teacherID, keys := range elig.byTeacher {
		boolVars := make([]cpmodel.BoolVar, 0, len(keys))
		for _, k := range keys {
			boolVars = append(boolVars, vars.X[k])
		}
		total := Sum(boolVars...)
		vars.Total[teacherID] = total

		present := b.ReifyAtLeast(fmt.Sprintf("present_%s", teacherID), total, 1)
		vars.Present[teacherID] = present

		minClasses := int64(roster.Teachers[teacherID].MinClasses)
		if minClasses > 0 {
			b.PostAtLeast(total, minClasses, present)
		}
	}
}
