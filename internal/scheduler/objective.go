package scheduler

import (
	"fmt"
	"sort"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// PostObjective builds the S1-S7 weighted sum and sets it as the model's
// maximization objective. Every non-trivial term is reified before being
// added, per the design notes' reification conventions; S3/S5/S6 enumerate
// only over keys that already exist in X, never the full Cartesian product.
func PostObjective(b *Builder, roster *Roster, elig *Eligibility, vars *Vars, weights Weights) {
	objective := cpmodel.NewLinearExpr()

	postPairAndSingletonBonus(b, elig, vars, weights, objective)
	postSameGradeBonus(b, roster, elig, vars, weights, objective)
	postContinuityBonus(roster, elig, vars, weights, objective)
	postTeacherGapPenalty(b, roster, elig, vars, weights, objective)
	postStudentGapPenalty(b, roster, elig, vars, weights, objective)
	postShortagePenalty(vars, weights, objective)

	b.Maximize(objective)
}

// postPairAndSingletonBonus posts S1 and S2 over every (teacher, timeslot)
// that has a headcount variable from H3.
func postPairAndSingletonBonus(b *Builder, elig *Eligibility, vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	pairWeight := weights.Get(models.WeightMaxTwoStudentsBonus)
	singleWeight := weights.Get(models.WeightSingleStudentPenalty)
	if pairWeight <= 0 && singleWeight <= 0 {
		return
	}

	for ts, count := range vars.Count {
		if pairWeight > 0 {
			isTwo := b.ReifyEquals(fmt.Sprintf("is_two_%s_%s", ts.TeacherID, ts.TimeSlotID), count, 2)
			objective.AddTerm(isTwo, int64(pairWeight))
		}
		if singleWeight > 0 {
			isOne := b.ReifyEquals(fmt.Sprintf("is_one_%s_%s", ts.TeacherID, ts.TimeSlotID), count, 1)
			objective.AddTerm(isOne, int64(-singleWeight))
		}
	}
}

// postSameGradeBonus posts S3: for each (teacher, subject, timeslot) group,
// every unordered pair of students sharing a grade whose both decision
// variables exist in X gets a reified pair bonus.
func postSameGradeBonus(b *Builder, roster *Roster, elig *Eligibility, vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	weight := weights.Get(models.WeightSameGradeBonus)
	if weight <= 0 {
		return
	}

	for group, keys := range elig.byTeacherSubjectSlot {
		if len(keys) < 2 {
			continue
		}
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				s1 := roster.Students[keys[i].StudentID]
				s2 := roster.Students[keys[j].StudentID]
				if s1.Grade != s2.Grade {
					continue
				}
				pairExpr := Sum(vars.X[keys[i]], vars.X[keys[j]])
				name := fmt.Sprintf("pair_%s_%s_%s_%s_%s", group.TeacherID, group.SubjectID, group.TimeSlotID, s1.ID, s2.ID)
				pairVar := b.ReifyEquals(name, pairExpr, 2)
				objective.AddTerm(pairVar, int64(weight))
			}
		}
	}
}

// postContinuityBonus posts S4: a plain linear term, no reification needed,
// for every eligible key whose (student, teacher, subject) triple already
// appears in a recurring-class enrollment.
func postContinuityBonus(roster *Roster, elig *Eligibility, vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	weight := weights.Get(models.WeightRegularClassContinuityBonus)
	if weight == 0 {
		return
	}
	for _, key := range elig.Keys {
		if roster.RegularlyTaughtBy(key.StudentID, key.TeacherID, key.SubjectID) {
			objective.AddTerm(vars.X[key], int64(weight))
		}
	}
}

// postTeacherGapPenalty posts S5, penalizing every working/not-working
// transition across consecutive available periods on the same date, for
// every teacher with at least one eligible key.
func postTeacherGapPenalty(b *Builder, roster *Roster, elig *Eligibility, vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	weight := weights.Get(models.WeightTeacherGapPenalty)
	if weight <= 0 {
		return
	}

	for teacherID, keys := range elig.byTeacher {
		teacher := roster.Teachers[teacherID]
		slots := sortedAvailableSlots(roster, teacher.AvailableTimeslotIDs)

		assigned := make(map[string]cpmodel.BoolVar)
		keysBySlot := make(map[string][]Key)
		for _, k := range keys {
			keysBySlot[k.TimeSlotID] = append(keysBySlot[k.TimeSlotID], k)
		}

		for _, slot := range slots {
			ks := keysBySlot[slot.ID]
			name := fmt.Sprintf("t_assigned_%s_%s", teacherID, slot.ID)
			if len(ks) == 0 {
				// Available but no eligible decision key: still occupies a
				// position in the gap chain, pinned to "not assigned".
				assigned[slot.ID] = b.FixedBool(name, false)
				continue
			}
			boolVars := make([]cpmodel.BoolVar, 0, len(ks))
			for _, k := range ks {
				boolVars = append(boolVars, vars.X[k])
			}
			assigned[slot.ID] = b.ReifyAtLeast(name, Sum(boolVars...), 1)
		}

		postGapTerms(b, slots, assigned, weight, fmt.Sprintf("teacher_%s", teacherID), objective)
	}
}

// postStudentGapPenalty posts S6, doubling the weight for students whose
// gap_preference is NoGapPreferred.
func postStudentGapPenalty(b *Builder, roster *Roster, elig *Eligibility, vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	weight := weights.Get(models.WeightStudentGapPenalty)
	if weight <= 0 {
		return
	}

	keysByStudent := make(map[string][]Key)
	for _, k := range elig.Keys {
		keysByStudent[k.StudentID] = append(keysByStudent[k.StudentID], k)
	}

	for studentID, keys := range keysByStudent {
		student := roster.Students[studentID]
		effectiveWeight := weight
		if student.GapPreference == models.NoGapPreferred {
			effectiveWeight = weight * 2
		}

		slots := sortedAvailableSlots(roster, student.AvailableTimeslotIDs)

		assigned := make(map[string]cpmodel.BoolVar)
		keysBySlot := make(map[string][]Key)
		for _, k := range keys {
			keysBySlot[k.TimeSlotID] = append(keysBySlot[k.TimeSlotID], k)
		}

		for _, slot := range slots {
			ks := keysBySlot[slot.ID]
			name := fmt.Sprintf("s_assigned_%s_%s", studentID, slot.ID)
			if len(ks) == 0 {
				// Available but no eligible decision key: still occupies a
				// position in the gap chain, pinned to "not assigned".
				assigned[slot.ID] = b.FixedBool(name, false)
				continue
			}
			boolVars := make([]cpmodel.BoolVar, 0, len(ks))
			for _, k := range ks {
				boolVars = append(boolVars, vars.X[k])
			}
			assigned[slot.ID] = b.ReifyAtLeast(name, Sum(boolVars...), 1)
		}

		postGapTerms(b, slots, assigned, effectiveWeight, fmt.Sprintf("student_%s", studentID), objective)
	}
}

// postGapTerms adds -weight * (assigned[A] XOR assigned[B]) for every
// consecutive pair of slots on the same date, reifying the XOR as
// "assigned[A] + assigned[B] == 1". assigned holds one literal per slot in
// slots (callers pin keyless-but-available slots to false via FixedBool), so
// both endpoints always resolve.
func postGapTerms(b *Builder, slots []models.TimeSlot, assigned map[string]cpmodel.BoolVar, weight int, ownerLabel string, objective *cpmodel.LinearExpr) {
	if weight <= 0 {
		return
	}
	for i := 0; i+1 < len(slots); i++ {
		a, bSlot := slots[i], slots[i+1]
		if !a.Date.Equal(bSlot.Date) {
			continue
		}
		name := fmt.Sprintf("gap_%s_%s_%s", ownerLabel, a.ID, bSlot.ID)
		mismatch := b.ReifyEquals(name, Sum(assigned[a.ID], assigned[bSlot.ID]), 1)
		objective.AddTerm(mismatch, int64(-weight))
	}
}

// postShortagePenalty posts S7: a plain linear term over every shortage
// slack variable H1 introduced.
func postShortagePenalty(vars *Vars, weights Weights, objective *cpmodel.LinearExpr) {
	weight := weights.Get(models.WeightShortagePenalty)
	if weight <= 0 {
		return
	}
	for _, shortage := range vars.Shortage {
		objective.AddTerm(shortage, int64(-weight))
	}
}

// sortedAvailableSlots returns the roster's timeslots restricted to ids,
// ordered by (date, period_index), which S5/S6 need to find "consecutive"
// periods on the same date.
func sortedAvailableSlots(roster *Roster, ids []string) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(ids))
	for _, id := range ids {
		if ts, ok := roster.TimeSlots[id]; ok {
			slots = append(slots, ts)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].PeriodIndex < slots[j].PeriodIndex
	})
	return slots
}
