package scheduler

import "sort"

// Key is a decision-key (t, s, subj, ts) in X, per spec §4.1. Every Key that
// survives BuildEligibility becomes exactly one Boolean decision variable.
type Key struct {
	TeacherID  string
	StudentID  string
	SubjectID  string
	TimeSlotID string
}

// Eligibility is the decision-key set X plus the indices the model builder
// and objective need to enumerate it without ever touching the full
// Cartesian product (the "sparsity as correctness" note in §9).
type Eligibility struct {
	Keys []Key

	// byTeacherSlot groups keys by (teacher, timeslot) — used by H3, S1, S2.
	byTeacherSlot map[TeacherTimeSlot][]Key
	// byStudentSlot groups keys by (student, timeslot) — used by H2.
	byStudentSlot map[studentSlot][]Key
	// byTeacherSubjectSlot groups keys by (teacher, subject, timeslot) —
	// used by S3 (same-grade pairing is restricted to one subject at once).
	byTeacherSubjectSlot map[teacherSubjectSlot][]Key
	// byTeacher groups keys by teacher — used by H4.
	byTeacher map[string][]Key
	// byStudentSubject groups keys by (student, subject) — used by H1.
	byStudentSubject map[studentSubject][]Key
}

type studentSlot struct {
	StudentID  string
	TimeSlotID string
}

type teacherSubjectSlot struct {
	TeacherID  string
	SubjectID  string
	TimeSlotID string
}

type studentSubject struct {
	StudentID string
	SubjectID string
}

// BuildEligibility computes X by intersecting, for every (teacher, student,
// subject, timeslot) combination, the five conditions of spec §4.1. It is the
// only pruning step before variable creation.
func BuildEligibility(roster *Roster) *Eligibility {
	e := &Eligibility{
		byTeacherSlot:        make(map[TeacherTimeSlot][]Key),
		byStudentSlot:        make(map[studentSlot][]Key),
		byTeacherSubjectSlot: make(map[teacherSubjectSlot][]Key),
		byTeacher:            make(map[string][]Key),
		byStudentSubject:     make(map[studentSubject][]Key),
	}

	for _, teacher := range roster.Teachers {
		teacherSubjects := toSet(teacher.TeachableSubjectIDs)
		teacherSlots := toSet(teacher.AvailableTimeslotIDs)

		for _, student := range roster.Students {
			studentSlots := toSet(student.AvailableTimeslotIDs)

			for subjectID, required := range student.Requirements {
				if required < 1 {
					continue
				}
				if !teacherSubjects[subjectID] {
					continue
				}

				for timeSlotID := range teacherSlots {
					if !studentSlots[timeSlotID] {
						continue
					}
					if roster.TimeSlots[timeSlotID].CampaignID != roster.CampaignID {
						continue
					}
					if roster.HasRegularClassAt(teacher.ID, timeSlotID) {
						continue
					}

					key := Key{
						TeacherID:  teacher.ID,
						StudentID:  student.ID,
						SubjectID:  subjectID,
						TimeSlotID: timeSlotID,
					}
					e.add(key)
				}
			}
		}
	}

	sort.Slice(e.Keys, func(i, j int) bool {
		a, b := e.Keys[i], e.Keys[j]
		if a.TeacherID != b.TeacherID {
			return a.TeacherID < b.TeacherID
		}
		if a.TimeSlotID != b.TimeSlotID {
			return a.TimeSlotID < b.TimeSlotID
		}
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		return a.StudentID < b.StudentID
	})

	return e
}

// FromKeys rebuilds an Eligibility's indices from an already-computed,
// already-sorted key set, letting a caller memoize BuildEligibility's output
// for a roster that has not changed since it was last computed.
func FromKeys(keys []Key) *Eligibility {
	e := &Eligibility{
		byTeacherSlot:        make(map[TeacherTimeSlot][]Key),
		byStudentSlot:        make(map[studentSlot][]Key),
		byTeacherSubjectSlot: make(map[teacherSubjectSlot][]Key),
		byTeacher:            make(map[string][]Key),
		byStudentSubject:     make(map[studentSubject][]Key),
	}
	for _, key := range keys {
		e.add(key)
	}
	return e
}

func (e *Eligibility) add(key Key) {
	e.Keys = append(e.Keys, key)

	ts := TeacherTimeSlot{TeacherID: key.TeacherID, TimeSlotID: key.TimeSlotID}
	e.byTeacherSlot[ts] = append(e.byTeacherSlot[ts], key)

	ss := studentSlot{StudentID: key.StudentID, TimeSlotID: key.TimeSlotID}
	e.byStudentSlot[ss] = append(e.byStudentSlot[ss], key)

	tss := teacherSubjectSlot{TeacherID: key.TeacherID, SubjectID: key.SubjectID, TimeSlotID: key.TimeSlotID}
	e.byTeacherSubjectSlot[tss] = append(e.byTeacherSubjectSlot[tss], key)

	e.byTeacher[key.TeacherID] = append(e.byTeacher[key.TeacherID], key)

	stsub := studentSubject{StudentID: key.StudentID, SubjectID: key.SubjectID}
	e.byStudentSubject[stsub] = append(e.byStudentSubject[stsub], key)
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
