package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type schedulerCampaignRepository interface {
	FindByID(ctx context.Context, id string) (*models.Campaign, error)
}

type schedulerTeacherRepository interface {
	ListActiveByCampaign(ctx context.Context, campaignID string) ([]models.Teacher, error)
}

type schedulerStudentRepository interface {
	ListActiveByCampaign(ctx context.Context, campaignID string) ([]models.Student, error)
}

type schedulerSubjectRepository interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type schedulerTimeSlotRepository interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]models.TimeSlot, error)
}

type schedulerRegularClassRepository interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]models.RegularClass, error)
}

type schedulerAvailabilityRepository interface {
	ListByCampaign(ctx context.Context, ownerType models.AvailabilityOwnerType, campaignID string) ([]models.Availability, error)
	ListTeachablesByCampaign(ctx context.Context, campaignID string) ([]models.Teachable, error)
}

type schedulerRequirementRepository interface {
	ListByCampaign(ctx context.Context, campaignID string) (map[string]map[string]int, error)
}

type schedulerWeightRepository interface {
	ListByCampaign(ctx context.Context, campaignID string) (map[string]int, error)
}

type schedulerSolveRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, solve *models.SolveRecord) error
	ListByCampaign(ctx context.Context, campaignID string) ([]models.SolveRecordSummary, error)
	FindByID(ctx context.Context, id string) (*models.SolveRecord, error)
	FindLatestByCampaign(ctx context.Context, campaignID string) (*models.SolveRecord, error)
}

type schedulerShiftRepository interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, shifts []models.Shift) error
	CreateShortages(ctx context.Context, exec sqlx.ExtContext, shortages []models.Shortage) error
	ListBySolve(ctx context.Context, solveID string) ([]models.Shift, error)
	ListShortagesBySolve(ctx context.Context, solveID string) ([]models.Shortage, error)
}

// campaignLocks is an in-process advisory lock keyed by campaign id: two
// solves for the same campaign never run concurrently, since both would
// read and write the same solve-version sequence and shift rows.
type campaignLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCampaignLocks() *campaignLocks {
	return &campaignLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *campaignLocks) forCampaign(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[id]
	if !ok {
		l = &sync.Mutex{}
		c.locks[id] = l
	}
	return l
}

// eligibilityCacheTTL bounds how long a memoized eligibility key set is
// trusted; roster edits are not tracked by version, so entries are keyed by
// a content fingerprint (see rosterFingerprint) and simply expire rather
// than being explicitly invalidated.
const eligibilityCacheTTL = 10 * time.Minute

type eligibilityCacheEntry struct {
	Keys []scheduler.Key `json:"keys"`
}

// SchedulerService orchestrates one campaign's solve: load the roster from
// the repositories, invoke the CP-SAT pipeline in internal/scheduler, and
// persist the resulting shifts and shortages as a new solve version.
type SchedulerService struct {
	db *sqlx.DB

	campaigns      schedulerCampaignRepository
	teachers       schedulerTeacherRepository
	students       schedulerStudentRepository
	subjects       schedulerSubjectRepository
	timeslots      schedulerTimeSlotRepository
	regularClasses schedulerRegularClassRepository
	availabilities schedulerAvailabilityRepository
	requirements   schedulerRequirementRepository
	weights        schedulerWeightRepository
	solves         schedulerSolveRepository
	shifts         schedulerShiftRepository

	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	locks *campaignLocks
}

// NewSchedulerService wires every repository the roster loader and solve
// persistence need.
func NewSchedulerService(
	db *sqlx.DB,
	campaigns schedulerCampaignRepository,
	teachers schedulerTeacherRepository,
	students schedulerStudentRepository,
	subjects schedulerSubjectRepository,
	timeslots schedulerTimeSlotRepository,
	regularClasses schedulerRegularClassRepository,
	availabilities schedulerAvailabilityRepository,
	requirements schedulerRequirementRepository,
	weights schedulerWeightRepository,
	solves schedulerSolveRepository,
	shifts schedulerShiftRepository,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
) *SchedulerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulerService{
		db:             db,
		campaigns:      campaigns,
		teachers:       teachers,
		students:       students,
		subjects:       subjects,
		timeslots:      timeslots,
		regularClasses: regularClasses,
		availabilities: availabilities,
		requirements:   requirements,
		weights:        weights,
		solves:         solves,
		shifts:         shifts,
		cache:          cache,
		metrics:        metrics,
		logger:         logger,
		locks:          newCampaignLocks(),
	}
}

// rosterBundle is the roster plus the lookup tables the response projector
// needs to name teachers, students, subjects, and timeslots.
type rosterBundle struct {
	roster   *scheduler.Roster
	subjects map[string]models.Subject
}

// loadRoster assembles one campaign's scheduler.Roster from the
// repositories: active teachers/students, their availability and
// qualifications, the campaign's timeslots, pre-existing recurring classes,
// and each student's subject demand.
func (s *SchedulerService) loadRoster(ctx context.Context, campaignID string) (*rosterBundle, error) {
	teachers, err := s.teachers.ListActiveByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list active teachers: %w", err)
	}
	students, err := s.students.ListActiveByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list active students: %w", err)
	}
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	slots, err := s.timeslots.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	regularClasses, err := s.regularClasses.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list regular classes: %w", err)
	}
	teacherAvailability, err := s.availabilities.ListByCampaign(ctx, models.AvailabilityOwnerTeacher, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	studentAvailability, err := s.availabilities.ListByCampaign(ctx, models.AvailabilityOwnerStudent, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list student availability: %w", err)
	}
	teachables, err := s.availabilities.ListTeachablesByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list teachables: %w", err)
	}
	requirements, err := s.requirements.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}

	roster := scheduler.NewRoster(campaignID)

	subjectsByID := make(map[string]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectsByID[subject.ID] = subject
		roster.Subjects[subject.ID] = subject
	}

	for _, slot := range slots {
		roster.TimeSlots[slot.ID] = slot
	}

	teacherSlots := make(map[string][]string)
	for _, a := range teacherAvailability {
		teacherSlots[a.OwnerID] = append(teacherSlots[a.OwnerID], a.TimeSlotID)
	}
	teacherSubjects := make(map[string][]string)
	for _, t := range teachables {
		teacherSubjects[t.TeacherID] = append(teacherSubjects[t.TeacherID], t.SubjectID)
	}
	for _, teacher := range teachers {
		roster.Teachers[teacher.ID] = models.TeacherRoster{
			Teacher:              teacher,
			TeachableSubjectIDs:  teacherSubjects[teacher.ID],
			AvailableTimeslotIDs: teacherSlots[teacher.ID],
		}
	}

	studentSlots := make(map[string][]string)
	for _, a := range studentAvailability {
		studentSlots[a.OwnerID] = append(studentSlots[a.OwnerID], a.TimeSlotID)
	}
	for _, student := range students {
		roster.Students[student.ID] = models.StudentRoster{
			Student:              student,
			Requirements:         requirements[student.ID],
			AvailableTimeslotIDs: studentSlots[student.ID],
		}
	}

	for studentID := range requirements {
		if _, ok := roster.Students[studentID]; !ok {
			s.logger.Warn("skipping requirements for unknown or inactive student", zap.String("campaign_id", campaignID), zap.String("student_id", studentID))
		}
	}

	for _, rc := range regularClasses {
		if _, ok := subjectsByID[rc.SubjectID]; !ok {
			s.logger.Warn("skipping regular class with unknown subject", zap.String("campaign_id", campaignID), zap.String("regular_class_id", rc.ID), zap.String("subject_id", rc.SubjectID))
			continue
		}
		roster.RegularClassAt[scheduler.TeacherTimeSlot{TeacherID: rc.TeacherID, TimeSlotID: rc.TimeSlotID}] = rc
		roster.RegularEnrollment[rc.ID] = rc.EnrolledStudentIDs
	}

	return &rosterBundle{roster: roster, subjects: subjectsByID}, nil
}

// rosterFingerprint hashes the roster's decision-relevant content so the
// eligibility cache entry is keyed on what actually affects BuildEligibility,
// not on when it was computed.
func rosterFingerprint(roster *scheduler.Roster) string {
	h := sha256.New()

	teacherIDs := make([]string, 0, len(roster.Teachers))
	for id := range roster.Teachers {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)
	for _, id := range teacherIDs {
		t := roster.Teachers[id]
		subjects := append([]string(nil), t.TeachableSubjectIDs...)
		slots := append([]string(nil), t.AvailableTimeslotIDs...)
		sort.Strings(subjects)
		sort.Strings(slots)
		fmt.Fprintf(h, "T|%s|%v|%v\n", id, subjects, slots)
	}

	studentIDs := make([]string, 0, len(roster.Students))
	for id := range roster.Students {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)
	for _, id := range studentIDs {
		st := roster.Students[id]
		slots := append([]string(nil), st.AvailableTimeslotIDs...)
		sort.Strings(slots)
		reqKeys := make([]string, 0, len(st.Requirements))
		for k := range st.Requirements {
			reqKeys = append(reqKeys, k)
		}
		sort.Strings(reqKeys)
		fmt.Fprintf(h, "S|%s|%v|", id, slots)
		for _, k := range reqKeys {
			fmt.Fprintf(h, "%s=%d,", k, st.Requirements[k])
		}
		fmt.Fprint(h, "\n")
	}

	regularKeys := make([]scheduler.TeacherTimeSlot, 0, len(roster.RegularClassAt))
	for k := range roster.RegularClassAt {
		regularKeys = append(regularKeys, k)
	}
	sort.Slice(regularKeys, func(i, j int) bool {
		if regularKeys[i].TeacherID != regularKeys[j].TeacherID {
			return regularKeys[i].TeacherID < regularKeys[j].TeacherID
		}
		return regularKeys[i].TimeSlotID < regularKeys[j].TimeSlotID
	})
	for _, k := range regularKeys {
		fmt.Fprintf(h, "R|%s|%s\n", k.TeacherID, k.TimeSlotID)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// eligibilityFor returns the decision-key set for this roster, serving it
// from the eligibility cache when the roster content has not changed.
func (s *SchedulerService) eligibilityFor(ctx context.Context, campaignID string, roster *scheduler.Roster) *scheduler.Eligibility {
	if !s.cache.Enabled() {
		return scheduler.BuildEligibility(roster)
	}

	fingerprint := rosterFingerprint(roster)
	cacheKey := fmt.Sprintf("scheduler:eligibility:%s:%s", campaignID, fingerprint)

	var entry eligibilityCacheEntry
	if hit, err := s.cache.Get(ctx, cacheKey, &entry); err == nil && hit {
		return scheduler.FromKeys(entry.Keys)
	}

	elig := scheduler.BuildEligibility(roster)
	if err := s.cache.Set(ctx, cacheKey, eligibilityCacheEntry{Keys: elig.Keys}, eligibilityCacheTTL); err != nil {
		s.logger.Warn("eligibility cache write failed", zap.String("campaign_id", campaignID), zap.Error(err))
	}
	return elig
}

// Solve runs one solve attempt for a campaign: it loads the roster, resolves
// the objective weights (request override falling back to the campaign's
// persisted vector), runs the CP-SAT pipeline, and persists the result as a
// new solve version within one transaction.
func (s *SchedulerService) Solve(ctx context.Context, campaignID string, req dto.SolveRequest) (*dto.SolveResponse, error) {
	lock := s.locks.forCampaign(campaignID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.campaigns.FindByID(ctx, campaignID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	weightValues := req.Weights
	if weightValues == nil {
		persisted, err := s.weights.ListByCampaign(ctx, campaignID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraint weights")
		}
		weightValues = persisted
	}
	weights := scheduler.Weights(weightValues).Sanitize()

	bundle, err := s.loadRoster(ctx, campaignID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign roster")
	}

	if len(bundle.roster.TimeSlots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "campaign has no timeslots")
	}

	elig := s.eligibilityFor(ctx, campaignID, bundle.roster)

	opts := scheduler.Options{}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			opts.Driver.Deadline = remaining
		}
	}

	start := time.Now()
	outcome, err := scheduler.SolveEligibility(ctx, bundle.roster, elig, weights, opts)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordSolve("error", duration)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solve failed")
	}

	outcomeLabel := "succeeded"
	if outcome.Status == string(models.SolveStatusInfeasible) || outcome.Status == string(models.SolveStatusModelError) {
		outcomeLabel = "infeasible"
	}
	s.metrics.RecordSolve(outcomeLabel, duration)

	record := &models.SolveRecord{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		Status:     models.SolveStatus(outcome.Status),
		Objective:  outcome.Objective,
		SolvedAt:   time.Now().UTC(),
	}
	if outcome.Diagnostic != "" {
		diagnostic := outcome.Diagnostic
		record.Diagnostic = &diagnostic
	}

	for i := range outcome.Shifts {
		// Project assigns a deterministic "shift_N" id, stable within one
		// solve but not unique across solves; persistence needs a real key.
		outcome.Shifts[i].ID = uuid.NewString()
		outcome.Shifts[i].SolveID = record.ID
		outcome.Shifts[i].CampaignID = campaignID
		outcome.Shifts[i].CreatedAt = time.Now().UTC()
	}

	var shortages []models.Shortage
	for studentID, bySubject := range outcome.Shortage {
		for subjectID, amount := range bySubject {
			if amount <= 0 {
				continue
			}
			shortages = append(shortages, models.Shortage{
				SolveID:    record.ID,
				CampaignID: campaignID,
				StudentID:  studentID,
				SubjectID:  subjectID,
				Amount:     amount,
			})
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin solve transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.solves.CreateVersioned(ctx, tx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist solve record")
	}
	if err = s.shifts.CreateBatch(ctx, tx, outcome.Shifts); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist shifts")
	}
	if err = s.shifts.CreateShortages(ctx, tx, shortages); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist shortages")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit solve transaction")
	}

	return s.buildResponse(record, bundle, outcome.Shifts, shortages), nil
}

// buildResponse projects persisted shifts/shortages plus roster lookups into
// the teacher/student/shortage views the HTTP layer serves.
func (s *SchedulerService) buildResponse(record *models.SolveRecord, bundle *rosterBundle, shifts []models.Shift, shortages []models.Shortage) *dto.SolveResponse {
	resp := &dto.SolveResponse{
		SolveID:   record.ID,
		Version:   record.Version,
		Status:    string(record.Status),
		Objective: record.Objective,
	}
	if record.Diagnostic != nil {
		resp.Diagnostic = *record.Diagnostic
	}

	for _, shift := range shifts {
		teacher := bundle.roster.Teachers[shift.TeacherID]
		subject := bundle.subjects[shift.SubjectID]
		slot := bundle.roster.TimeSlots[shift.TimeSlotID]

		periodLabel := ""
		if slot.PeriodLabel != nil {
			periodLabel = *slot.PeriodLabel
		}

		teacherRow := dto.TeacherScheduleRow{
			ShiftID:     shift.ID,
			TeacherID:   shift.TeacherID,
			TeacherName: teacher.FullName,
			SubjectID:   shift.SubjectID,
			SubjectName: subject.Name,
			Date:        slot.Date.Format("2006-01-02"),
			PeriodIndex: slot.PeriodIndex,
			PeriodLabel: periodLabel,
		}
		for _, studentID := range shift.StudentIDs {
			student := bundle.roster.Students[studentID]
			teacherRow.Students = append(teacherRow.Students, dto.ShiftStudentView{StudentID: studentID, FullName: student.FullName})
			resp.Students = append(resp.Students, dto.StudentScheduleRow{
				ShiftID:     shift.ID,
				StudentID:   studentID,
				StudentName: student.FullName,
				TeacherID:   shift.TeacherID,
				TeacherName: teacher.FullName,
				SubjectID:   shift.SubjectID,
				SubjectName: subject.Name,
				Date:        teacherRow.Date,
				PeriodIndex: slot.PeriodIndex,
			})
		}
		resp.Teachers = append(resp.Teachers, teacherRow)
	}

	sort.Slice(resp.Teachers, func(i, j int) bool {
		if resp.Teachers[i].TeacherName != resp.Teachers[j].TeacherName {
			return resp.Teachers[i].TeacherName < resp.Teachers[j].TeacherName
		}
		if resp.Teachers[i].Date != resp.Teachers[j].Date {
			return resp.Teachers[i].Date < resp.Teachers[j].Date
		}
		return resp.Teachers[i].PeriodIndex < resp.Teachers[j].PeriodIndex
	})
	sort.Slice(resp.Students, func(i, j int) bool {
		if resp.Students[i].StudentName != resp.Students[j].StudentName {
			return resp.Students[i].StudentName < resp.Students[j].StudentName
		}
		if resp.Students[i].Date != resp.Students[j].Date {
			return resp.Students[i].Date < resp.Students[j].Date
		}
		return resp.Students[i].PeriodIndex < resp.Students[j].PeriodIndex
	})

	for _, shortage := range shortages {
		student := bundle.roster.Students[shortage.StudentID]
		subject := bundle.subjects[shortage.SubjectID]
		resp.Shortages = append(resp.Shortages, dto.ShortageRow{
			StudentID:   shortage.StudentID,
			StudentName: student.FullName,
			SubjectID:   shortage.SubjectID,
			SubjectName: subject.Name,
			Amount:      shortage.Amount,
		})
	}
	sort.Slice(resp.Shortages, func(i, j int) bool {
		if resp.Shortages[i].StudentName != resp.Shortages[j].StudentName {
			return resp.Shortages[i].StudentName < resp.Shortages[j].StudentName
		}
		return resp.Shortages[i].SubjectName < resp.Shortages[j].SubjectName
	})

	return resp
}

// Shifts returns a persisted solve's teacher/student schedule views. When
// solveID is empty it serves the campaign's latest solve.
func (s *SchedulerService) Shifts(ctx context.Context, campaignID, solveID string) (*dto.SolveResponse, error) {
	record, err := s.resolveSolve(ctx, campaignID, solveID)
	if err != nil {
		return nil, err
	}

	bundle, err := s.loadRoster(ctx, campaignID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign roster")
	}

	shifts, err := s.shifts.ListBySolve(ctx, record.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	shortages, err := s.shifts.ListShortagesBySolve(ctx, record.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shortages")
	}

	return s.buildResponse(record, bundle, shifts, shortages), nil
}

// Shortages returns just the shortage rows of a persisted solve.
func (s *SchedulerService) Shortages(ctx context.Context, campaignID, solveID string) ([]dto.ShortageRow, error) {
	resp, err := s.Shifts(ctx, campaignID, solveID)
	if err != nil {
		return nil, err
	}
	return resp.Shortages, nil
}

// History returns the campaign's solve-version history, newest first.
func (s *SchedulerService) History(ctx context.Context, campaignID string) ([]dto.SolveSummary, error) {
	summaries, err := s.solves.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list solve history")
	}
	rows := make([]dto.SolveSummary, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, dto.SolveSummary{
			ID:         summary.ID,
			Version:    summary.Version,
			Status:     string(summary.Status),
			Objective:  summary.Objective,
			ShiftCount: summary.ShiftCount,
			SolvedAt:   summary.SolvedAt,
		})
	}
	return rows, nil
}

func (s *SchedulerService) resolveSolve(ctx context.Context, campaignID, solveID string) (*models.SolveRecord, error) {
	if solveID == "" {
		record, err := s.solves.FindLatestByCampaign(ctx, campaignID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign has no solves yet")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest solve")
		}
		return record, nil
	}
	record, err := s.solves.FindByID(ctx, solveID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solve not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solve")
	}
	if record.CampaignID != campaignID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "solve not found")
	}
	return record, nil
}
