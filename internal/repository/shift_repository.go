package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ShiftRepository persists the shifts and shortages one solve produces.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs the repository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// CreateBatch inserts the shifts and their student rows belonging to one
// solve, within the caller's transaction.
func (r *ShiftRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, shifts []models.Shift) error {
	if len(shifts) == 0 {
		return nil
	}
	const insertShift = `INSERT INTO shifts (id, solve_id, campaign_id, teacher_id, subject_id, timeslot_id, created_at)
		VALUES (:id, :solve_id, :campaign_id, :teacher_id, :subject_id, :timeslot_id, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, insertShift, shifts); err != nil {
		return fmt.Errorf("create shifts: %w", err)
	}

	var students []models.ShiftStudent
	for _, shift := range shifts {
		for _, studentID := range shift.StudentIDs {
			students = append(students, models.ShiftStudent{ShiftID: shift.ID, StudentID: studentID})
		}
	}
	if len(students) == 0 {
		return nil
	}
	const insertStudents = `INSERT INTO shift_students (shift_id, student_id) VALUES (:shift_id, :student_id)`
	if _, err := sqlx.NamedExecContext(ctx, exec, insertStudents, students); err != nil {
		return fmt.Errorf("create shift students: %w", err)
	}
	return nil
}

// CreateShortages inserts the strictly-positive shortage rows of one solve.
func (r *ShiftRepository) CreateShortages(ctx context.Context, exec sqlx.ExtContext, shortages []models.Shortage) error {
	if len(shortages) == 0 {
		return nil
	}
	const insert = `INSERT INTO shortages (solve_id, campaign_id, student_id, subject_id, amount)
		VALUES (:solve_id, :campaign_id, :student_id, :subject_id, :amount)`
	if _, err := sqlx.NamedExecContext(ctx, exec, insert, shortages); err != nil {
		return fmt.Errorf("create shortages: %w", err)
	}
	return nil
}

// ListBySolve returns every shift of one solve, with its students populated,
// ordered by (date, period_index, teacher_id, subject_id) to reproduce the
// projector's deterministic ordering.
func (r *ShiftRepository) ListBySolve(ctx context.Context, solveID string) ([]models.Shift, error) {
	const query = `
SELECT s.id, s.solve_id, s.campaign_id, s.teacher_id, s.subject_id, s.timeslot_id, s.created_at
FROM shifts s
JOIN timeslots ts ON ts.id = s.timeslot_id
WHERE s.solve_id = $1
ORDER BY ts.date, ts.period_index, s.teacher_id, s.subject_id`
	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, solveID); err != nil {
		return nil, fmt.Errorf("list solve shifts: %w", err)
	}

	const studentsQuery = `SELECT student_id FROM shift_students WHERE shift_id = $1 ORDER BY student_id`
	for i := range shifts {
		var studentIDs []string
		if err := r.db.SelectContext(ctx, &studentIDs, studentsQuery, shifts[i].ID); err != nil {
			return nil, fmt.Errorf("list shift students: %w", err)
		}
		shifts[i].StudentIDs = studentIDs
	}
	return shifts, nil
}

// ListShortagesBySolve returns every strictly-positive shortage row of one
// solve.
func (r *ShiftRepository) ListShortagesBySolve(ctx context.Context, solveID string) ([]models.Shortage, error) {
	const query = `SELECT solve_id, campaign_id, student_id, subject_id, amount FROM shortages WHERE solve_id = $1 ORDER BY student_id, subject_id`
	var shortages []models.Shortage
	if err := r.db.SelectContext(ctx, &shortages, query, solveID); err != nil {
		return nil, fmt.Errorf("list solve shortages: %w", err)
	}
	return shortages, nil
}
