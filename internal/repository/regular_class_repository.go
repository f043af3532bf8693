package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// RegularClassRepository persists recurring classes and their enrollment,
// the pre-existing commitments the eligibility builder must treat as
// occupied (teacher, timeslot) pairs.
type RegularClassRepository struct {
	db *sqlx.DB
}

// NewRegularClassRepository constructs the repository.
func NewRegularClassRepository(db *sqlx.DB) *RegularClassRepository {
	return &RegularClassRepository{db: db}
}

// ListByCampaign returns every recurring class whose timeslot belongs to the
// given campaign, with enrollment populated, for the roster loader.
func (r *RegularClassRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.RegularClass, error) {
	const query = `
SELECT rc.id, rc.teacher_id, rc.subject_id, rc.timeslot_id, rc.created_at
FROM regular_classes rc
JOIN timeslots ts ON ts.id = rc.timeslot_id
WHERE ts.campaign_id = $1
ORDER BY ts.date, ts.period_index`
	var classes []models.RegularClass
	if err := r.db.SelectContext(ctx, &classes, query, campaignID); err != nil {
		return nil, fmt.Errorf("list regular classes: %w", err)
	}

	const enrollmentQuery = `SELECT student_id FROM regular_class_enrollments WHERE regular_class_id = $1`
	for i := range classes {
		var studentIDs []string
		if err := r.db.SelectContext(ctx, &studentIDs, enrollmentQuery, classes[i].ID); err != nil {
			return nil, fmt.Errorf("list regular class enrollment: %w", err)
		}
		classes[i].EnrolledStudentIDs = studentIDs
	}
	return classes, nil
}

// ListByTeacher returns the recurring classes taught by a teacher.
func (r *RegularClassRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.RegularClass, error) {
	const query = `SELECT id, teacher_id, subject_id, timeslot_id, created_at FROM regular_classes WHERE teacher_id = $1 ORDER BY created_at`
	var classes []models.RegularClass
	if err := r.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher regular classes: %w", err)
	}
	return classes, nil
}

// Exists checks if a recurring class already occupies (teacher, timeslot).
func (r *RegularClassRepository) Exists(ctx context.Context, teacherID, timeSlotID string) (bool, error) {
	const query = `SELECT 1 FROM regular_classes WHERE teacher_id = $1 AND timeslot_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, timeSlotID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check regular class: %w", err)
	}
	return true, nil
}

// Create inserts a recurring class and its enrollment within one transaction.
func (r *RegularClassRepository) Create(ctx context.Context, class *models.RegularClass) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	if class.CreatedAt.IsZero() {
		class.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create regular class tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO regular_classes (id, teacher_id, subject_id, timeslot_id, created_at) VALUES (:id, :teacher_id, :subject_id, :timeslot_id, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, class); err != nil {
		return fmt.Errorf("create regular class: %w", err)
	}

	for _, studentID := range class.EnrolledStudentIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO regular_class_enrollments (regular_class_id, student_id) VALUES ($1, $2)`, class.ID, studentID); err != nil {
			return fmt.Errorf("enroll student in regular class: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create regular class tx: %w", err)
	}
	return nil
}

// Delete removes a recurring class and its enrollment rows.
func (r *RegularClassRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete regular class tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM regular_class_enrollments WHERE regular_class_id = $1`, id); err != nil {
		return fmt.Errorf("delete regular class enrollment: %w", err)
	}
	result, execErr := tx.ExecContext(ctx, `DELETE FROM regular_classes WHERE id = $1`, id)
	if execErr != nil {
		err = execErr
		return fmt.Errorf("delete regular class: %w", err)
	}
	affected, raErr := result.RowsAffected()
	if raErr != nil {
		err = raErr
		return fmt.Errorf("check deleted regular class rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete regular class tx: %w", err)
	}
	return nil
}
