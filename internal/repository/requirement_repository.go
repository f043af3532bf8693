package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// RequirementRepository persists per-student, per-subject lesson demand.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository constructs the repository.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// ListByStudent returns a student's requirements as a subject->count map.
func (r *RequirementRepository) ListByStudent(ctx context.Context, studentID string) (map[string]int, error) {
	const query = `SELECT subject_id, required_count FROM requirements WHERE student_id = $1 AND required_count > 0`
	var rows []models.Requirement
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student requirements: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.SubjectID] = row.RequiredCount
	}
	return result, nil
}

// ListByCampaign returns every positive requirement row belonging to
// students who have at least one availability row in the campaign, keyed by
// student id, for roster loading.
func (r *RequirementRepository) ListByCampaign(ctx context.Context, campaignID string) (map[string]map[string]int, error) {
	const query = `
SELECT DISTINCT req.student_id, req.subject_id, req.required_count
FROM requirements req
JOIN availabilities a ON a.owner_type = 'STUDENT' AND a.owner_id = req.student_id
JOIN timeslots ts ON ts.id = a.timeslot_id
WHERE ts.campaign_id = $1 AND req.required_count > 0`
	var rows []models.Requirement
	if err := r.db.SelectContext(ctx, &rows, query, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign requirements: %w", err)
	}

	result := make(map[string]map[string]int)
	for _, row := range rows {
		if result[row.StudentID] == nil {
			result[row.StudentID] = make(map[string]int)
		}
		result[row.StudentID][row.SubjectID] = row.RequiredCount
	}
	return result, nil
}

// Upsert sets a student's required_count for a subject, replacing any prior
// value for that pair.
func (r *RequirementRepository) Upsert(ctx context.Context, req models.Requirement) error {
	const query = `
INSERT INTO requirements (student_id, subject_id, required_count)
VALUES (:student_id, :subject_id, :required_count)
ON CONFLICT (student_id, subject_id) DO UPDATE SET required_count = EXCLUDED.required_count`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("upsert requirement: %w", err)
	}
	return nil
}

// Delete removes a single (student, subject) requirement row.
func (r *RequirementRepository) Delete(ctx context.Context, studentID, subjectID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM requirements WHERE student_id = $1 AND subject_id = $2`, studentID, subjectID); err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}
