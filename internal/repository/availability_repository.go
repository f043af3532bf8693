package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// AvailabilityRepository persists per-owner timeslot availability and
// teacher-subject qualifications, the two sets the eligibility builder
// intersects against demand.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListTimeslotIDsByOwner returns the timeslot ids one owner is available for,
// restricted to the given campaign.
func (r *AvailabilityRepository) ListTimeslotIDsByOwner(ctx context.Context, ownerType models.AvailabilityOwnerType, ownerID, campaignID string) ([]string, error) {
	const query = `
SELECT a.timeslot_id
FROM availabilities a
JOIN timeslots ts ON ts.id = a.timeslot_id
WHERE a.owner_type = $1 AND a.owner_id = $2 AND ts.campaign_id = $3`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, ownerType, ownerID, campaignID); err != nil {
		return nil, fmt.Errorf("list owner availability: %w", err)
	}
	return ids, nil
}

// ListByCampaign returns every availability row scoped to one campaign's
// timeslots, for bulk roster loading.
func (r *AvailabilityRepository) ListByCampaign(ctx context.Context, ownerType models.AvailabilityOwnerType, campaignID string) ([]models.Availability, error) {
	const query = `
SELECT a.owner_type, a.owner_id, a.timeslot_id
FROM availabilities a
JOIN timeslots ts ON ts.id = a.timeslot_id
WHERE a.owner_type = $1 AND ts.campaign_id = $2`
	var rows []models.Availability
	if err := r.db.SelectContext(ctx, &rows, query, ownerType, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign availability: %w", err)
	}
	return rows, nil
}

// ReplaceForOwner atomically replaces an owner's availability with the given
// timeslot ids.
func (r *AvailabilityRepository) ReplaceForOwner(ctx context.Context, ownerType models.AvailabilityOwnerType, ownerID string, timeSlotIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availability tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM availabilities WHERE owner_type = $1 AND owner_id = $2`, ownerType, ownerID); err != nil {
		return fmt.Errorf("clear owner availability: %w", err)
	}
	for _, tsID := range timeSlotIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO availabilities (owner_type, owner_id, timeslot_id) VALUES ($1, $2, $3)`, ownerType, ownerID, tsID); err != nil {
			return fmt.Errorf("insert owner availability: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availability tx: %w", err)
	}
	return nil
}

// ListTeachableSubjectIDs returns the subject ids a teacher is qualified to
// teach.
func (r *AvailabilityRepository) ListTeachableSubjectIDs(ctx context.Context, teacherID string) ([]string, error) {
	const query = `SELECT subject_id FROM teachables WHERE teacher_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teachable subjects: %w", err)
	}
	return ids, nil
}

// ListTeachablesByCampaign returns every (teacher, subject) qualification
// for teachers who have at least one availability row in the campaign.
func (r *AvailabilityRepository) ListTeachablesByCampaign(ctx context.Context, campaignID string) ([]models.Teachable, error) {
	const query = `
SELECT DISTINCT t.teacher_id, t.subject_id
FROM teachables t
JOIN availabilities a ON a.owner_type = 'TEACHER' AND a.owner_id = t.teacher_id
JOIN timeslots ts ON ts.id = a.timeslot_id
WHERE ts.campaign_id = $1`
	var rows []models.Teachable
	if err := r.db.SelectContext(ctx, &rows, query, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign teachables: %w", err)
	}
	return rows, nil
}

// ReplaceTeachables atomically replaces a teacher's taught-subject set.
func (r *AvailabilityRepository) ReplaceTeachables(ctx context.Context, teacherID string, subjectIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace teachables tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM teachables WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("clear teachables: %w", err)
	}
	for _, subjectID := range subjectIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO teachables (teacher_id, subject_id) VALUES ($1, $2)`, teacherID, subjectID); err != nil {
			return fmt.Errorf("insert teachable: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace teachables tx: %w", err)
	}
	return nil
}
