package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// SolveRepository persists versioned solve attempts for a campaign: one
// immutable row per Solve invocation, newest version last.
type SolveRepository struct {
	db *sqlx.DB
}

// NewSolveRepository constructs the repository.
func NewSolveRepository(db *sqlx.DB) *SolveRepository {
	return &SolveRepository{db: db}
}

// CreateVersioned inserts a new solve record, assigning it the next version
// number for its campaign, within the caller's transaction.
func (r *SolveRepository) CreateVersioned(ctx context.Context, exec sqlx.ExtContext, solve *models.SolveRecord) error {
	if solve.ID == "" {
		solve.ID = uuid.NewString()
	}
	if solve.SolvedAt.IsZero() {
		solve.SolvedAt = time.Now().UTC()
	}

	const versionQuery = `SELECT COALESCE(MAX(version), 0) + 1 FROM solve_records WHERE campaign_id = $1`
	if err := sqlx.GetContext(ctx, exec, &solve.Version, versionQuery, solve.CampaignID); err != nil {
		return fmt.Errorf("compute solve version: %w", err)
	}

	const insert = `INSERT INTO solve_records (id, campaign_id, version, status, objective_value, diagnostic, solved_at)
		VALUES (:id, :campaign_id, :version, :status, :objective_value, :diagnostic, :solved_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, insert, solve); err != nil {
		return fmt.Errorf("create solve record: %w", err)
	}
	return nil
}

// ListByCampaign returns a campaign's solve history, newest version first,
// each row annotated with the number of shifts it produced.
func (r *SolveRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.SolveRecordSummary, error) {
	const query = `
SELECT sr.id, sr.version, sr.status, sr.objective_value,
       COUNT(s.id) AS shift_count, sr.solved_at
FROM solve_records sr
LEFT JOIN shifts s ON s.solve_id = sr.id
WHERE sr.campaign_id = $1
GROUP BY sr.id, sr.version, sr.status, sr.objective_value, sr.solved_at
ORDER BY sr.version DESC`
	var summaries []models.SolveRecordSummary
	if err := r.db.SelectContext(ctx, &summaries, query, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign solves: %w", err)
	}
	return summaries, nil
}

// FindByID loads a single solve record.
func (r *SolveRepository) FindByID(ctx context.Context, id string) (*models.SolveRecord, error) {
	const query = `SELECT id, campaign_id, version, status, objective_value, diagnostic, solved_at FROM solve_records WHERE id = $1`
	var solve models.SolveRecord
	if err := r.db.GetContext(ctx, &solve, query, id); err != nil {
		return nil, err
	}
	return &solve, nil
}

// FindLatestByCampaign returns the most recent solve record for a campaign.
func (r *SolveRepository) FindLatestByCampaign(ctx context.Context, campaignID string) (*models.SolveRecord, error) {
	const query = `SELECT id, campaign_id, version, status, objective_value, diagnostic, solved_at FROM solve_records WHERE campaign_id = $1 ORDER BY version DESC LIMIT 1`
	var solve models.SolveRecord
	if err := r.db.GetContext(ctx, &solve, query, campaignID); err != nil {
		return nil, err
	}
	return &solve, nil
}
