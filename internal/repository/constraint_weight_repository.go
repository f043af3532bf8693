package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ConstraintWeightRepository persists the per-campaign objective weight
// vector consumed by scheduler.Weights.
type ConstraintWeightRepository struct {
	db *sqlx.DB
}

// NewConstraintWeightRepository constructs the repository.
func NewConstraintWeightRepository(db *sqlx.DB) *ConstraintWeightRepository {
	return &ConstraintWeightRepository{db: db}
}

// ListByCampaign returns a campaign's configured weights as a key->value map.
// Missing keys are the caller's responsibility to default to zero.
func (r *ConstraintWeightRepository) ListByCampaign(ctx context.Context, campaignID string) (map[string]int, error) {
	const query = `SELECT key, value FROM constraint_weights WHERE campaign_id = $1`
	var rows []models.ConstraintWeight
	if err := r.db.SelectContext(ctx, &rows, query, campaignID); err != nil {
		return nil, fmt.Errorf("list constraint weights: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}

// Upsert sets a single weight key for a campaign.
func (r *ConstraintWeightRepository) Upsert(ctx context.Context, weight models.ConstraintWeight) error {
	const query = `
INSERT INTO constraint_weights (campaign_id, key, value)
VALUES (:campaign_id, :key, :value)
ON CONFLICT (campaign_id, key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.NamedExecContext(ctx, query, weight); err != nil {
		return fmt.Errorf("upsert constraint weight: %w", err)
	}
	return nil
}

// ReplaceAll atomically replaces a campaign's full weight vector.
func (r *ConstraintWeightRepository) ReplaceAll(ctx context.Context, campaignID string, weights map[string]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace weights tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM constraint_weights WHERE campaign_id = $1`, campaignID); err != nil {
		return fmt.Errorf("clear constraint weights: %w", err)
	}
	for key, value := range weights {
		if _, err = tx.ExecContext(ctx, `INSERT INTO constraint_weights (campaign_id, key, value) VALUES ($1, $2, $3)`, campaignID, key, value); err != nil {
			return fmt.Errorf("insert constraint weight: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace weights tx: %w", err)
	}
	return nil
}
