package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// TimeSlotRepository handles persistence for campaign timeslots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository instantiates a timeslot repository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns timeslots for a campaign, ordered by date then period.
func (r *TimeSlotRepository) List(ctx context.Context, filter models.TimeSlotFilter) ([]models.TimeSlot, int, error) {
	base := "FROM timeslots WHERE campaign_id = $1"
	args := []interface{}{filter.CampaignID}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 200
	}
	offset := (page - 1) * size

	sortBy := "date, period_index"
	if strings.EqualFold(filter.SortOrder, "DESC") {
		sortBy = "date DESC, period_index DESC"
	}

	query := fmt.Sprintf("SELECT id, campaign_id, date, period_index, period_label, created_at %s ORDER BY %s LIMIT %d OFFSET %d", base, sortBy, size, offset)
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list timeslots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count timeslots: %w", err)
	}

	return slots, total, nil
}

// ListByCampaign returns every timeslot of a campaign without pagination, for
// the eligibility loader.
func (r *TimeSlotRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.TimeSlot, error) {
	const query = `SELECT id, campaign_id, date, period_index, period_label, created_at FROM timeslots WHERE campaign_id = $1 ORDER BY date, period_index`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign timeslots: %w", err)
	}
	return slots, nil
}

// FindByID loads a timeslot by identifier.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id string) (*models.TimeSlot, error) {
	const query = `SELECT id, campaign_id, date, period_index, period_label, created_at FROM timeslots WHERE id = $1`
	var ts models.TimeSlot
	if err := r.db.GetContext(ctx, &ts, query, id); err != nil {
		return nil, err
	}
	return &ts, nil
}

// Create inserts a new timeslot.
func (r *TimeSlotRepository) Create(ctx context.Context, ts *models.TimeSlot) error {
	if ts.ID == "" {
		ts.ID = uuid.NewString()
	}
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timeslots (id, campaign_id, date, period_index, period_label, created_at) VALUES (:id, :campaign_id, :date, :period_index, :period_label, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ts); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// CreateBatch inserts several timeslots in one transaction, for campaign setup.
func (r *TimeSlotRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimeSlot) error {
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if slots[i].CreatedAt.IsZero() {
			slots[i].CreatedAt = time.Now().UTC()
		}
	}
	const query = `INSERT INTO timeslots (id, campaign_id, date, period_index, period_label, created_at) VALUES (:id, :campaign_id, :date, :period_index, :period_label, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, slots); err != nil {
		return fmt.Errorf("create timeslot batch: %w", err)
	}
	return nil
}

// Delete removes a timeslot.
func (r *TimeSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
