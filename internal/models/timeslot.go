package models

import "time"

// TimeSlot is a (date, period) pair within a campaign; the atomic unit of
// teacher/student availability.
type TimeSlot struct {
	ID          string    `db:"id" json:"id"`
	CampaignID  string    `db:"campaign_id" json:"campaign_id"`
	Date        time.Time `db:"date" json:"date"`
	PeriodIndex int       `db:"period_index" json:"period_index"`
	PeriodLabel *string   `db:"period_label" json:"period_label,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TimeSlotFilter captures filters for listing timeslots of a campaign.
type TimeSlotFilter struct {
	CampaignID string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
