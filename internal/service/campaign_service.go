package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type campaignRepository interface {
	List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, int, error)
	FindByID(ctx context.Context, id string) (*models.Campaign, error)
	FindActive(ctx context.Context) (*models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) error
	Update(ctx context.Context, campaign *models.Campaign) error
	SetActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountSolves(ctx context.Context, id string) (int, error)
}

// CreateCampaignRequest captures fields for creating a campaign.
type CreateCampaignRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// UpdateCampaignRequest modifies campaign fields.
type UpdateCampaignRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// CampaignService handles campaign domain workflows: the bounded scheduling
// window every solve, roster entity, and constraint weight is scoped to.
type CampaignService struct {
	repo      campaignRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCampaignService creates a new campaign service.
func NewCampaignService(repo campaignRepository, validate *validator.Validate, logger *zap.Logger) *CampaignService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CampaignService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated campaigns.
func (s *CampaignService) List(ctx context.Context, filter models.CampaignFilter) ([]models.Campaign, *models.Pagination, error) {
	campaigns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campaigns")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return campaigns, pagination, nil
}

// Get returns a campaign by identifier.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}
	return campaign, nil
}

// Active returns the currently active campaign, if any.
func (s *CampaignService) Active(ctx context.Context) (*models.Campaign, error) {
	campaign, err := s.repo.FindActive(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active campaign")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active campaign")
	}
	return campaign, nil
}

// Create adds a new campaign.
func (s *CampaignService) Create(ctx context.Context, req CreateCampaignRequest) (*models.Campaign, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campaign payload")
	}

	description := req.Description
	campaign := &models.Campaign{
		Name:        req.Name,
		Description: &description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	if err := s.repo.Create(ctx, campaign); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create campaign")
	}
	return campaign, nil
}

// Update modifies an existing campaign.
func (s *CampaignService) Update(ctx context.Context, id string, req UpdateCampaignRequest) (*models.Campaign, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campaign payload")
	}

	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	description := req.Description
	campaign.Name = req.Name
	campaign.Description = &description
	campaign.StartDate = req.StartDate
	campaign.EndDate = req.EndDate

	if err := s.repo.Update(ctx, campaign); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update campaign")
	}
	return campaign, nil
}

// Activate marks one campaign active, deactivating any other.
func (s *CampaignService) Activate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}
	if err := s.repo.SetActive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate campaign")
	}
	return nil
}

// Delete removes a campaign when it has no solve history yet.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campaign")
	}

	count, err := s.repo.CountSolves(ctx, campaign.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check campaign solve history")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "campaign has solve history and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete campaign")
	}
	return nil
}
