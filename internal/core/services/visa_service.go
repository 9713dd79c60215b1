package services

import (
	"context"
	"errors"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// Visa service errors
var (
	ErrVisaNotFound       = errors.New("visa not found")
	ErrVisaClientNotFound = errors.New("client for visa not found")
	ErrInvalidVisaType    = errors.New("invalid visa type")
)

// VisaService handles visa-application business logic.
type VisaService struct {
	visaRepo   repositories.VisaRepository
	clientRepo repositories.ClientRepository
}

// NewVisaService creates a new visa service
func NewVisaService(
	visaRepo repositories.VisaRepository,
	clientRepo repositories.ClientRepository,
) *VisaService {
	return &VisaService{
		visaRepo:   visaRepo,
		clientRepo: clientRepo,
	}
}

// CreateVisaInput represents create input
type CreateVisaInput struct {
	ClientID              uint
	ExistingVisa          *string
	WishedVisa            string
	LatestEntryDate       *time.Time
	ExistingVisaExpiry    *time.Time
	IntendedDepartureDate *time.Time
}

// CreateVisa creates a visa record for an existing client.
func (s *VisaService) CreateVisa(ctx context.Context, input *CreateVisaInput, createdBy uint) (*models.Visa, error) {
	if !models.IsEnumValue(models.WishedVisaValues, input.WishedVisa) {
		return nil, ErrInvalidVisaType
	}
	if input.ExistingVisa != nil && !models.IsEnumValue(models.ExistingVisaValues, *input.ExistingVisa) {
		return nil, ErrInvalidVisaType
	}

	if _, err := s.clientRepo.GetByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaClientNotFound
		}
		return nil, err
	}

	visa := &models.Visa{
		ClientID:              input.ClientID,
		ExistingVisa:          input.ExistingVisa,
		WishedVisa:            input.WishedVisa,
		LatestEntryDate:       input.LatestEntryDate,
		ExistingVisaExpiry:    input.ExistingVisaExpiry,
		IntendedDepartureDate: input.IntendedDepartureDate,
		IsActive:              true,
		CreatedBy:             createdBy,
	}
	if err := s.visaRepo.Create(ctx, visa); err != nil {
		return nil, err
	}
	return s.visaRepo.GetByID(ctx, visa.ID)
}

// SearchVisasInput represents list/search input
type SearchVisasInput struct {
	Page         int
	Limit        int
	Search       string
	SortBy       string
	SortOrder    string
	ClientID     uint
	ExistingVisa string
	WishedVisa   string
	IsActive     *bool
	CreatedBy    uint
}

// SearchVisas lists visas through the search engine. Free text is matched
// against the visa vocabularies, never LIKE'd against the enum columns.
func (s *VisaService) SearchVisas(ctx context.Context, input *SearchVisasInput) (*search.Result[models.Visa], error) {
	q := search.Query{
		Page:      input.Page,
		Limit:     input.Limit,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Filters: []search.Filter{
			{Column: "existing_visa", Value: input.ExistingVisa},
			{Column: "wished_visa", Value: input.WishedVisa},
		},
	}
	if input.ClientID != 0 {
		q.Filters = append(q.Filters, search.Filter{Column: "client_id", Value: input.ClientID})
	}
	if input.IsActive != nil {
		q.Filters = append(q.Filters, search.Filter{Column: "is_active", Value: *input.IsActive})
	}
	if input.CreatedBy != 0 {
		q.Filters = append(q.Filters, search.Filter{Column: "created_by", Value: input.CreatedBy})
	}
	return s.visaRepo.Search(ctx, q)
}

// GetVisa returns a visa by ID with its client and creator attached.
func (s *VisaService) GetVisa(ctx context.Context, id uint) (*models.Visa, error) {
	visa, err := s.visaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaNotFound
		}
		return nil, err
	}
	return visa, nil
}

// ListVisasByClient returns all visa records of one client.
func (s *VisaService) ListVisasByClient(ctx context.Context, clientID uint) ([]*models.Visa, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaClientNotFound
		}
		return nil, err
	}
	return s.visaRepo.ListByClient(ctx, clientID)
}

// UpdateVisaInput represents partial update input
type UpdateVisaInput struct {
	ExistingVisa          *string
	WishedVisa            *string
	LatestEntryDate       *time.Time
	ExistingVisaExpiry    *time.Time
	IntendedDepartureDate *time.Time
}

// UpdateVisa applies a partial update.
func (s *VisaService) UpdateVisa(ctx context.Context, id uint, input *UpdateVisaInput) (*models.Visa, error) {
	visa, err := s.visaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaNotFound
		}
		return nil, err
	}

	if input.WishedVisa != nil {
		if !models.IsEnumValue(models.WishedVisaValues, *input.WishedVisa) {
			return nil, ErrInvalidVisaType
		}
		visa.WishedVisa = *input.WishedVisa
	}
	if input.ExistingVisa != nil {
		if !models.IsEnumValue(models.ExistingVisaValues, *input.ExistingVisa) {
			return nil, ErrInvalidVisaType
		}
		visa.ExistingVisa = input.ExistingVisa
	}
	if input.LatestEntryDate != nil {
		visa.LatestEntryDate = input.LatestEntryDate
	}
	if input.ExistingVisaExpiry != nil {
		visa.ExistingVisaExpiry = input.ExistingVisaExpiry
	}
	if input.IntendedDepartureDate != nil {
		visa.IntendedDepartureDate = input.IntendedDepartureDate
	}

	if err := s.visaRepo.Update(ctx, visa); err != nil {
		return nil, err
	}
	return s.visaRepo.GetByID(ctx, visa.ID)
}

// ToggleVisaStatus flips is_active.
func (s *VisaService) ToggleVisaStatus(ctx context.Context, id uint) (*models.Visa, error) {
	visa, err := s.visaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisaNotFound
		}
		return nil, err
	}

	visa.IsActive = !visa.IsActive
	if err := s.visaRepo.Update(ctx, visa); err != nil {
		return nil, err
	}
	return s.visaRepo.GetByID(ctx, visa.ID)
}

// DeleteVisa hard-deletes a visa record.
func (s *VisaService) DeleteVisa(ctx context.Context, id uint) error {
	if _, err := s.visaRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisaNotFound
		}
		return err
	}
	return s.visaRepo.Delete(ctx, id)
}

// VisaStats is the dashboard summary.
type VisaStats struct {
	TotalVisas     int64                    `json:"totalVisas"`
	ActiveVisas    int64                    `json:"activeVisas"`
	InactiveVisas  int64                    `json:"inactiveVisas"`
	RecentVisas    int64                    `json:"recentVisas"`
	ExpiringVisas  int64                    `json:"expiringVisas"`
	ByExistingType []repositories.TypeCount `json:"visasByExistingType"`
	ByWishedType   []repositories.TypeCount `json:"visasByWishedType"`
}

// GetStats returns visa counts, the top-10 type breakdowns and the number of
// active visas whose existing visa expires within 30 days.
func (s *VisaService) GetStats(ctx context.Context) (*VisaStats, error) {
	total, err := s.visaRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.visaRepo.CountActive(ctx, true)
	if err != nil {
		return nil, err
	}
	inactive, err := s.visaRepo.CountActive(ctx, false)
	if err != nil {
		return nil, err
	}
	recent, err := s.visaRepo.CountCreatedSince(ctx, 30)
	if err != nil {
		return nil, err
	}
	expiring, err := s.visaRepo.CountExpiringWithin(ctx, 30)
	if err != nil {
		return nil, err
	}
	byExisting, err := s.visaRepo.CountByExistingVisa(ctx, 10)
	if err != nil {
		return nil, err
	}
	byWished, err := s.visaRepo.CountByWishedVisa(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &VisaStats{
		TotalVisas:     total,
		ActiveVisas:    active,
		InactiveVisas:  inactive,
		RecentVisas:    recent,
		ExpiringVisas:  expiring,
		ByExistingType: byExisting,
		ByWishedType:   byWished,
	}, nil
}
