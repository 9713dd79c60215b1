package services

import (
	"context"
	"errors"
	"log"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/pkg/search"
	"siamvisa-backoffice/internal/pkg/storage"

	"gorm.io/gorm"
)

// Client service errors
var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientEmailExists    = errors.New("client email already exists")
	ErrClientPassportExists = errors.New("client passport number already exists")
	ErrInvalidMaritalStatus = errors.New("invalid marital status")
)

// ClientService handles client business logic.
type ClientService struct {
	clientRepo   repositories.ClientRepository
	propertyRepo repositories.PropertyRepository
	uploader     storage.Uploader
}

// NewClientService creates a new client service
func NewClientService(
	clientRepo repositories.ClientRepository,
	propertyRepo repositories.PropertyRepository,
	uploader storage.Uploader,
) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		propertyRepo: propertyRepo,
		uploader:     uploader,
	}
}

// CreateClientInput represents create input
type CreateClientInput struct {
	Name                        string
	FamilyName                  string
	Email                       string
	PassportNumber              *string
	Nationality                 string
	DateOfBirth                 *time.Time
	PhoneNumber                 string
	CurrentAddress              string
	AddressInThailand           *string
	Whatsapp                    *string
	Line                        *string
	MaritalStatus               *string
	FatherName                  *string
	MotherName                  *string
	MarriedToThaiAndRegistered  *bool
	HasYellowOrPinkCard         *bool
	HasBoughtPropertyInThailand *bool
}

// CreateClient creates a client owned by the calling user.
func (s *ClientService) CreateClient(ctx context.Context, input *CreateClientInput, createdBy uint) (*models.Client, error) {
	if input.MaritalStatus != nil && !models.IsEnumValue(models.MaritalStatusValues, *input.MaritalStatus) {
		return nil, ErrInvalidMaritalStatus
	}

	if _, err := s.clientRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrClientEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.PassportNumber != nil {
		if _, err := s.clientRepo.GetByPassportNumber(ctx, *input.PassportNumber); err == nil {
			return nil, ErrClientPassportExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	client := &models.Client{
		Name:                        input.Name,
		FamilyName:                  input.FamilyName,
		Email:                       input.Email,
		PassportNumber:              input.PassportNumber,
		Nationality:                 input.Nationality,
		DateOfBirth:                 input.DateOfBirth,
		PhoneNumber:                 input.PhoneNumber,
		CurrentAddress:              input.CurrentAddress,
		AddressInThailand:           input.AddressInThailand,
		Whatsapp:                    input.Whatsapp,
		Line:                        input.Line,
		MaritalStatus:               input.MaritalStatus,
		FatherName:                  input.FatherName,
		MotherName:                  input.MotherName,
		MarriedToThaiAndRegistered:  input.MarriedToThaiAndRegistered,
		HasYellowOrPinkCard:         input.HasYellowOrPinkCard,
		HasBoughtPropertyInThailand: input.HasBoughtPropertyInThailand,
		IsActive:                    true,
		CreatedBy:                   createdBy,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, client.ID)
}

// SearchClientsInput represents list/search input
type SearchClientsInput struct {
	Page        int
	Limit       int
	Search      string
	SortBy      string
	SortOrder   string
	Nationality string
	IsActive    *bool
	CreatedBy   uint
}

// SearchClients lists clients through the search engine, creator attached.
func (s *ClientService) SearchClients(ctx context.Context, input *SearchClientsInput) (*search.Result[models.Client], error) {
	q := search.Query{
		Page:      input.Page,
		Limit:     input.Limit,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Filters: []search.Filter{
			{Column: "nationality", Value: input.Nationality},
		},
	}
	if input.IsActive != nil {
		q.Filters = append(q.Filters, search.Filter{Column: "is_active", Value: *input.IsActive})
	}
	if input.CreatedBy != 0 {
		q.Filters = append(q.Filters, search.Filter{Column: "created_by", Value: input.CreatedBy})
	}
	return s.clientRepo.Search(ctx, q)
}

// GetClient returns a client by ID with its creator attached.
func (s *ClientService) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// UpdateClientInput represents partial update input; nil fields are left as
// they are.
type UpdateClientInput struct {
	Name                        *string
	FamilyName                  *string
	Email                       *string
	PassportNumber              *string
	Nationality                 *string
	DateOfBirth                 *time.Time
	PhoneNumber                 *string
	CurrentAddress              *string
	AddressInThailand           *string
	Whatsapp                    *string
	Line                        *string
	MaritalStatus               *string
	FatherName                  *string
	MotherName                  *string
	MarriedToThaiAndRegistered  *bool
	HasYellowOrPinkCard         *bool
	HasBoughtPropertyInThailand *bool
}

// UpdateClient applies a partial update. Age is recomputed on save.
func (s *ClientService) UpdateClient(ctx context.Context, id uint, input *UpdateClientInput) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if input.Email != nil && *input.Email != client.Email {
		if _, err := s.clientRepo.GetByEmail(ctx, *input.Email); err == nil {
			return nil, ErrClientEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		client.Email = *input.Email
	}

	if input.PassportNumber != nil &&
		(client.PassportNumber == nil || *input.PassportNumber != *client.PassportNumber) {
		if _, err := s.clientRepo.GetByPassportNumber(ctx, *input.PassportNumber); err == nil {
			return nil, ErrClientPassportExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		client.PassportNumber = input.PassportNumber
	}

	if input.MaritalStatus != nil {
		if !models.IsEnumValue(models.MaritalStatusValues, *input.MaritalStatus) {
			return nil, ErrInvalidMaritalStatus
		}
		client.MaritalStatus = input.MaritalStatus
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.FamilyName != nil {
		client.FamilyName = *input.FamilyName
	}
	if input.Nationality != nil {
		client.Nationality = *input.Nationality
	}
	if input.DateOfBirth != nil {
		client.DateOfBirth = input.DateOfBirth
	}
	if input.PhoneNumber != nil {
		client.PhoneNumber = *input.PhoneNumber
	}
	if input.CurrentAddress != nil {
		client.CurrentAddress = *input.CurrentAddress
	}
	if input.AddressInThailand != nil {
		client.AddressInThailand = input.AddressInThailand
	}
	if input.Whatsapp != nil {
		client.Whatsapp = input.Whatsapp
	}
	if input.Line != nil {
		client.Line = input.Line
	}
	if input.FatherName != nil {
		client.FatherName = input.FatherName
	}
	if input.MotherName != nil {
		client.MotherName = input.MotherName
	}
	if input.MarriedToThaiAndRegistered != nil {
		client.MarriedToThaiAndRegistered = input.MarriedToThaiAndRegistered
	}
	if input.HasYellowOrPinkCard != nil {
		client.HasYellowOrPinkCard = input.HasYellowOrPinkCard
	}
	if input.HasBoughtPropertyInThailand != nil {
		client.HasBoughtPropertyInThailand = input.HasBoughtPropertyInThailand
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, client.ID)
}

// ToggleClientStatus flips is_active (soft-disable, nothing is deleted).
func (s *ClientService) ToggleClientStatus(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	client.IsActive = !client.IsActive
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return s.clientRepo.GetByID(ctx, client.ID)
}

// DeleteClient hard-deletes a client. Visas and properties cascade in the
// database; their uploaded documents are removed from object storage first.
func (s *ClientService) DeleteClient(ctx context.Context, id uint) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		return err
	}

	properties, err := s.propertyRepo.ListByClient(ctx, id)
	if err != nil {
		return err
	}

	var urls []string
	for _, p := range properties {
		for _, field := range models.DocumentFields {
			if url := p.DocumentURL(field); url != nil {
				urls = append(urls, *url)
			}
		}
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	// best effort: a missing object must not resurrect the record
	for _, url := range urls {
		if err := s.uploader.Delete(ctx, url); err != nil {
			log.Printf("⚠️ Failed to delete document %s: %v", url, err)
		}
	}
	return nil
}

// ClientStats is the dashboard summary.
type ClientStats struct {
	TotalClients    int64                           `json:"totalClients"`
	ActiveClients   int64                           `json:"activeClients"`
	InactiveClients int64                           `json:"inactiveClients"`
	RecentClients   int64                           `json:"recentClients"`
	ByNationality   []repositories.NationalityCount `json:"clientsByNationality"`
}

// GetStats returns client counts and the top-10 nationality breakdown.
func (s *ClientService) GetStats(ctx context.Context) (*ClientStats, error) {
	total, err := s.clientRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.clientRepo.CountActive(ctx, true)
	if err != nil {
		return nil, err
	}
	inactive, err := s.clientRepo.CountActive(ctx, false)
	if err != nil {
		return nil, err
	}
	recent, err := s.clientRepo.CountCreatedSince(ctx, 30)
	if err != nil {
		return nil, err
	}
	byNationality, err := s.clientRepo.CountByNationality(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &ClientStats{
		TotalClients:    total,
		ActiveClients:   active,
		InactiveClients: inactive,
		RecentClients:   recent,
		ByNationality:   byNationality,
	}, nil
}
