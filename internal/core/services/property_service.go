package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/pkg/search"
	"siamvisa-backoffice/internal/pkg/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property service errors
var (
	ErrPropertyNotFound       = errors.New("property not found")
	ErrPropertyClientNotFound = errors.New("client for property not found")
	ErrInvalidPropertyValue   = errors.New("invalid property field value")
	ErrInvalidDocumentField   = errors.New("unknown document field")
)

// PropertyService handles property-transaction business logic.
type PropertyService struct {
	propertyRepo repositories.PropertyRepository
	clientRepo   repositories.ClientRepository
	uploader     storage.Uploader
}

// NewPropertyService creates a new property service
func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	clientRepo repositories.ClientRepository,
	uploader storage.Uploader,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		clientRepo:   clientRepo,
		uploader:     uploader,
	}
}

// PropertyInput carries every client-settable property field. Nil fields are
// skipped on update and stored as NULL on create.
type PropertyInput struct {
	PropertyName                *string
	AgentName                   *string
	BrokerCompany               *string
	TransactionType             *string
	PropertyType                *string
	ReservationDate             *time.Time
	IntendedClosingDate         *string
	IntendedClosingDateSpecific *time.Time
	HandoverDate                *string
	SellingPrice                *decimal.Decimal
	Deposit                     *decimal.Decimal
	IntermediaryPayment         *decimal.Decimal
	ClosingPayment              *decimal.Decimal
	AcceptableMethodOfPayment   *string
	PlaceOfPayment              *string
	PropertyCondition           *string
	HouseWarranty               *string
	WarrantyCondition           *string
	WarrantyTerm                *string
	FurnitureIncluded           *string
	TransferFee                 *string
	WithholdingTax              *string
	BusinessTax                 *string
	LeaseRegistrationFee        *string
	MortgageFee                 *string
	UsufructRegistrationFee     *string
	ServitudeRegistrationFee    *string
	DeclaredLandOfficePrice     *string
	LandTitle                   *string
	HouseTitle                  *string
	RepairDetails               *string
}

// validate checks every set field against its vocabulary.
func (in *PropertyInput) validate() error {
	checks := []struct {
		value *string
		vocab []string
	}{
		{in.TransactionType, models.TransactionTypeValues},
		{in.PropertyType, models.PropertyTypeValues},
		{in.IntendedClosingDate, models.IntendedClosingDateValues},
		{in.HandoverDate, models.HandoverDateValues},
		{in.AcceptableMethodOfPayment, models.PaymentMethodValues},
		{in.PlaceOfPayment, models.PlaceOfPaymentValues},
		{in.PropertyCondition, models.PropertyConditionValues},
		{in.FurnitureIncluded, models.FurnitureIncludedValues},
		{in.TransferFee, models.CostSharingValues},
		{in.WithholdingTax, models.CostSharingValues},
		{in.BusinessTax, models.CostSharingValues},
		{in.LeaseRegistrationFee, models.CostSharingValues},
		{in.MortgageFee, models.CostSharingValues},
		{in.UsufructRegistrationFee, models.CostSharingValues},
		{in.ServitudeRegistrationFee, models.CostSharingValues},
		{in.DeclaredLandOfficePrice, models.DeclaredLandOfficePriceValues},
		{in.LandTitle, models.LandTitleValues},
		{in.HouseTitle, models.HouseTitleValues},
	}
	for _, c := range checks {
		if c.value != nil && !models.IsEnumValue(c.vocab, *c.value) {
			return ErrInvalidPropertyValue
		}
	}
	return nil
}

// apply copies every set field onto the model.
func (in *PropertyInput) apply(p *models.Property) {
	if in.PropertyName != nil {
		p.PropertyName = *in.PropertyName
	}
	if in.AgentName != nil {
		p.AgentName = in.AgentName
	}
	if in.BrokerCompany != nil {
		p.BrokerCompany = in.BrokerCompany
	}
	if in.TransactionType != nil {
		p.TransactionType = in.TransactionType
	}
	if in.PropertyType != nil {
		p.PropertyType = in.PropertyType
	}
	if in.ReservationDate != nil {
		p.ReservationDate = in.ReservationDate
	}
	if in.IntendedClosingDate != nil {
		p.IntendedClosingDate = in.IntendedClosingDate
	}
	if in.IntendedClosingDateSpecific != nil {
		p.IntendedClosingDateSpecific = in.IntendedClosingDateSpecific
	}
	if in.HandoverDate != nil {
		p.HandoverDate = in.HandoverDate
	}
	if in.SellingPrice != nil {
		p.SellingPrice = in.SellingPrice
	}
	if in.Deposit != nil {
		p.Deposit = in.Deposit
	}
	if in.IntermediaryPayment != nil {
		p.IntermediaryPayment = in.IntermediaryPayment
	}
	if in.ClosingPayment != nil {
		p.ClosingPayment = in.ClosingPayment
	}
	if in.AcceptableMethodOfPayment != nil {
		p.AcceptableMethodOfPayment = in.AcceptableMethodOfPayment
	}
	if in.PlaceOfPayment != nil {
		p.PlaceOfPayment = in.PlaceOfPayment
	}
	if in.PropertyCondition != nil {
		p.PropertyCondition = in.PropertyCondition
	}
	if in.HouseWarranty != nil {
		p.HouseWarranty = in.HouseWarranty
	}
	if in.WarrantyCondition != nil {
		p.WarrantyCondition = in.WarrantyCondition
	}
	if in.WarrantyTerm != nil {
		p.WarrantyTerm = in.WarrantyTerm
	}
	if in.FurnitureIncluded != nil {
		p.FurnitureIncluded = in.FurnitureIncluded
	}
	if in.TransferFee != nil {
		p.TransferFee = in.TransferFee
	}
	if in.WithholdingTax != nil {
		p.WithholdingTax = in.WithholdingTax
	}
	if in.BusinessTax != nil {
		p.BusinessTax = in.BusinessTax
	}
	if in.LeaseRegistrationFee != nil {
		p.LeaseRegistrationFee = in.LeaseRegistrationFee
	}
	if in.MortgageFee != nil {
		p.MortgageFee = in.MortgageFee
	}
	if in.UsufructRegistrationFee != nil {
		p.UsufructRegistrationFee = in.UsufructRegistrationFee
	}
	if in.ServitudeRegistrationFee != nil {
		p.ServitudeRegistrationFee = in.ServitudeRegistrationFee
	}
	if in.DeclaredLandOfficePrice != nil {
		p.DeclaredLandOfficePrice = in.DeclaredLandOfficePrice
	}
	if in.LandTitle != nil {
		p.LandTitle = in.LandTitle
	}
	if in.HouseTitle != nil {
		p.HouseTitle = in.HouseTitle
	}
	if in.RepairDetails != nil {
		p.RepairDetails = in.RepairDetails
	}
}

// CreateProperty creates a property transaction for an existing client.
func (s *PropertyService) CreateProperty(ctx context.Context, clientID uint, name string, input *PropertyInput, createdBy uint) (*models.Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyClientNotFound
		}
		return nil, err
	}

	property := &models.Property{
		ClientID:     clientID,
		PropertyName: name,
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	input.apply(property)
	property.PropertyName = name

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// SearchPropertiesInput represents list/search input
type SearchPropertiesInput struct {
	Page            int
	Limit           int
	Search          string
	SortBy          string
	SortOrder       string
	ClientID        uint
	TransactionType string
	PropertyType    string
	IsActive        *bool
	CreatedBy       uint
}

// SearchProperties lists properties through the search engine.
func (s *PropertyService) SearchProperties(ctx context.Context, input *SearchPropertiesInput) (*search.Result[models.Property], error) {
	q := search.Query{
		Page:      input.Page,
		Limit:     input.Limit,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Filters: []search.Filter{
			{Column: "transaction_type", Value: input.TransactionType},
			{Column: "property_type", Value: input.PropertyType},
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
	return s.propertyRepo.Search(ctx, q)
}

// GetProperty returns a property by ID with its client and creator attached.
func (s *PropertyService) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return property, nil
}

// ListPropertiesByClient returns all property records of one client.
func (s *PropertyService) ListPropertiesByClient(ctx context.Context, clientID uint) ([]*models.Property, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyClientNotFound
		}
		return nil, err
	}
	return s.propertyRepo.ListByClient(ctx, clientID)
}

// UpdateProperty applies a partial update.
func (s *PropertyService) UpdateProperty(ctx context.Context, id uint, input *PropertyInput) (*models.Property, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	input.apply(property)
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// TogglePropertyStatus flips is_active.
func (s *PropertyService) TogglePropertyStatus(ctx context.Context, id uint) (*models.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	property.IsActive = !property.IsActive
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// DeleteProperty hard-deletes a property and removes its uploaded documents
// from object storage afterwards.
func (s *PropertyService) DeleteProperty(ctx context.Context, id uint) error {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}

	var urls []string
	for _, field := range models.DocumentFields {
		if url := property.DocumentURL(field); url != nil {
			urls = append(urls, *url)
		}
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
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

// UploadDocument stores one of the four title documents and swaps the URL on
// the record. The previous document is removed best-effort once the record
// holds the new one.
func (s *PropertyService) UploadDocument(ctx context.Context, id uint, field, filename, contentType string, body io.Reader) (*models.Property, error) {
	valid := false
	for _, f := range models.DocumentFields {
		if f == field {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidDocumentField
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	key := storage.BuildKey("properties", filename)
	url, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	previous := property.DocumentURL(field)
	property.SetDocumentURL(field, &url)
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		// the record kept its old document; don't leak the orphan object
		_ = s.uploader.Delete(ctx, url)
		return nil, err
	}

	if previous != nil {
		_ = s.uploader.Delete(ctx, *previous)
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// DeleteDocument clears one of the title documents and removes the object.
func (s *PropertyService) DeleteDocument(ctx context.Context, id uint, field string) (*models.Property, error) {
	valid := false
	for _, f := range models.DocumentFields {
		if f == field {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidDocumentField
	}

	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	previous := property.DocumentURL(field)
	if previous == nil {
		return property, nil
	}

	property.SetDocumentURL(field, nil)
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}

	if err := s.uploader.Delete(ctx, *previous); err != nil {
		log.Printf("⚠️ Failed to delete document %s: %v", *previous, err)
	}
	return s.propertyRepo.GetByID(ctx, property.ID)
}

// PropertyStats is the dashboard summary.
type PropertyStats struct {
	TotalProperties      int64                         `json:"totalProperties"`
	ActiveProperties     int64                         `json:"activeProperties"`
	InactiveProperties   int64                         `json:"inactiveProperties"`
	RecentProperties     int64                         `json:"recentProperties"`
	UpcomingReservations int64                         `json:"upcomingReservations"`
	ByTransactionType    []repositories.TypeCount      `json:"propertiesByTransactionType"`
	ByPropertyType       []repositories.TypeCount      `json:"propertiesByPropertyType"`
	ByCondition          []repositories.ConditionCount `json:"propertiesByCondition"`
}

// GetStats returns property counts, the top-10 type and condition breakdowns
// and the number of active properties reserved within the next 30 days.
func (s *PropertyService) GetStats(ctx context.Context) (*PropertyStats, error) {
	total, err := s.propertyRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.propertyRepo.CountActive(ctx, true)
	if err != nil {
		return nil, err
	}
	inactive, err := s.propertyRepo.CountActive(ctx, false)
	if err != nil {
		return nil, err
	}
	recent, err := s.propertyRepo.CountCreatedSince(ctx, 30)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.propertyRepo.CountUpcomingReservations(ctx, 30)
	if err != nil {
		return nil, err
	}
	byTransaction, err := s.propertyRepo.CountByTransactionType(ctx, 10)
	if err != nil {
		return nil, err
	}
	byType, err := s.propertyRepo.CountByPropertyType(ctx, 10)
	if err != nil {
		return nil, err
	}
	byCondition, err := s.propertyRepo.CountByCondition(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &PropertyStats{
		TotalProperties:      total,
		ActiveProperties:     active,
		InactiveProperties:   inactive,
		RecentProperties:     recent,
		UpcomingReservations: upcoming,
		ByTransactionType:    byTransaction,
		ByPropertyType:       byType,
		ByCondition:          byCondition,
	}, nil
}
