package repositories

import (
	"context"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"
)

// NationalityCount is one row of the clients-by-nationality breakdown.
type NationalityCount struct {
	Nationality string `json:"nationality"`
	Count       int64  `json:"count"`
}

// TypeCount is one row of a by-type breakdown (visa types, transaction types).
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// ConditionCount is one row of the properties-by-condition breakdown.
type ConditionCount struct {
	Condition string `json:"condition"`
	Count     int64  `json:"count"`
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CountOwnedRecords counts clients, visas and properties created by the
	// user. Deletion is refused while it is non-zero.
	CountOwnedRecords(ctx context.Context, userID uint) (int64, error)
	Search(ctx context.Context, q search.Query) (*search.Result[models.User], error)
}

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	GetByPassportNumber(ctx context.Context, passportNumber string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q search.Query) (*search.Result[models.Client], error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, active bool) (int64, error)
	CountCreatedSince(ctx context.Context, days int) (int64, error)
	CountByNationality(ctx context.Context, limit int) ([]NationalityCount, error)
	// RefreshAges resaves every client with a date of birth so the derived
	// age catches up with passed birthdays. Returns the number updated.
	RefreshAges(ctx context.Context) (int64, error)
}

// VisaRepository defines visa repository interface
type VisaRepository interface {
	Create(ctx context.Context, visa *models.Visa) error
	GetByID(ctx context.Context, id uint) (*models.Visa, error)
	ListByClient(ctx context.Context, clientID uint) ([]*models.Visa, error)
	Update(ctx context.Context, visa *models.Visa) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q search.Query) (*search.Result[models.Visa], error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, active bool) (int64, error)
	CountCreatedSince(ctx context.Context, days int) (int64, error)
	// CountExpiringWithin counts active visas whose existing visa expires
	// within the next N days.
	CountExpiringWithin(ctx context.Context, days int) (int64, error)
	CountByExistingVisa(ctx context.Context, limit int) ([]TypeCount, error)
	CountByWishedVisa(ctx context.Context, limit int) ([]TypeCount, error)
}

// PropertyRepository defines property repository interface
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uint) (*models.Property, error)
	ListByClient(ctx context.Context, clientID uint) ([]*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q search.Query) (*search.Result[models.Property], error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, active bool) (int64, error)
	CountCreatedSince(ctx context.Context, days int) (int64, error)
	// CountUpcomingReservations counts active properties whose reservation
	// date falls within the next N days.
	CountUpcomingReservations(ctx context.Context, days int) (int64, error)
	CountByTransactionType(ctx context.Context, limit int) ([]TypeCount, error)
	CountByPropertyType(ctx context.Context, limit int) ([]TypeCount, error)
	CountByCondition(ctx context.Context, limit int) ([]ConditionCount, error)
}
