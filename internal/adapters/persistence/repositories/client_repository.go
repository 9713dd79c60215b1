package repositories

import (
	"context"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository
type clientRepository struct {
	db     *gorm.DB
	engine *search.Engine[models.Client]
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{
		db:     db,
		engine: search.New(clientSearchConfig, newSearchStore[models.Client](db, "Creator")),
	}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Creator").
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) GetByPassportNumber(ctx context.Context, passportNumber string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Where("passport_number = ?", passportNumber).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete hard-deletes the client; visas and properties go with it through
// the ON DELETE CASCADE constraints on client_id.
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

func (r *clientRepository) Search(ctx context.Context, q search.Query) (*search.Result[models.Client], error) {
	return r.engine.Search(ctx, q)
}

func (r *clientRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&count).Error
	return count, err
}

func (r *clientRepository) CountActive(ctx context.Context, active bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("is_active = ?", active).
		Count(&count).Error
	return count, err
}

func (r *clientRepository) CountCreatedSince(ctx context.Context, days int) (int64, error) {
	var count int64
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *clientRepository) CountByNationality(ctx context.Context, limit int) ([]NationalityCount, error) {
	var rows []NationalityCount
	err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Select("nationality, COUNT(id) AS count").
		Group("nationality").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RefreshAges recomputes the stored age wherever a passed birthday made it
// stale. One UPDATE per drifted row, so the nightly run is cheap.
func (r *clientRepository) RefreshAges(ctx context.Context) (int64, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).
		Where("date_of_birth IS NOT NULL").
		Find(&clients).Error
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var updated int64
	for _, client := range clients {
		age := models.AgeFromDateOfBirth(client.DateOfBirth, now)
		if client.Age != nil && age != nil && *client.Age == *age {
			continue
		}
		err := r.db.WithContext(ctx).
			Model(client).
			Update("age", age).Error
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
