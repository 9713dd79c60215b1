package repositories

import (
	"context"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// visaRepository implements VisaRepository
type visaRepository struct {
	db     *gorm.DB
	engine *search.Engine[models.Visa]
}

// NewVisaRepository creates a new visa repository
func NewVisaRepository(db *gorm.DB) VisaRepository {
	return &visaRepository{
		db:     db,
		engine: search.New(visaSearchConfig, newSearchStore[models.Visa](db, "Client", "Creator")),
	}
}

func (r *visaRepository) Create(ctx context.Context, visa *models.Visa) error {
	return r.db.WithContext(ctx).Create(visa).Error
}

func (r *visaRepository) GetByID(ctx context.Context, id uint) (*models.Visa, error) {
	var visa models.Visa
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Creator").
		First(&visa, id).Error
	if err != nil {
		return nil, err
	}
	return &visa, nil
}

func (r *visaRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Visa, error) {
	var visas []*models.Visa
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&visas).Error
	if err != nil {
		return nil, err
	}
	return visas, nil
}

func (r *visaRepository) Update(ctx context.Context, visa *models.Visa) error {
	return r.db.WithContext(ctx).Save(visa).Error
}

func (r *visaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Visa{}, id).Error
}

func (r *visaRepository) Search(ctx context.Context, q search.Query) (*search.Result[models.Visa], error) {
	return r.engine.Search(ctx, q)
}

func (r *visaRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Visa{}).Count(&count).Error
	return count, err
}

func (r *visaRepository) CountActive(ctx context.Context, active bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Visa{}).
		Where("is_active = ?", active).
		Count(&count).Error
	return count, err
}

func (r *visaRepository) CountCreatedSince(ctx context.Context, days int) (int64, error) {
	var count int64
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Model(&models.Visa{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *visaRepository) CountExpiringWithin(ctx context.Context, days int) (int64, error) {
	var count int64
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Visa{}).
		Where("existing_visa_expiry BETWEEN ? AND ?", now, now.AddDate(0, 0, days)).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *visaRepository) CountByExistingVisa(ctx context.Context, limit int) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Visa{}).
		Select("existing_visa AS type, COUNT(id) AS count").
		Group("existing_visa").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *visaRepository) CountByWishedVisa(ctx context.Context, limit int) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Visa{}).
		Select("wished_visa AS type, COUNT(id) AS count").
		Group("wished_visa").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
