package repositories

import (
	"context"
	"time"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// propertyRepository implements PropertyRepository
type propertyRepository struct {
	db     *gorm.DB
	engine *search.Engine[models.Property]
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{
		db:     db,
		engine: search.New(propertySearchConfig, newSearchStore[models.Property](db, "Client", "Creator")),
	}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Creator").
		First(&property, id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Property, error) {
	var properties []*models.Property
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) Search(ctx context.Context, q search.Query) (*search.Result[models.Property], error) {
	return r.engine.Search(ctx, q)
}

func (r *propertyRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Property{}).Count(&count).Error
	return count, err
}

func (r *propertyRepository) CountActive(ctx context.Context, active bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("is_active = ?", active).
		Count(&count).Error
	return count, err
}

func (r *propertyRepository) CountCreatedSince(ctx context.Context, days int) (int64, error) {
	var count int64
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *propertyRepository) CountUpcomingReservations(ctx context.Context, days int) (int64, error) {
	var count int64
	now := time.Now()
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("reservation_date BETWEEN ? AND ?", now, now.AddDate(0, 0, days)).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *propertyRepository) CountByTransactionType(ctx context.Context, limit int) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("transaction_type AS type, COUNT(id) AS count").
		Group("transaction_type").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *propertyRepository) CountByPropertyType(ctx context.Context, limit int) ([]TypeCount, error) {
	var rows []TypeCount
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("property_type AS type, COUNT(id) AS count").
		Group("property_type").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *propertyRepository) CountByCondition(ctx context.Context, limit int) ([]ConditionCount, error) {
	var rows []ConditionCount
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("property_condition AS condition, COUNT(id) AS count").
		Group("property_condition").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
