package repositories

import (
	"context"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// userRepository implements UserRepository
type userRepository struct {
	db     *gorm.DB
	engine *search.Engine[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:     db,
		engine: search.New(userSearchConfig, newSearchStore[models.User](db)),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountOwnedRecords(ctx context.Context, userID uint) (int64, error) {
	var total int64
	for _, model := range []interface{}{&models.Client{}, &models.Visa{}, &models.Property{}} {
		var count int64
		err := r.db.WithContext(ctx).
			Model(model).
			Where("created_by = ?", userID).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (r *userRepository) Search(ctx context.Context, q search.Query) (*search.Result[models.User], error) {
	return r.engine.Search(ctx, q)
}
