package services

import (
	"context"
	"errors"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/pkg/search"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrUserOwnsRecords     = errors.New("user still owns records")
)

// UserService handles user administration.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SearchUsersInput represents list/search input
type SearchUsersInput struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	Role      string
	IsActive  *bool
}

// SearchUsers lists users through the search engine.
func (s *UserService) SearchUsers(ctx context.Context, input *SearchUsersInput) (*search.Result[models.User], error) {
	q := search.Query{
		Page:      input.Page,
		Limit:     input.Limit,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Filters: []search.Filter{
			{Column: "role", Value: input.Role},
		},
	}
	if input.IsActive != nil {
		q.Filters = append(q.Filters, search.Filter{Column: "is_active", Value: *input.IsActive})
	}
	return s.userRepo.Search(ctx, q)
}

// GetUser returns a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUserInput represents admin update input
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *string
	IsActive *bool
}

// UpdateUser updates a user as admin. Admins cannot change their own role.
func (s *UserService) UpdateUser(ctx context.Context, id, adminID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Role != nil {
		if id == adminID {
			return nil, ErrCannotChangeOwnRole
		}
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleUser {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ToggleUserStatus flips is_active.
func (s *UserService) ToggleUserStatus(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// DeleteUser hard-deletes a user. Deletion is refused while the user still
// owns clients, visas or properties: deactivate instead.
func (s *UserService) DeleteUser(ctx context.Context, id, adminID uint) error {
	if id == adminID {
		return ErrCannotDeleteSelf
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	owned, err := s.userRepo.CountOwnedRecords(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return ErrUserOwnsRecords
	}

	return s.userRepo.Delete(ctx, id)
}
