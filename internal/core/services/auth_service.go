package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/config"
	"siamvisa-backoffice/internal/pkg/jwt"
	"siamvisa-backoffice/internal/pkg/password"
	"siamvisa-backoffice/internal/pkg/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth service errors
var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountInactive        = errors.New("account is not verified")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidToken           = errors.New("token is invalid or already used")
	ErrAlreadyVerified        = errors.New("account is already verified")
	ErrOldPasswordWrong       = errors.New("old password is incorrect")
)

// AuthService handles registration, login and account lifecycle.
type AuthService struct {
	userRepo repositories.UserRepository
	notifier Notifier
	uploader storage.Uploader
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	notifier Notifier,
	uploader storage.Uploader,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
		uploader: uploader,
		cfg:      cfg,
	}
}

// RegisterInput represents register input
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber *string
}

// LoginOutput carries the issued token pair plus the account
type LoginOutput struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *models.UserResponse `json:"user"`
}

// Register creates an inactive account and sends a verification link. The
// verification token is stored in the refresh_token column until consumed.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyRegistered
	}

	if err := password.Validate(input.Password); err != nil {
		return nil, err
	}
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Password:     hashed,
		PhoneNumber:  input.PhoneNumber,
		Role:         models.RoleUser,
		IsActive:     false,
		RefreshToken: &token,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/verify?token=%s", s.cfg.FrontendURL, token)
	if err := s.notifier.SendVerificationLink(ctx, user.Email, url); err != nil {
		// the account exists either way; resend-verification covers this
		return user.ToResponse(), nil
	}

	return user.ToResponse(), nil
}

// Login authenticates a verified account and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(plaintext, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. The presented refresh token must match the
// one stored for the account; anything else is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginOutput, error) {
	access, err := jwt.GenerateAccessToken(
		user.ID, user.Email, user.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.GenerateRefreshToken(
		user.ID, uuid.NewString(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	user.RefreshToken = &refresh
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}

// Logout invalidates the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = nil
	return s.userRepo.Update(ctx, user)
}

// VerifyEmail activates the account behind a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.UserResponse, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if user.IsActive {
		return nil, ErrAlreadyVerified
	}

	user.IsActive = true
	user.RefreshToken = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ResendVerification issues a fresh verification link for an inactive account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// don't reveal whether the address is registered
			return nil
		}
		return err
	}
	if user.IsActive {
		return ErrAlreadyVerified
	}

	token := uuid.NewString()
	user.RefreshToken = &token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/verify?token=%s", s.cfg.FrontendURL, token)
	return s.notifier.SendVerificationLink(ctx, user.Email, url)
}

// ForgotPassword stores a reset token and sends the reset link. Unknown
// addresses are silently accepted.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	user.RefreshToken = &token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	return s.notifier.SendPasswordResetLink(ctx, user.Email, url)
}

// ResetPassword consumes a reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}

	user, err := s.userRepo.GetByRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if err := password.Validate(newPassword); err != nil {
		return err
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.RefreshToken = nil
	return s.userRepo.Update(ctx, user)
}

// ChangePassword verifies the old password and stores the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(oldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if err := password.Validate(newPassword); err != nil {
		return err
	}
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// GetProfile returns the caller's own account.
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfileInput represents profile update input
type UpdateProfileInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

// UpdateProfile updates the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailAlreadyRegistered
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfileImage uploads a new profile image and swaps the stored URL.
// The previous image is removed best-effort after the record is updated.
func (s *AuthService) UpdateProfileImage(ctx context.Context, userID uint, filename, contentType string, body io.Reader) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := storage.BuildKey("profiles", filename)
	url, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	previous := user.Profile
	user.Profile = &url
	if err := s.userRepo.Update(ctx, user); err != nil {
		// the record kept its old image; don't leak the orphan object
		_ = s.uploader.Delete(ctx, url)
		return nil, err
	}

	if previous != nil {
		_ = s.uploader.Delete(ctx, *previous)
	}
	return user.ToResponse(), nil
}
