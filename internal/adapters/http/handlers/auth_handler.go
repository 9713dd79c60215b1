package handlers

import (
	"errors"
	"strings"

	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/password"
	"siamvisa-backoffice/internal/pkg/response"
	"siamvisa-backoffice/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register handles account registration
// @Summary Register new account
// @Description Create an inactive account and send a verification link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	input := &services.RegisterInput{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyRegistered):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, password.ErrTooShort),
			errors.Is(err, password.ErrTooWeak),
			errors.Is(err, password.ErrTooLong):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, "Account created, please verify your email", user)
}

// Login handles login
// @Summary Login
// @Description Authenticate a verified account and return a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	result, err := h.authService.Login(c.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrAccountInactive):
			return response.Forbidden(c, "Account is not verified")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", result)
}

// Refresh handles token refresh
// @Summary Refresh access token
// @Description Rotate the token pair using a valid refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	result, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return response.Unauthorized(c, "Invalid refresh token, please login again")
		case errors.Is(err, services.ErrAccountInactive):
			return response.Forbidden(c, "Account is not verified")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	return response.Success(c, "Token refreshed successfully", result)
}

// Logout handles logout
// @Summary Logout
// @Description Invalidate the stored refresh token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.Logout(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}
	return response.Success(c, "Logged out successfully", nil)
}

// VerifyEmail activates an account
// @Summary Verify email
// @Description Activate the account behind a verification token
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/verify [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")

	user, err := h.authService.VerifyEmail(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return response.BadRequest(c, "Verification token is invalid or already used")
		case errors.Is(err, services.ErrAlreadyVerified):
			return response.Conflict(c, "Account is already verified")
		default:
			return response.InternalServerError(c, "Failed to verify email")
		}
	}

	return response.Success(c, "Email verified successfully", user)
}

// EmailRequest represents a bare email request body
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification re-sends the verification link
// @Summary Resend verification email
// @Description Issue a fresh verification link for an unverified account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	if err := h.authService.ResendVerification(c.Context(), strings.TrimSpace(req.Email)); err != nil {
		if errors.Is(err, services.ErrAlreadyVerified) {
			return response.Conflict(c, "Account is already verified")
		}
		return response.InternalServerError(c, "Failed to resend verification email")
	}

	// same answer whether the address is registered or not
	return response.Success(c, "If the address is registered, a verification email was sent", nil)
}

// ForgotPassword starts the password reset flow
// @Summary Forgot password
// @Description Send a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body EmailRequest true "Account email"
// @Success 200 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	if err := h.authService.ForgotPassword(c.Context(), strings.TrimSpace(req.Email)); err != nil {
		return response.InternalServerError(c, "Failed to process request")
	}

	return response.Success(c, "If the address is registered, a reset email was sent", nil)
}

// ResetPasswordRequest represents reset request body
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ResetPassword consumes a reset token
// @Summary Reset password
// @Description Set a new password using a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	if err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			return response.BadRequest(c, "Reset token is invalid or already used")
		case errors.Is(err, password.ErrTooShort),
			errors.Is(err, password.ErrTooWeak),
			errors.Is(err, password.ErrTooLong):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to reset password")
		}
	}

	return response.Success(c, "Password reset successfully", nil)
}

// ChangePasswordRequest represents change request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Verify the old password and store a new one
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	if err := h.authService.ChangePassword(c.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrOldPasswordWrong):
			return response.BadRequest(c, "Old password is incorrect")
		case errors.Is(err, password.ErrTooShort),
			errors.Is(err, password.ErrTooWeak),
			errors.Is(err, password.ErrTooLong):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// Me returns the current account
// @Summary Get current user
// @Description Get the authenticated account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetProfile(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load profile")
	}
	return response.Success(c, "Profile loaded", user)
}

// UpdateProfileRequest represents profile update request body
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

// UpdateProfile updates the caller's account
// @Summary Update profile
// @Description Update the authenticated account's own fields
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/me [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if fields := validation.Struct(req); fields != nil {
		return response.ValidationError(c, "Validation failed", fields)
	}

	user, err := h.authService.UpdateProfile(c.Context(), userID, &services.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailAlreadyRegistered) {
			return response.Conflict(c, "Email already registered")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", user)
}

// UpdateProfileImage uploads a new profile image
// @Summary Update profile image
// @Description Upload a profile image and store its URL
// @Tags Auth
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profile formData file true "Profile image"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/me/profile-image [put]
func (h *AuthHandler) UpdateProfileImage(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	fileHeader, err := c.FormFile("profile")
	if err != nil {
		return response.BadRequest(c, "Profile image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Cannot read uploaded file")
	}
	defer file.Close()

	user, err := h.authService.UpdateProfileImage(
		c.Context(), userID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file,
	)
	if err != nil {
		return response.InternalServerError(c, "Failed to update profile image")
	}

	return response.Success(c, "Profile image updated successfully", user)
}
