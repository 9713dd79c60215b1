package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/config"
	"siamvisa-backoffice/internal/pkg/password"
	"siamvisa-backoffice/internal/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- fakes ---

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint

	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range f.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserRepo) CountOwnedRecords(_ context.Context, _ uint) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepo) Search(_ context.Context, _ search.Query) (*search.Result[models.User], error) {
	return &search.Result[models.User]{Result: []models.User{}}, nil
}

type fakeNotifier struct {
	verificationLinks map[string]string
	resetLinks        map[string]string
	sendErr           error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		verificationLinks: map[string]string{},
		resetLinks:        map[string]string{},
	}
}

func (f *fakeNotifier) SendVerificationLink(_ context.Context, email, url string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.verificationLinks[email] = url
	return nil
}

func (f *fakeNotifier) SendPasswordResetLink(_ context.Context, email, url string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.resetLinks[email] = url
	return nil
}

type fakeUploader struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://bucket.example.com/" + key
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeUploader) Delete(_ context.Context, objectURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, objectURL)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode:     "dev",
		FrontendURL: "http://localhost:5173",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeNotifier, *fakeUploader) {
	repo := newFakeUserRepo()
	notifier := newFakeNotifier()
	uploader := &fakeUploader{}
	svc := NewAuthService(repo, notifier, uploader, testConfig())
	return svc, repo, notifier, uploader
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, plaintext string, active bool) *models.User {
	t.Helper()
	hashed, err := password.Hash(plaintext)
	require.NoError(t, err)
	return repo.add(&models.User{
		Name:     "Somchai",
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
		IsActive: active,
	})
}

// --- tests ---

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	svc, repo, notifier, _ := newAuthFixture()

	out, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
	assert.Equal(t, models.RoleUser, out.Role)

	stored := repo.users[out.ID]
	require.NotNil(t, stored.RefreshToken)
	link := notifier.verificationLinks["somchai@example.com"]
	assert.Contains(t, link, "http://localhost:5173/verify?token=")
	assert.Contains(t, link, *stored.RefreshToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	seedUser(t, repo, "somchai@example.com", "secret123", true)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Imposter",
		Email:    "somchai@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegisterSurvivesNotifierFailure(t *testing.T) {
	svc, _, notifier, _ := newAuthFixture()
	notifier.sendErr = errors.New("smtp down")

	out, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.False(t, out.IsActive)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	out, err := svc.Login(context.Background(), "somchai@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, user.ID, out.User.ID)

	// the refresh token must be the stored one, or Refresh would reject it
	require.NotNil(t, repo.users[user.ID].RefreshToken)
	assert.Equal(t, out.RefreshToken, *repo.users[user.ID].RefreshToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	seedUser(t, repo, "somchai@example.com", "secret123", true)

	_, err := svc.Login(context.Background(), "somchai@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	seedUser(t, repo, "somchai@example.com", "secret123", false)

	_, err := svc.Login(context.Background(), "somchai@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	first, err := svc.Login(context.Background(), "somchai@example.com", "secret123")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, *repo.users[user.ID].RefreshToken)

	// the consumed token no longer matches the stored one
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutClearsStoredToken(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	out, err := svc.Login(context.Background(), "somchai@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	assert.Nil(t, repo.users[user.ID].RefreshToken)

	_, err = svc.Refresh(context.Background(), out.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailActivatesAccountOnce(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()

	out, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Somchai",
		Email:    "somchai@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	token := *repo.users[out.ID].RefreshToken

	verified, err := svc.VerifyEmail(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, verified.IsActive)
	assert.Nil(t, repo.users[out.ID].RefreshToken)

	// token is single use
	_, err = svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailRejectsEmptyToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, err := svc.VerifyEmail(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResendVerificationSilentOnUnknownEmail(t *testing.T) {
	svc, _, notifier, _ := newAuthFixture()

	err := svc.ResendVerification(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, notifier.verificationLinks)
}

func TestResendVerificationRejectsActiveAccount(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	seedUser(t, repo, "somchai@example.com", "secret123", true)

	err := svc.ResendVerification(context.Background(), "somchai@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, repo, notifier, _ := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	require.NoError(t, svc.ForgotPassword(context.Background(), "somchai@example.com"))
	link := notifier.resetLinks["somchai@example.com"]
	require.Contains(t, link, "reset-password?token=")
	token := link[strings.Index(link, "token=")+len("token="):]

	require.NoError(t, svc.ResetPassword(context.Background(), token, "brandnew99"))
	assert.True(t, password.Verify("brandnew99", repo.users[user.ID].Password))
	assert.Nil(t, repo.users[user.ID].RefreshToken)

	// unknown addresses are silently accepted
	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	svc, repo, notifier, _ := newAuthFixture()
	seedUser(t, repo, "somchai@example.com", "secret123", true)

	require.NoError(t, svc.ForgotPassword(context.Background(), "somchai@example.com"))
	link := notifier.resetLinks["somchai@example.com"]
	token := link[strings.Index(link, "token=")+len("token="):]

	err := svc.ResetPassword(context.Background(), token, "short")
	assert.ErrorIs(t, err, password.ErrTooShort)
}

func TestChangePasswordChecksOldPassword(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong-old1", "brandnew99")
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "secret123", "brandnew99"))
	assert.True(t, password.Verify("brandnew99", repo.users[user.ID].Password))
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	svc, repo, _, _ := newAuthFixture()
	seedUser(t, repo, "taken@example.com", "secret123", true)
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)

	email := "taken@example.com"
	_, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileInput{Email: &email})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestUpdateProfileImageSwapsStoredURL(t *testing.T) {
	svc, repo, _, uploader := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)
	old := "https://bucket.example.com/profiles/old.jpg"
	user.Profile = &old

	out, err := svc.UpdateProfileImage(context.Background(), user.ID, "new.jpg", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)
	require.NotNil(t, out.Profile)
	assert.Contains(t, *out.Profile, "profiles/")

	// previous image is cleaned up after the swap
	assert.Equal(t, []string{old}, uploader.deleted)
}

func TestUpdateProfileImageCleansUpOnUpdateFailure(t *testing.T) {
	svc, repo, _, uploader := newAuthFixture()
	user := seedUser(t, repo, "somchai@example.com", "secret123", true)
	repo.updateErr = errors.New("db down")

	_, err := svc.UpdateProfileImage(context.Background(), user.ID, "new.jpg", "image/jpeg", strings.NewReader("img"))
	require.Error(t, err)

	// the freshly uploaded object must not be orphaned
	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, uploader.uploaded, uploader.deleted)
}
