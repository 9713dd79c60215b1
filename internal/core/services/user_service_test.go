package services

import (
	"context"
	"testing"

	"siamvisa-backoffice/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUserRepo struct {
	*fakeUserRepo
	ownedRecords int64
}

func (f *countingUserRepo) CountOwnedRecords(_ context.Context, _ uint) (int64, error) {
	return f.ownedRecords, nil
}

func newUserFixture() (*UserService, *countingUserRepo) {
	repo := &countingUserRepo{fakeUserRepo: newFakeUserRepo()}
	return NewUserService(repo), repo
}

func TestUpdateUserRejectsOwnRoleChange(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})

	role := models.RoleUser
	_, err := svc.UpdateUser(context.Background(), admin.ID, admin.ID, &UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)
}

func TestUpdateUserRejectsUnknownRole(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})

	role := "superuser"
	_, err := svc.UpdateUser(context.Background(), user.ID, admin.ID, &UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdateUserPromotesOtherUser(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})

	role := models.RoleAdmin
	out, err := svc.UpdateUser(context.Background(), user.ID, admin.ID, &UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, out.Role)
}

func TestUpdateUserRejectsTakenEmail(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})

	email := "admin@example.com"
	_, err := svc.UpdateUser(context.Background(), user.ID, admin.ID, &UpdateUserInput{Email: &email})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})

	err := svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)
}

func TestDeleteUserRefusedWhileOwningRecords(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})
	repo.ownedRecords = 3

	err := svc.DeleteUser(context.Background(), user.ID, admin.ID)
	assert.ErrorIs(t, err, ErrUserOwnsRecords)
	assert.Contains(t, repo.users, user.ID)
}

func TestDeleteUserRemovesUnencumberedUser(t *testing.T) {
	svc, repo := newUserFixture()
	admin := repo.add(&models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true})
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID, admin.ID))
	assert.NotContains(t, repo.users, user.ID)
}

func TestToggleUserStatusFlips(t *testing.T) {
	svc, repo := newUserFixture()
	user := repo.add(&models.User{Name: "Somchai", Email: "somchai@example.com", Role: models.RoleUser, IsActive: true})

	out, err := svc.ToggleUserStatus(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newUserFixture()

	_, err := svc.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
