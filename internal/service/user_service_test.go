package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"libroflow/internal/errors"
	"libroflow/internal/model"
)

func TestUserService_GetUserUnknown(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)

	_, err := svc.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	hashed, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcryptCost)
	require.NoError(t, err)
	user := &model.User{
		Name:         "Before",
		Email:        "before@example.com",
		PasswordHash: string(hashed),
		Role:         model.RoleStudent,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	svc := NewUserService(repo, nil)

	// Empty fields are left untouched; only name changes here.
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileParams{Name: "After"})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "before@example.com", updated.Email)
	assert.Equal(t, string(hashed), updated.PasswordHash)
	assert.Equal(t, model.RoleStudent, updated.Role)

	updated, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileParams{
		Email:    "after@example.com",
		Password: "new-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "after@example.com", updated.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
}

func TestUserService_UpdateProfileUnknown(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)

	_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileParams{Name: "Ghost"})
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}
