package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

func TestStorage_Users(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	t.Run("create applies defaults", func(t *testing.T) {
		truncate(t, s)

		u, err := s.Create(ctx, models.User{Email: "john@example.com", PasswordHash: "hash"})
		require.NoError(t, err)

		assert.NoError(t, uuid.Validate(u.ID))
		assert.Equal(t, "john@example.com", u.Email)
		assert.Equal(t, "hash", u.PasswordHash)
		assert.Equal(t, models.DefaultRole, u.Role)
		assert.Equal(t, models.StatusActive, u.Status)
		assert.False(t, u.CreatedAt.IsZero())
		assert.False(t, u.UpdatedAt.IsZero())
		assert.Nil(t, u.VerifiedAt)
		assert.Nil(t, u.DeletedAt)
		assert.Nil(t, u.Username)
	})

	t.Run("duplicate email is a unique violation", func(t *testing.T) {
		truncate(t, s)

		_, err := s.Create(ctx, models.User{Email: "dup@example.com", PasswordHash: "hash"})
		require.NoError(t, err)

		_, err = s.Create(ctx, models.User{Email: "dup@example.com", PasswordHash: "hash"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("duplicate username and phone are unique violations", func(t *testing.T) {
		truncate(t, s)

		_, err := s.Create(ctx, models.User{Email: "a@example.com", PasswordHash: "h", Username: ptr("john"), PhoneNumber: ptr("5551234")})
		require.NoError(t, err)

		_, err = s.Create(ctx, models.User{Email: "b@example.com", PasswordHash: "h", Username: ptr("john")})
		assert.ErrorIs(t, err, ErrUserExists)

		_, err = s.Create(ctx, models.User{Email: "c@example.com", PasswordHash: "h", PhoneNumber: ptr("5551234")})
		assert.ErrorIs(t, err, ErrUserExists)

		// NULL не участвует в уникальности.
		_, err = s.Create(ctx, models.User{Email: "d@example.com", PasswordHash: "h"})
		assert.NoError(t, err)
		_, err = s.Create(ctx, models.User{Email: "e@example.com", PasswordHash: "h"})
		assert.NoError(t, err)
	})

	t.Run("exists and find", func(t *testing.T) {
		truncate(t, s)

		created, err := s.Create(ctx, models.User{Email: "find@example.com", PasswordHash: "hash"})
		require.NoError(t, err)

		ok, err := s.ExistsByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.ExistsByEmail(ctx, "find@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.ExistsByEmail(ctx, "missing@example.com")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.ExistsByID(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.False(t, ok)

		byID, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)

		byEmail, err := s.FindByEmail(ctx, "find@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)

		_, err = s.FindByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = s.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = s.FindByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("find all in creation order", func(t *testing.T) {
		truncate(t, s)

		users, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)

		for _, email := range []string{"1@example.com", "2@example.com", "3@example.com"} {
			_, err := s.Create(ctx, models.User{Email: email, PasswordHash: "hash"})
			require.NoError(t, err)
		}

		users, err = s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, "1@example.com", users[0].Email)
		assert.Equal(t, "3@example.com", users[2].Email)
	})

	t.Run("update", func(t *testing.T) {
		truncate(t, s)

		created, err := s.Create(ctx, models.User{Email: "upd@example.com", PasswordHash: "hash"})
		require.NoError(t, err)

		blocked := models.StatusBlocked
		updated, err := s.Update(ctx, created.ID, models.UserUpdate{
			FirstName: ptr("John"),
			LastName:  ptr("Doe"),
			Status:    &blocked,
		})
		require.NoError(t, err)
		assert.Equal(t, "John Doe", updated.FullName())
		assert.Equal(t, models.StatusBlocked, updated.Status)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		same, err := s.Update(ctx, created.ID, models.UserUpdate{})
		require.NoError(t, err)
		assert.Equal(t, updated.UpdatedAt, same.UpdatedAt)

		_, err = s.Update(ctx, uuid.NewString(), models.UserUpdate{FirstName: ptr("x")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update into taken username", func(t *testing.T) {
		truncate(t, s)

		_, err := s.Create(ctx, models.User{Email: "x@example.com", PasswordHash: "h", Username: ptr("taken")})
		require.NoError(t, err)
		other, err := s.Create(ctx, models.User{Email: "y@example.com", PasswordHash: "h"})
		require.NoError(t, err)

		_, err = s.Update(ctx, other.ID, models.UserUpdate{Username: ptr("taken")})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("soft delete keeps email reserved", func(t *testing.T) {
		truncate(t, s)

		created, err := s.Create(ctx, models.User{Email: "gone@example.com", PasswordHash: "hash"})
		require.NoError(t, err)

		require.NoError(t, s.SoftDelete(ctx, created.ID))
		assert.ErrorIs(t, s.SoftDelete(ctx, created.ID), ErrUserNotFound)

		got, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.DeletedAt)
		assert.Equal(t, models.StatusDeleted, got.Status)

		ok, err := s.ExistsByEmail(ctx, "gone@example.com")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = s.Create(ctx, models.User{Email: "gone@example.com", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("mark verified", func(t *testing.T) {
		truncate(t, s)

		created, err := s.Create(ctx, models.User{Email: "v@example.com", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.False(t, created.IsVerified())

		verified, err := s.MarkVerified(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, verified.IsVerified())

		again, err := s.MarkVerified(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, verified.VerifiedAt.Equal(*again.VerifiedAt))

		_, err = s.MarkVerified(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
