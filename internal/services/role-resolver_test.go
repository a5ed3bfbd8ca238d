package services

import (
	"errors"
	"testing"

	"github.com/ScholarLink/application_service/internal/repository"
	"github.com/stretchr/testify/assert"
)

type erroringAdminRepo struct{}

func (erroringAdminRepo) IsAdmin(userID uint) (bool, error) {
	return false, errors.New("store unreachable")
}

func (erroringAdminRepo) AddAdmin(userID uint) error {
	return errors.New("store unreachable")
}

func TestResolveRole(t *testing.T) {
	t.Run("MemberIsAdmin", func(t *testing.T) {
		db := setupTestDB(t)
		adminRepo := repository.NewAdminRepository(db)
		userID := createStudent(t, db, "admin@x.com", "Ada Admin")
		assert.NoError(t, adminRepo.AddAdmin(userID))

		resolver := NewRoleResolver(adminRepo)
		assert.True(t, resolver.ResolveRole(userID))
	})

	t.Run("NonMemberIsNotAdmin", func(t *testing.T) {
		db := setupTestDB(t)
		userID := createStudent(t, db, "a@x.com", "Alice Anders")

		resolver := NewRoleResolver(repository.NewAdminRepository(db))
		assert.False(t, resolver.ResolveRole(userID))
	})

	t.Run("LookupErrorDefaultsToDeny", func(t *testing.T) {
		resolver := NewRoleResolver(erroringAdminRepo{})
		assert.False(t, resolver.ResolveRole(42))
	})

	t.Run("ZeroUserIsNotAdmin", func(t *testing.T) {
		resolver := NewRoleResolver(erroringAdminRepo{})
		assert.False(t, resolver.ResolveRole(0))
	})
}
