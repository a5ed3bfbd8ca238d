package services

import (
	"log"

	"github.com/ScholarLink/application_service/internal/repository"
)

// RoleResolver decides admin privilege by allow-list membership. A failed
// lookup never grants privilege: on any store error the principal is treated
// as an ordinary user.
type RoleResolver struct {
	adminRepo repository.AdminRepository
}

func NewRoleResolver(adminRepo repository.AdminRepository) *RoleResolver {
	return &RoleResolver{adminRepo: adminRepo}
}

func (r *RoleResolver) ResolveRole(userID uint) bool {
	if userID == 0 {
		return false
	}

	isAdmin, err := r.adminRepo.IsAdmin(userID)
	if err != nil {
		log.Printf("admin lookup failed for user %d: %v (treating as not admin)", userID, err)
		return false
	}
	return isAdmin
}
