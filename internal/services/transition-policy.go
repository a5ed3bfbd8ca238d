package services

import "github.com/ScholarLink/application_service/internal/domain"

// TransitionPolicy is the single seam for status-transition validation.
// Swap in a stricter graph here without touching any caller.
type TransitionPolicy interface {
	Allowed(from, to domain.ApplicationStatus) bool
}

// PermissivePolicy lets an admin set any status from any status, including
// moving backward (e.g. Accepted -> Reviewed) to correct mistakes.
type PermissivePolicy struct{}

func (PermissivePolicy) Allowed(from, to domain.ApplicationStatus) bool {
	return domain.ValidStatus(to)
}
