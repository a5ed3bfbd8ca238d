package services

import (
	"strings"

	"github.com/ScholarLink/application_service/internal/dto"
)

// FilterApplications narrows the admin listing in memory. The search term is
// a case-insensitive substring match against student name, country and
// institution (OR); statusFilter is "all"/"" or an exact status (AND).
func FilterApplications(apps []dto.AdminApplicationResponse, searchTerm, statusFilter string) []dto.AdminApplicationResponse {
	search := strings.ToLower(strings.TrimSpace(searchTerm))
	status := strings.TrimSpace(statusFilter)

	out := make([]dto.AdminApplicationResponse, 0, len(apps))
	for _, a := range apps {
		if search != "" {
			matched := strings.Contains(strings.ToLower(a.StudentName), search) ||
				strings.Contains(strings.ToLower(a.Country), search) ||
				strings.Contains(strings.ToLower(a.Institution), search)
			if !matched {
				continue
			}
		}

		if status != "" && !strings.EqualFold(status, "all") && a.Status != status {
			continue
		}

		out = append(out, a)
	}
	return out
}
