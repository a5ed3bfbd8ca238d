package dto

import (
	"time"

	"github.com/ScholarLink/application_service/internal/domain"
)

// DocumentFile is one uploaded file as it arrives from the multipart form.
type DocumentFile struct {
	Filename string
	MimeType string
	Bytes    []byte
}

type SubmitApplicationRequest struct {
	Country        string `json:"country" validate:"required"`
	Institution    string `json:"institution" validate:"required"`
	EducationLevel string `json:"education_level" validate:"required"`
	FieldOfStudy   string `json:"field_of_study" validate:"required"`

	Passport         *DocumentFile `json:"-"`
	Transcripts      *DocumentFile `json:"-"`
	MotivationLetter *DocumentFile `json:"-"`
}

type SubmitApplicationResponse struct {
	ApplicationID uint   `json:"application_id"`
	Status        string `json:"status"`
	ContactLink   string `json:"contact_link,omitempty"`
}

type ApplicationResponse struct {
	ID                  uint   `json:"id"`
	Country             string `json:"country"`
	Institution         string `json:"institution"`
	EducationLevel      string `json:"education_level"`
	FieldOfStudy        string `json:"field_of_study"`
	PassportURL         string `json:"passport_url"`
	TranscriptsURL      string `json:"transcripts_url"`
	MotivationLetterURL string `json:"motivation_letter_url"`
	Status              string `json:"status"`
	SubmittedAt         string `json:"submitted_at"`
	UpdatedAt           string `json:"updated_at"`
}

type AdminApplicationResponse struct {
	ID             uint   `json:"id"`
	StudentID      uint   `json:"student_id"`
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	Country        string `json:"country"`
	Institution    string `json:"institution"`
	EducationLevel string `json:"education_level"`
	FieldOfStudy   string `json:"field_of_study"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submitted_at"`
	UpdatedAt      string `json:"updated_at"`
}

func ListingToAdminResponse(l domain.ApplicationListing) AdminApplicationResponse {
	return AdminApplicationResponse{
		ID:             l.ID,
		StudentID:      l.StudentID,
		StudentName:    l.StudentName,
		StudentEmail:   l.StudentEmail,
		Country:        l.Country,
		Institution:    l.Institution,
		EducationLevel: l.EducationLevel,
		FieldOfStudy:   l.FieldOfStudy,
		Status:         string(l.Status),
		SubmittedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      l.UpdatedAt.Format(time.RFC3339),
	}
}
