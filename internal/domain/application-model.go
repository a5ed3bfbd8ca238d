package domain

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "Pending"
	StatusReviewed ApplicationStatus = "Reviewed"
	StatusAccepted ApplicationStatus = "Accepted"
	StatusRejected ApplicationStatus = "Rejected"
)

func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type DocumentCategory string

const (
	DocPassport         DocumentCategory = "passport"
	DocTranscripts      DocumentCategory = "transcripts"
	DocMotivationLetter DocumentCategory = "motivation_letter"
)

type Application struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"not null;index" json:"student_id"`

	Country        string `gorm:"type:varchar(100);not null" json:"country"`
	Institution    string `gorm:"type:varchar(255);not null" json:"institution"`
	EducationLevel string `gorm:"type:varchar(100);not null" json:"education_level"`
	FieldOfStudy   string `gorm:"type:varchar(255);not null" json:"field_of_study"`

	// public URLs into blob storage, all three required before insert
	PassportURL         string `gorm:"type:text;not null" json:"passport_url"`
	TranscriptsURL      string `gorm:"type:text;not null" json:"transcripts_url"`
	MotivationLetterURL string `gorm:"type:text;not null" json:"motivation_letter_url"`

	Status ApplicationStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	gorm.Model
}

// ApplicationListing is the flattened application ⋈ student_profile row
// returned by the admin listing query.
type ApplicationListing struct {
	ID             uint              `json:"id"`
	StudentID      uint              `json:"student_id"`
	StudentName    string            `json:"student_name"`
	StudentEmail   string            `json:"student_email"`
	Country        string            `json:"country"`
	Institution    string            `json:"institution"`
	EducationLevel string            `json:"education_level"`
	FieldOfStudy   string            `json:"field_of_study"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
