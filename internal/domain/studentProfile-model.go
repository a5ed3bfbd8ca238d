package domain

import "gorm.io/gorm"

// StudentProfile is one-to-one with User; contact details live here,
// the users table keeps only the credential.
type StudentProfile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(255);not null" json:"email"`
	Phone    string `gorm:"type:varchar(50);not null" json:"phone"`
	gorm.Model
}
