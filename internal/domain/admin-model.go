package domain

import "gorm.io/gorm"

// AdminMember is an allow-list row; membership is the only privilege signal.
type AdminMember struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	gorm.Model
}
