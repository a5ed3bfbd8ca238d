package repository

import (
	"errors"

	"github.com/ScholarLink/application_service/internal/domain"
	"gorm.io/gorm"
)

type AdminRepository interface {
	IsAdmin(userID uint) (bool, error)
	AddAdmin(userID uint) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (a *adminRepository) IsAdmin(userID uint) (bool, error) {
	var count int64
	err := a.db.
		Model(&domain.AdminMember{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *adminRepository) AddAdmin(userID uint) error {
	if userID == 0 {
		return errors.New("invalid user_id")
	}

	var m domain.AdminMember
	err := a.db.Where("user_id = ?", userID).First(&m).Error
	if err == nil {
		return nil // already a member
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return a.db.Create(&domain.AdminMember{UserID: userID}).Error
}
