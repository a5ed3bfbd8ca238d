package repository

import (
	"github.com/ScholarLink/application_service/internal/domain"
	"gorm.io/gorm"
)

type StudentProfileRepository interface {
	CreateProfile(profile *domain.StudentProfile) error
	FindByUserID(userID uint) (*domain.StudentProfile, error)
	SaveProfile(profile *domain.StudentProfile) error
}

type studentProfileRepository struct {
	db *gorm.DB
}

func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (s *studentProfileRepository) CreateProfile(profile *domain.StudentProfile) error {
	return s.db.Create(profile).Error
}

func (s *studentProfileRepository) FindByUserID(userID uint) (*domain.StudentProfile, error) {
	var profile domain.StudentProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *studentProfileRepository) SaveProfile(profile *domain.StudentProfile) error {
	return s.db.Save(profile).Error
}
