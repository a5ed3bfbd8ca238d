package repository

import (
	"github.com/ScholarLink/application_service/internal/domain"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	CreateApplication(app *domain.Application) (*domain.Application, error)
	FindByID(id uint) (*domain.Application, error)
	ListByStudentID(studentID uint) ([]domain.Application, error)
	ListAllWithStudents() ([]domain.ApplicationListing, error)
	UpdateStatus(id uint, status domain.ApplicationStatus, adminID uint, note string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) CreateApplication(app *domain.Application) (*domain.Application, error) {
	if err := r.db.Create(app).Error; err != nil {
		return nil, err
	}
	return app, nil
}

func (r *applicationRepository) FindByID(id uint) (*domain.Application, error) {
	var app domain.Application
	if err := r.db.First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByStudentID(studentID uint) ([]domain.Application, error) {
	var apps []domain.Application

	err := r.db.
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) ListAllWithStudents() ([]domain.ApplicationListing, error) {
	var rows []domain.ApplicationListing

	err := r.db.
		Table("applications").
		Select(`applications.id,
			applications.student_id,
			student_profiles.full_name AS student_name,
			student_profiles.email AS student_email,
			applications.country,
			applications.institution,
			applications.education_level,
			applications.field_of_study,
			applications.status,
			applications.created_at,
			applications.updated_at`).
		Joins("JOIN student_profiles ON student_profiles.user_id = applications.student_id").
		Where("applications.deleted_at IS NULL").
		Order("applications.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the new status and records who did it in the same
// transaction. Updates bumps updated_at through gorm's autoUpdateTime.
func (r *applicationRepository) UpdateStatus(id uint, status domain.ApplicationStatus, adminID uint, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Application{}).
			Where("id = ?", id).
			Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry := &domain.AuditLog{
			ActorID:  adminID,
			Action:   "application.set_status:" + string(status),
			Entity:   "application",
			EntityID: id,
		}
		if note != "" {
			entry.Note = &note
		}
		return tx.Create(entry).Error
	})
}
