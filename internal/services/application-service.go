package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ScholarLink/application_service/internal/domain"
	"github.com/ScholarLink/application_service/internal/dto"
	"github.com/ScholarLink/application_service/internal/helper/utils"
	"github.com/ScholarLink/application_service/internal/interfaces"
	"github.com/ScholarLink/application_service/internal/repository"
	"github.com/google/uuid"
)

type ApplicationService interface {
	Submit(ctx context.Context, session dto.Session, studentID uint, input dto.SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	ListForStudent(session dto.Session, studentID uint) ([]dto.ApplicationResponse, error)
	ListAll(session dto.Session) ([]dto.AdminApplicationResponse, error)
	UpdateStatus(session dto.Session, applicationID uint, status string, note string) error
}

type applicationService struct {
	appRepo     repository.ApplicationRepository
	studentRepo repository.StudentProfileRepository

	uploader interfaces.Uploader
	policy   TransitionPolicy

	// messaging
	producer     interfaces.ProducerHandler
	supportPhone string
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	studentRepo repository.StudentProfileRepository,
	uploader interfaces.Uploader,
	policy TransitionPolicy,
	producer interfaces.ProducerHandler,
	supportPhone string,
) ApplicationService {
	return &applicationService{
		appRepo:      appRepo,
		studentRepo:  studentRepo,
		uploader:     uploader,
		policy:       policy,
		producer:     producer,
		supportPhone: supportPhone,
	}
}

func (s *applicationService) Submit(
	ctx context.Context,
	session dto.Session,
	studentID uint,
	input dto.SubmitApplicationRequest,
) (*dto.SubmitApplicationResponse, error) {
	// deps
	if s.appRepo == nil {
		return nil, errors.New("application repo is not configured")
	}
	if s.uploader == nil {
		return nil, errors.New("uploader is not configured")
	}

	// authorization first: self-submission only
	if session.UserID == 0 {
		return nil, errors.New("unauthorized")
	}
	if session.UserID != studentID {
		return nil, errors.New("can only submit your own application")
	}

	// validate fields
	country := strings.TrimSpace(input.Country)
	institution := strings.TrimSpace(input.Institution)
	educationLevel := strings.TrimSpace(input.EducationLevel)
	fieldOfStudy := strings.TrimSpace(input.FieldOfStudy)

	if country == "" || institution == "" || educationLevel == "" || fieldOfStudy == "" {
		return nil, errors.New("all application fields are required")
	}

	// validate documents before any upload happens
	if err := ValidateDocument(string(domain.DocPassport), input.Passport); err != nil {
		return nil, err
	}
	if err := ValidateDocument(string(domain.DocTranscripts), input.Transcripts); err != nil {
		return nil, err
	}
	if err := ValidateDocument(string(domain.DocMotivationLetter), input.MotivationLetter); err != nil {
		return nil, err
	}

	// =========================
	// 1) Upload files FIRST, sequentially
	// =========================
	// a failed stage aborts the submission; blobs from earlier stages stay
	// behind in storage (accepted, no compensating delete)
	passportURL, err := s.uploadDocument(ctx, studentID, domain.DocPassport, input.Passport)
	if err != nil {
		return nil, fmt.Errorf("upload passport failed: %w", err)
	}

	transcriptsURL, err := s.uploadDocument(ctx, studentID, domain.DocTranscripts, input.Transcripts)
	if err != nil {
		return nil, fmt.Errorf("upload transcripts failed: %w", err)
	}

	motivationURL, err := s.uploadDocument(ctx, studentID, domain.DocMotivationLetter, input.MotivationLetter)
	if err != nil {
		return nil, fmt.Errorf("upload motivation letter failed: %w", err)
	}

	// =========================
	// 2) Create the record
	// =========================
	app := &domain.Application{
		StudentID:           studentID,
		Country:             country,
		Institution:         institution,
		EducationLevel:      educationLevel,
		FieldOfStudy:        fieldOfStudy,
		PassportURL:         passportURL,
		TranscriptsURL:      transcriptsURL,
		MotivationLetterURL: motivationURL,
		Status:              domain.StatusPending,
	}

	created, err := s.appRepo.CreateApplication(app)
	if err != nil {
		return nil, err
	}

	// 3) publish event (optional)
	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"application_id":%d,"student_id":%d,"status":"%s","submitted_at":"%s"}`,
			created.ID, studentID, created.Status, time.Now().Format(time.RFC3339),
		)
		_ = s.producer.PublishMessage([]byte("application.submitted"), []byte(payload))
	}

	// 4) messaging handoff link
	link := utils.BuildWhatsAppLink(
		s.supportPhone,
		fmt.Sprintf("Hello, I just submitted scholarship application #%d and would like to confirm it was received.", created.ID),
	)

	return &dto.SubmitApplicationResponse{
		ApplicationID: created.ID,
		Status:        string(created.Status),
		ContactLink:   link,
	}, nil
}

// uploadDocument namespaces the blob under the owning student and category,
// with a timestamp+uuid token so resubmissions never collide.
func (s *applicationService) uploadDocument(
	ctx context.Context,
	studentID uint,
	category domain.DocumentCategory,
	f *dto.DocumentFile,
) (string, error) {
	folder := fmt.Sprintf("applications/%d/%s", studentID, category)
	filename := fmt.Sprintf("%s_%d_%s%s",
		category,
		time.Now().Unix(),
		uuid.NewString()[:8],
		strings.ToLower(filepath.Ext(f.Filename)),
	)
	return s.uploader.UploadBytes(ctx, folder, filename, f.Bytes)
}

func (s *applicationService) ListForStudent(session dto.Session, studentID uint) ([]dto.ApplicationResponse, error) {
	if session.UserID == 0 {
		return nil, errors.New("unauthorized")
	}
	if session.UserID != studentID {
		return nil, errors.New("can only view your own applications")
	}

	apps, err := s.appRepo.ListByStudentID(studentID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.ApplicationResponse{
			ID:                  a.ID,
			Country:             a.Country,
			Institution:         a.Institution,
			EducationLevel:      a.EducationLevel,
			FieldOfStudy:        a.FieldOfStudy,
			PassportURL:         a.PassportURL,
			TranscriptsURL:      a.TranscriptsURL,
			MotivationLetterURL: a.MotivationLetterURL,
			Status:              string(a.Status),
			SubmittedAt:         a.CreatedAt.Format(time.RFC3339),
			UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *applicationService) ListAll(session dto.Session) ([]dto.AdminApplicationResponse, error) {
	// privilege gate before any data access
	if session.UserID == 0 {
		return nil, errors.New("unauthorized")
	}
	if !session.IsAdmin {
		return nil, errors.New("admin only")
	}

	rows, err := s.appRepo.ListAllWithStudents()
	if err != nil {
		return nil, err
	}

	out := make([]dto.AdminApplicationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ListingToAdminResponse(r))
	}
	return out, nil
}

func (s *applicationService) UpdateStatus(session dto.Session, applicationID uint, status string, note string) error {
	if session.UserID == 0 {
		return errors.New("unauthorized")
	}
	if !session.IsAdmin {
		return errors.New("admin only")
	}
	if applicationID == 0 {
		return errors.New("invalid application id")
	}

	newStatus := domain.ApplicationStatus(strings.TrimSpace(status))
	if !domain.ValidStatus(newStatus) {
		return errors.New("invalid status")
	}

	app, err := s.appRepo.FindByID(applicationID)
	if err != nil || app == nil {
		return errors.New("application not found")
	}

	if !s.policy.Allowed(app.Status, newStatus) {
		return fmt.Errorf("transition %s -> %s not allowed", app.Status, newStatus)
	}

	if err := s.appRepo.UpdateStatus(applicationID, newStatus, session.UserID, strings.TrimSpace(note)); err != nil {
		return err
	}

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"application_id":%d,"student_id":%d,"status":"%s","changed_by":%d,"changed_at":"%s"}`,
			applicationID, app.StudentID, newStatus, session.UserID, time.Now().Format(time.RFC3339),
		)
		_ = s.producer.PublishMessage([]byte("application.status_changed"), []byte(payload))
	}

	return nil
}
