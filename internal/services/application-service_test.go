package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ScholarLink/application_service/internal/domain"
	"github.com/ScholarLink/application_service/internal/dto"
	"github.com/ScholarLink/application_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one shared in-memory db per test, named so parallel tests stay isolated
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.StudentProfile{},
		&domain.Application{},
		&domain.AdminMember{},
		&domain.AuditLog{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func createStudent(t *testing.T, db *gorm.DB, email, name string) uint {
	t.Helper()

	user := &domain.User{Email: email, PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	profile := &domain.StudentProfile{
		UserID:   user.ID,
		FullName: name,
		Email:    email,
		Phone:    "0812345678",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return user.ID
}

type fakeUploader struct {
	calls   int
	failOn  int // fail on the nth call (1-based), 0 = never
	folders []string
}

func (f *fakeUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	f.calls++
	f.folders = append(f.folders, folder)
	if f.failOn != 0 && f.calls == f.failOn {
		return "", errors.New("blob store unavailable")
	}
	return fmt.Sprintf("https://blob.test/%s/%s", folder, filename), nil
}

type fakeProducer struct {
	keys []string
}

func (f *fakeProducer) PublishMessage(key, value []byte) error {
	f.keys = append(f.keys, string(key))
	return nil
}

func pdfDoc(name string) *dto.DocumentFile {
	return &dto.DocumentFile{
		Filename: name + ".pdf",
		MimeType: "application/pdf",
		Bytes:    []byte("%PDF-1.4 test"),
	}
}

func validSubmitInput() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		Country:          "Canada",
		Institution:      "UBC",
		EducationLevel:   "Bachelor's Degree",
		FieldOfStudy:     "Engineering",
		Passport:         pdfDoc("passport"),
		Transcripts:      pdfDoc("transcripts"),
		MotivationLetter: pdfDoc("motivation"),
	}
}

func newTestService(db *gorm.DB, up *fakeUploader, prod *fakeProducer) ApplicationService {
	return NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewStudentProfileRepository(db),
		up,
		PermissivePolicy{},
		prod,
		"+66900000000",
	)
}

func TestSubmitApplication(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{}
		prod := &fakeProducer{}
		svc := newTestService(db, up, prod)
		session := dto.Session{UserID: studentID, Email: "a@x.com"}

		res, err := svc.Submit(context.Background(), session, studentID, validSubmitInput())
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Equal(t, "Pending", res.Status)
		assert.Contains(t, res.ContactLink, "wa.me")
		assert.Equal(t, 3, up.calls)

		var app domain.Application
		assert.NoError(t, db.First(&app, res.ApplicationID).Error)
		assert.Equal(t, domain.StatusPending, app.Status)
		assert.Equal(t, studentID, app.StudentID)
		assert.NotEmpty(t, app.PassportURL)
		assert.NotEmpty(t, app.TranscriptsURL)
		assert.NotEmpty(t, app.MotivationLetterURL)

		// blobs are namespaced per student and category
		assert.Equal(t, fmt.Sprintf("applications/%d/passport", studentID), up.folders[0])

		assert.Contains(t, prod.keys, "application.submitted")
	})

	t.Run("MissingFieldCreatesNothing", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: studentID}

		input := validSubmitInput()
		input.Country = "  "

		_, err := svc.Submit(context.Background(), session, studentID, input)
		assert.Error(t, err)
		assert.Equal(t, 0, up.calls)

		var count int64
		db.Model(&domain.Application{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("MissingDocumentCreatesNothing", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: studentID}

		input := validSubmitInput()
		input.Transcripts = nil

		_, err := svc.Submit(context.Background(), session, studentID, input)
		assert.Error(t, err)
		assert.Equal(t, 0, up.calls)

		var count int64
		db.Model(&domain.Application{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("PngPassportRejectedBeforeUpload", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: studentID}

		input := validSubmitInput()
		input.Passport = &dto.DocumentFile{
			Filename: "passport.png",
			MimeType: "image/png",
			Bytes:    []byte("png bytes"),
		}

		_, err := svc.Submit(context.Background(), session, studentID, input)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only pdf/zip")
		assert.Equal(t, 0, up.calls)

		var count int64
		db.Model(&domain.Application{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("OversizedDocumentRejected", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: studentID}

		input := validSubmitInput()
		input.Passport = &dto.DocumentFile{
			Filename: "passport.pdf",
			MimeType: "application/pdf",
			Bytes:    make([]byte, MaxDocumentSize+1),
		}

		_, err := svc.Submit(context.Background(), session, studentID, input)
		assert.Error(t, err)
		assert.Equal(t, 0, up.calls)
	})

	t.Run("SelfSubmissionOnly", func(t *testing.T) {
		db := setupTestDB(t)
		alice := createStudent(t, db, "a@x.com", "Alice Anders")
		bob := createStudent(t, db, "b@x.com", "Bob Brown")
		up := &fakeUploader{}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: alice}

		_, err := svc.Submit(context.Background(), session, bob, validSubmitInput())
		assert.Error(t, err)
		assert.Equal(t, 0, up.calls)
	})

	t.Run("UploadFailureAbortsWithoutRecord", func(t *testing.T) {
		db := setupTestDB(t)
		studentID := createStudent(t, db, "a@x.com", "Alice Anders")
		up := &fakeUploader{failOn: 2}
		svc := newTestService(db, up, &fakeProducer{})
		session := dto.Session{UserID: studentID}

		_, err := svc.Submit(context.Background(), session, studentID, validSubmitInput())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "transcripts")
		// the passport blob from stage one is orphaned, not rolled back
		assert.Equal(t, 2, up.calls)

		var count int64
		db.Model(&domain.Application{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestListForStudent(t *testing.T) {
	db := setupTestDB(t)
	alice := createStudent(t, db, "a@x.com", "Alice Anders")
	bob := createStudent(t, db, "b@x.com", "Bob Brown")
	svc := newTestService(db, &fakeUploader{}, &fakeProducer{})

	_, err := svc.Submit(context.Background(), dto.Session{UserID: alice}, alice, validSubmitInput())
	assert.NoError(t, err)

	bobInput := validSubmitInput()
	bobInput.Country = "Germany"
	_, err = svc.Submit(context.Background(), dto.Session{UserID: bob}, bob, bobInput)
	assert.NoError(t, err)

	t.Run("OwnershipIsolation", func(t *testing.T) {
		apps, err := svc.ListForStudent(dto.Session{UserID: alice}, alice)
		assert.NoError(t, err)
		assert.Len(t, apps, 1)
		assert.Equal(t, "Canada", apps[0].Country)
	})

	t.Run("OtherStudentDenied", func(t *testing.T) {
		_, err := svc.ListForStudent(dto.Session{UserID: alice}, bob)
		assert.Error(t, err)
	})

	t.Run("IdempotentRead", func(t *testing.T) {
		first, err := svc.ListForStudent(dto.Session{UserID: alice}, alice)
		assert.NoError(t, err)
		second, err := svc.ListForStudent(dto.Session{UserID: alice}, alice)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("NewestFirst", func(t *testing.T) {
		time.Sleep(10 * time.Millisecond)
		later := validSubmitInput()
		later.Institution = "McGill"
		_, err := svc.Submit(context.Background(), dto.Session{UserID: alice}, alice, later)
		assert.NoError(t, err)

		apps, err := svc.ListForStudent(dto.Session{UserID: alice}, alice)
		assert.NoError(t, err)
		assert.Len(t, apps, 2)
		assert.Equal(t, "McGill", apps[0].Institution)
	})
}

func TestListAll(t *testing.T) {
	db := setupTestDB(t)
	alice := createStudent(t, db, "a@x.com", "Alice Anders")
	admin := createStudent(t, db, "admin@x.com", "Ada Admin")
	assert.NoError(t, repository.NewAdminRepository(db).AddAdmin(admin))
	svc := newTestService(db, &fakeUploader{}, &fakeProducer{})

	_, err := svc.Submit(context.Background(), dto.Session{UserID: alice}, alice, validSubmitInput())
	assert.NoError(t, err)

	t.Run("NonAdminDenied", func(t *testing.T) {
		_, err := svc.ListAll(dto.Session{UserID: alice, IsAdmin: false})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "admin")
	})

	t.Run("AdminSeesJoinedRows", func(t *testing.T) {
		rows, err := svc.ListAll(dto.Session{UserID: admin, IsAdmin: true})
		assert.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, "Alice Anders", rows[0].StudentName)
		assert.Equal(t, "a@x.com", rows[0].StudentEmail)
		assert.Equal(t, "Pending", rows[0].Status)
	})
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	alice := createStudent(t, db, "a@x.com", "Alice Anders")
	admin := createStudent(t, db, "admin@x.com", "Ada Admin")
	prod := &fakeProducer{}
	svc := newTestService(db, &fakeUploader{}, prod)

	res, err := svc.Submit(context.Background(), dto.Session{UserID: alice}, alice, validSubmitInput())
	assert.NoError(t, err)
	appID := res.ApplicationID

	t.Run("NonAdminDeniedNoStateChange", func(t *testing.T) {
		err := svc.UpdateStatus(dto.Session{UserID: alice, IsAdmin: false}, appID, "Accepted", "")
		assert.Error(t, err)

		var app domain.Application
		assert.NoError(t, db.First(&app, appID).Error)
		assert.Equal(t, domain.StatusPending, app.Status)
	})

	t.Run("InvalidStatusRejected", func(t *testing.T) {
		err := svc.UpdateStatus(dto.Session{UserID: admin, IsAdmin: true}, appID, "Archived", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid status")
	})

	t.Run("AdminAcceptsAndBumpsUpdatedAt", func(t *testing.T) {
		var before domain.Application
		assert.NoError(t, db.First(&before, appID).Error)

		time.Sleep(10 * time.Millisecond)
		err := svc.UpdateStatus(dto.Session{UserID: admin, IsAdmin: true}, appID, "Accepted", "docs verified")
		assert.NoError(t, err)

		var after domain.Application
		assert.NoError(t, db.First(&after, appID).Error)
		assert.Equal(t, domain.StatusAccepted, after.Status)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

		var audit domain.AuditLog
		assert.NoError(t, db.Where("entity_id = ?", appID).First(&audit).Error)
		assert.Equal(t, admin, audit.ActorID)
		assert.True(t, strings.HasSuffix(audit.Action, "Accepted"))

		assert.Contains(t, prod.keys, "application.status_changed")
	})

	t.Run("BackwardTransitionAllowedByDefaultPolicy", func(t *testing.T) {
		err := svc.UpdateStatus(dto.Session{UserID: admin, IsAdmin: true}, appID, "Reviewed", "")
		assert.NoError(t, err)

		var app domain.Application
		assert.NoError(t, db.First(&app, appID).Error)
		assert.Equal(t, domain.StatusReviewed, app.Status)
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		err := svc.UpdateStatus(dto.Session{UserID: admin, IsAdmin: true}, 9999, "Accepted", "")
		assert.Error(t, err)
	})
}
