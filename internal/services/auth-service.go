package services

import (
	"errors"
	"strings"

	"github.com/ScholarLink/application_service/internal/domain"
	"github.com/ScholarLink/application_service/internal/dto"
	"github.com/ScholarLink/application_service/internal/helper"
	"github.com/ScholarLink/application_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(input dto.RegisterRequest) error
	Login(input dto.UserLogin) (*domain.User, error)
	GetProfile(session dto.Session) (*dto.ProfileResponse, error)
}

type authService struct {
	repo        repository.UserRepository
	studentRepo repository.StudentProfileRepository
	auth        helper.Auth
}

func NewAuthService(
	repo repository.UserRepository,
	studentRepo repository.StudentProfileRepository,
	auth helper.Auth,
) AuthService {
	return &authService{
		repo:        repo,
		studentRepo: studentRepo,
		auth:        auth,
	}
}

func (a *authService) Register(input dto.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	fullName := strings.TrimSpace(input.FullName)
	phone := strings.TrimSpace(input.Phone)

	if email == "" || strings.TrimSpace(input.Password) == "" || fullName == "" || phone == "" {
		return errors.New("invalid inputs")
	}
	if !strings.Contains(email, "@") {
		return errors.New("invalid email")
	}
	if len(input.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	// duplicate email pre-check; the unique index is the backstop
	existing, err := a.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	newUser := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	usr, err := a.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsDuplicateEmail(err) {
			return errors.New("email already exists")
		}
		return errors.New("failed to create user")
	}
	if usr == nil || usr.ID == 0 {
		return errors.New("failed to create user")
	}

	// profile after credential; if this fails the credential stays behind
	// and the caller sees the failure (no rollback of the identity record)
	profile := &domain.StudentProfile{
		UserID:   usr.ID,
		FullName: fullName,
		Email:    email,
		Phone:    phone,
	}
	if err := a.studentRepo.CreateProfile(profile); err != nil {
		return errors.New("failed to create student profile")
	}

	return nil
}

func (a *authService) Login(input dto.UserLogin) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, errors.New("invalid email or password")
	}

	user, err := a.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, errors.New("invalid email or password")
	}

	if err := a.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return user, nil
}

func (a *authService) GetProfile(session dto.Session) (*dto.ProfileResponse, error) {
	if session.UserID == 0 {
		return nil, errors.New("unauthorized")
	}

	profile, err := a.studentRepo.FindByUserID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("student profile not found")
		}
		return nil, err
	}

	return &dto.ProfileResponse{
		UserID:   session.UserID,
		Email:    profile.Email,
		FullName: profile.FullName,
		Phone:    profile.Phone,
		IsAdmin:  session.IsAdmin,
	}, nil
}
