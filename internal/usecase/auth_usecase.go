package usecase

import (
	"errors"

	"inkwell/internal/entity"
	"inkwell/internal/repo/persistent"
	"inkwell/pkg/apperr"
	"inkwell/pkg/jwt"
	"inkwell/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// invalidCredentials is deliberately identical for unknown email and
// wrong password, so callers cannot enumerate registered accounts.
const invalidCredentials = "invalid credentials"

type AuthUseCase interface {
	Register(email, password, confirmPassword, name string) (*entity.User, error)
	Login(email, password string) (*entity.User, string, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register is the self-service path: whatever the caller supplies, the
// created account always gets the USER role. Admins are created through
// the administrative path or the seed utility.
func (uc *authUseCase) Register(email, password, confirmPassword, name string) (*entity.User, error) {
	if err := validateCredentials(password, confirmPassword, name); err != nil {
		return nil, err
	}

	// Best-effort early rejection for a better error message; the unique
	// index on email is the actual safety net under concurrency.
	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, apperr.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, apperr.Internal("failed to process registration", err)
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Role:     entity.RoleUser,
	}

	if err := uc.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, apperr.Internal("failed to create user", err)
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Unauthorized(invalidCredentials)
		}
		uc.logger.Error("Failed to look up user: %v", err)
		return nil, "", apperr.Internal("failed to authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized(invalidCredentials)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", apperr.Internal("failed to generate token", err)
	}

	user.Password = ""
	return user, token, nil
}

func validateCredentials(password, confirmPassword, name string) error {
	var details []apperr.FieldError
	if len(password) < 6 {
		details = append(details, apperr.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if password != confirmPassword {
		details = append(details, apperr.FieldError{Field: "confirm_password", Message: "must match password"})
	}
	if len(name) < 2 {
		details = append(details, apperr.FieldError{Field: "name", Message: "must be at least 2 characters"})
	}
	if len(details) > 0 {
		return apperr.Validation("invalid registration data", details...)
	}
	return nil
}
