package usecase

import (
	"context"
	"errors"
	"io"
	"path"

	"inkwell/internal/entity"
	"inkwell/internal/repo/persistent"
	"inkwell/pkg/apperr"
	"inkwell/pkg/cache"
	"inkwell/pkg/logger"
	"inkwell/pkg/upload"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AvatarStore is the slice of pkg/upload the user usecase needs.
type AvatarStore interface {
	Save(src io.Reader, contentType, filename string, ownerID uint) (*upload.StoredFile, error)
	Remove(name string) error
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type UserUseCase interface {
	Get(ctx context.Context, id uint) (*entity.User, error)
	List(limit, offset int) ([]*entity.User, error)
	AdminCreate(actor entity.Identity, email, password, name string, role entity.UserRole) (*entity.User, error)
	Update(ctx context.Context, actor entity.Identity, id uint, input UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, actor entity.Identity, id uint) error
	SetAvatar(ctx context.Context, actor entity.Identity, id uint, src io.Reader, contentType, filename string) (*entity.User, error)
}

type userUseCase struct {
	userRepo persistent.UserRepository
	avatars  AvatarStore
	cache    *cache.Client
	logger   *logger.Logger
}

func NewUserUseCase(userRepo persistent.UserRepository, avatars AvatarStore, cacheClient *cache.Client, logger *logger.Logger) UserUseCase {
	return &userUseCase{
		userRepo: userRepo,
		avatars:  avatars,
		cache:    cacheClient,
		logger:   logger,
	}
}

func (uc *userUseCase) Get(ctx context.Context, id uint) (*entity.User, error) {
	var cached entity.User
	if uc.cache.GetUser(ctx, id, &cached) {
		return &cached, nil
	}

	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to fetch user", err)
	}

	user.Password = ""
	uc.cache.SetUser(ctx, id, user)
	return user, nil
}

func (uc *userUseCase) List(limit, offset int) ([]*entity.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := uc.userRepo.List(limit, offset)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// AdminCreate may assign any role. The route is admin-gated; the check
// here is defense in depth for non-HTTP callers.
func (uc *userUseCase) AdminCreate(actor entity.Identity, email, password, name string, role entity.UserRole) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("admin privileges required")
	}

	if err := validateCredentials(password, password, name); err != nil {
		return nil, err
	}
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("invalid user data",
			apperr.FieldError{Field: "role", Message: "must be USER or ADMIN"})
	}

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, apperr.Conflict("email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, apperr.Internal("failed to create user", err)
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashed),
		Role:     role,
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

func (uc *userUseCase) Update(ctx context.Context, actor entity.Identity, id uint, input UpdateUserInput) (*entity.User, error) {
	if !actor.CanManage(id) {
		return nil, apperr.Forbidden("you may only modify your own account")
	}

	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to fetch user", err)
	}

	if input.Name != nil {
		if len(*input.Name) < 2 {
			return nil, apperr.Validation("invalid user data",
				apperr.FieldError{Field: "name", Message: "must be at least 2 characters"})
		}
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		if existing, err := uc.userRepo.GetByEmail(*input.Email); err == nil && existing.ID != id {
			return nil, apperr.Conflict("email already registered")
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, apperr.Validation("invalid user data",
				apperr.FieldError{Field: "password", Message: "must be at least 6 characters"})
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.logger.Error("Failed to hash password: %v", err)
			return nil, apperr.Internal("failed to update user", err)
		}
		user.Password = string(hashed)
	}

	if err := uc.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		uc.logger.Error("Failed to update user: %v", err)
		return nil, apperr.Internal("failed to update user", err)
	}

	uc.cache.InvalidateUser(ctx, id)
	user.Password = ""
	return user, nil
}

func (uc *userUseCase) Delete(ctx context.Context, actor entity.Identity, id uint) error {
	if !actor.CanManage(id) {
		return apperr.Forbidden("you may only delete your own account")
	}

	if err := uc.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user not found")
		}
		uc.logger.Error("Failed to delete user: %v", err)
		return apperr.Internal("failed to delete user", err)
	}

	uc.cache.InvalidateUser(ctx, id)
	return nil
}

// SetAvatar requires the target record to exist before any byte is
// streamed; there is no placeholder-owner upload path.
func (uc *userUseCase) SetAvatar(ctx context.Context, actor entity.Identity, id uint, src io.Reader, contentType, filename string) (*entity.User, error) {
	if !actor.CanManage(id) {
		return nil, apperr.Forbidden("you may only change your own avatar")
	}

	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to fetch user", err)
	}

	stored, err := uc.avatars.Save(src, contentType, filename, id)
	if err != nil {
		return nil, err
	}

	previous := user.AvatarURL
	user.AvatarURL = stored.URL
	if err := uc.userRepo.Update(user); err != nil {
		if rmErr := uc.avatars.Remove(stored.Name); rmErr != nil {
			uc.logger.Error("Failed to remove orphaned avatar %s: %v", stored.Name, rmErr)
		}
		uc.logger.Error("Failed to update user avatar: %v", err)
		return nil, apperr.Internal("failed to update user", err)
	}

	if previous != "" {
		if rmErr := uc.avatars.Remove(path.Base(previous)); rmErr != nil {
			uc.logger.Warn("Failed to remove previous avatar %s: %v", previous, rmErr)
		}
	}

	uc.cache.InvalidateUser(ctx, id)
	user.Password = ""
	return user, nil
}
