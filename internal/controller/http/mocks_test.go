package http

import (
	"context"
	"io"

	"inkwell/internal/entity"
	"inkwell/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(email, password, confirmPassword, name string) (*entity.User, error) {
	args := m.Called(email, password, confirmPassword, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(email, password string) (*entity.User, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

// MockUserUseCase is a mock implementation of usecase.UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Get(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) List(limit, offset int) ([]*entity.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserUseCase) AdminCreate(actor entity.Identity, email, password, name string, role entity.UserRole) (*entity.User, error) {
	args := m.Called(actor, email, password, name, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Update(ctx context.Context, actor entity.Identity, id uint, input usecase.UpdateUserInput) (*entity.User, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) Delete(ctx context.Context, actor entity.Identity, id uint) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockUserUseCase) SetAvatar(ctx context.Context, actor entity.Identity, id uint, src io.Reader, contentType, filename string) (*entity.User, error) {
	args := m.Called(ctx, actor, id, src, contentType, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ usecase.UserUseCase = (*MockUserUseCase)(nil)
