package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gatehouse/gatectl/internal/models"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	args := m.Called(ctx, email, password)
	result, _ := args.Get(0).(models.LoginResult)
	return result, args.Error(1)
}

func (m *MockAuthenticator) MFALogin(ctx context.Context, tempToken, code string) (string, error) {
	args := m.Called(ctx, tempToken, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) CurrentUser(ctx context.Context, token string) (*models.Principal, error) {
	args := m.Called(ctx, token)
	principal, _ := args.Get(0).(*models.Principal)
	return principal, args.Error(1)
}
