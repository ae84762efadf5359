package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// TokenManager is a testify mock for model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenManager {
	m := &TokenManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *TokenManager) Generate(userID uuid.UUID, role model.Role) (string, error) {
	ret := _m.Called(userID, role)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenManager) Parse(token string) (uuid.UUID, model.Role, error) {
	ret := _m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Get(1).(model.Role), ret.Error(2)
}
