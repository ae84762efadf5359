package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// ResourceStore is a testify mock for model.ResourceStore.
type ResourceStore struct {
	mock.Mock
}

func NewResourceStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ResourceStore {
	m := &ResourceStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ResourceStore) Create(ctx context.Context, resource model.Resource) (model.Resource, error) {
	ret := _m.Called(ctx, resource)
	return ret.Get(0).(model.Resource), ret.Error(1)
}

func (_m *ResourceStore) GetByID(ctx context.Context, id uuid.UUID) (model.Resource, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Resource), ret.Error(1)
}

func (_m *ResourceStore) List(ctx context.Context) ([]model.Resource, error) {
	ret := _m.Called(ctx)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]model.Resource), ret.Error(1)
}

func (_m *ResourceStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Resource, error) {
	ret := _m.Called(ctx, ownerID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]model.Resource), ret.Error(1)
}

func (_m *ResourceStore) AddRating(ctx context.Context, resourceID uuid.UUID, rating model.Rating) (model.Resource, error) {
	ret := _m.Called(ctx, resourceID, rating)
	return ret.Get(0).(model.Resource), ret.Error(1)
}

func (_m *ResourceStore) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *ResourceStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
