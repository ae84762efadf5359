package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// StudyGroupStore is a testify mock for model.StudyGroupStore.
type StudyGroupStore struct {
	mock.Mock
}

func NewStudyGroupStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *StudyGroupStore {
	m := &StudyGroupStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StudyGroupStore) Create(ctx context.Context, group model.StudyGroup) (model.StudyGroup, error) {
	ret := _m.Called(ctx, group)
	return ret.Get(0).(model.StudyGroup), ret.Error(1)
}

func (_m *StudyGroupStore) GetByID(ctx context.Context, id uuid.UUID) (model.StudyGroup, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.StudyGroup), ret.Error(1)
}

func (_m *StudyGroupStore) List(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error) {
	ret := _m.Called(ctx, userID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]model.StudyGroup), ret.Error(1)
}

func (_m *StudyGroupStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]model.StudyGroup, error) {
	ret := _m.Called(ctx, userID)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]model.StudyGroup), ret.Error(1)
}

func (_m *StudyGroupStore) Join(ctx context.Context, groupID uuid.UUID, member model.Member) error {
	ret := _m.Called(ctx, groupID, member)
	return ret.Error(0)
}

func (_m *StudyGroupStore) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	ret := _m.Called(ctx, groupID, userID)
	return ret.Error(0)
}

func (_m *StudyGroupStore) AddSession(ctx context.Context, groupID uuid.UUID, session model.Session) (model.Session, error) {
	ret := _m.Called(ctx, groupID, session)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *StudyGroupStore) UpcomingSessions(ctx context.Context, userID uuid.UUID, after time.Time) ([]model.UpcomingSession, error) {
	ret := _m.Called(ctx, userID, after)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).([]model.UpcomingSession), ret.Error(1)
}

func (_m *StudyGroupStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
