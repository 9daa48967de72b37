package mocks

import (
	"context"

	"campus-events/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

// NewEventRepositoryMock 建立 mock 並在測試結束時檢查預期呼叫
func NewEventRepositoryMock(t testingT) *EventRepositoryMock {
	m := &EventRepositoryMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if fn, ok := args.Get(0).(func(context.Context, *model.Event) *model.Event); ok {
		return fn(ctx, event), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type RegistrationRepositoryMock struct {
	mock.Mock
}

// NewRegistrationRepositoryMock 建立 mock 並在測試結束時檢查預期呼叫
func NewRegistrationRepositoryMock(t testingT) *RegistrationRepositoryMock {
	m := &RegistrationRepositoryMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RegistrationRepositoryMock) Register(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, reg)
	if fn, ok := args.Get(0).(func(context.Context, *model.Registration) *model.Registration); ok {
		return fn(ctx, reg), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) EventIDsForAttendee(ctx context.Context, attendeeID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *RegistrationRepositoryMock) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) ListByAttendee(ctx context.Context, attendeeID string) ([]*model.Registration, error) {
	args := m.Called(ctx, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

type RoleRepositoryMock struct {
	mock.Mock
}

// NewRoleRepositoryMock 建立 mock 並在測試結束時檢查預期呼叫
func NewRoleRepositoryMock(t testingT) *RoleRepositoryMock {
	m := &RoleRepositoryMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RoleRepositoryMock) FindRole(ctx context.Context, attendeeID string) (model.Role, error) {
	args := m.Called(ctx, attendeeID)
	return args.Get(0).(model.Role), args.Error(1)
}

type PreferenceRepositoryMock struct {
	mock.Mock
}

// NewPreferenceRepositoryMock 建立 mock 並在測試結束時檢查預期呼叫
func NewPreferenceRepositoryMock(t testingT) *PreferenceRepositoryMock {
	m := &PreferenceRepositoryMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PreferenceRepositoryMock) Get(ctx context.Context, attendeeID string) ([]string, bool, error) {
	args := m.Called(ctx, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *PreferenceRepositoryMock) Save(ctx context.Context, attendeeID string, tags []string) error {
	args := m.Called(ctx, attendeeID, tags)
	return args.Error(0)
}
