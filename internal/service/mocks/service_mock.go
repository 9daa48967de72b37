package mocks

import (
	"context"

	"campus-events/internal/discovery"
	"campus-events/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserServiceMock struct {
	mock.Mock
}

func NewUserServiceMock(t testingT) *UserServiceMock {
	m := &UserServiceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserServiceMock) Resolve(ctx context.Context, identity model.Identity) *model.User {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*model.User)
}

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock(t testingT) *EventServiceMock {
	m := &EventServiceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventServiceMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Discover(ctx context.Context, criteria discovery.Criteria) ([]*model.Event, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, user *model.User, draft model.EventDraft) (*model.Event, error) {
	args := m.Called(ctx, user, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Delete(ctx context.Context, user *model.User, eventID uuid.UUID) error {
	args := m.Called(ctx, user, eventID)
	return args.Error(0)
}

func (m *EventServiceMock) ListMine(ctx context.Context, user *model.User) ([]*model.Event, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

type RegistrationServiceMock struct {
	mock.Mock
}

func NewRegistrationServiceMock(t testingT) *RegistrationServiceMock {
	m := &RegistrationServiceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RegistrationServiceMock) Register(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, user, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationServiceMock) RegisteredEventIDs(ctx context.Context, user *model.User) []uuid.UUID {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]uuid.UUID)
}

func (m *RegistrationServiceMock) Tickets(ctx context.Context, user *model.User) ([]*model.Ticket, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *RegistrationServiceMock) Attendees(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Event, []*model.Registration, error) {
	args := m.Called(ctx, user, eventID)
	var event *model.Event
	if args.Get(0) != nil {
		event = args.Get(0).(*model.Event)
	}
	var regs []*model.Registration
	if args.Get(1) != nil {
		regs = args.Get(1).([]*model.Registration)
	}
	return event, regs, args.Error(2)
}

func (m *RegistrationServiceMock) ExportAttendees(ctx context.Context, user *model.User, eventID uuid.UUID) (string, string, error) {
	args := m.Called(ctx, user, eventID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *RegistrationServiceMock) ExportTickets(ctx context.Context, user *model.User) (string, string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.String(1), args.Error(2)
}

type PreferenceServiceMock struct {
	mock.Mock
}

func NewPreferenceServiceMock(t testingT) *PreferenceServiceMock {
	m := &PreferenceServiceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PreferenceServiceMock) Interests(ctx context.Context, user *model.User) []string {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *PreferenceServiceMock) Toggle(ctx context.Context, user *model.User, tag string) ([]string, error) {
	args := m.Called(ctx, user, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *PreferenceServiceMock) Set(ctx context.Context, user *model.User, tags []string) ([]string, error) {
	args := m.Called(ctx, user, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
