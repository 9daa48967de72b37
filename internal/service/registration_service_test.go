package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cacheMocks "campus-events/internal/cache/mocks"
	"campus-events/internal/model"
	repoMocks "campus-events/internal/repository/mocks"
	"campus-events/internal/service"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRegistrationServiceMocks(t *testing.T) (
	*repoMocks.EventRepositoryMock,
	*repoMocks.RegistrationRepositoryMock,
	*cacheMocks.MembershipCacheMock,
) {
	return repoMocks.NewEventRepositoryMock(t),
		repoMocks.NewRegistrationRepositoryMock(t),
		cacheMocks.NewMembershipCacheMock(t)
}

func echoRegistration(ctx context.Context, reg *model.Registration) *model.Registration {
	return reg
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()
	event := newEvent("e1", "2025-09-05", "14:00", 2)

	t.Run("Success", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, &sequenceCodes{codes: []string{"ABCD1234"}})

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("Register", ctx, mock.MatchedBy(func(r *model.Registration) bool {
			return r.EventID == event.ID && r.AttendeeID == student.ID && r.Name == "Ada" &&
				r.Email == student.Email && r.TicketCode == "ABCD1234" && !r.RegisteredAt.IsZero()
		})).Return(echoRegistration, nil).Once()
		membership.On("Add", ctx, student.ID, event.ID).Return(nil).Once()

		reg, err := svc.Register(ctx, student, event.ID)

		require.NoError(t, err)
		assert.Equal(t, "ABCD1234", reg.TicketCode)
	})

	t.Run("Success - anonymous display name", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, &sequenceCodes{codes: []string{"ABCD1234"}})
		nameless := &model.User{ID: "u9", Role: model.RoleStudent}

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("Register", ctx, mock.MatchedBy(func(r *model.Registration) bool {
			return r.Name == "Anonymous"
		})).Return(echoRegistration, nil).Once()

		_, err := svc.Register(ctx, nameless, event.ID)

		require.NoError(t, err)
	})

	t.Run("Success - cache failure is ignored", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, &sequenceCodes{codes: []string{"ABCD1234"}})

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("Register", ctx, mock.Anything).Return(echoRegistration, nil).Once()
		membership.On("Add", ctx, student.ID, event.ID).Return(errors.New("redis down")).Once()

		_, err := svc.Register(ctx, student, event.ID)

		require.NoError(t, err)
	})

	t.Run("Retry - regenerates on collision", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		codes := &sequenceCodes{codes: []string{"TAKEN001", "TAKEN002", "FREE0003"}}
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, codes)

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("Register", ctx, mock.MatchedBy(func(r *model.Registration) bool {
			return strings.HasPrefix(r.TicketCode, "TAKEN")
		})).Return(nil, apperrors.ErrTicketCodeCollision).Twice()
		regRepo.On("Register", ctx, mock.MatchedBy(func(r *model.Registration) bool {
			return r.TicketCode == "FREE0003"
		})).Return(echoRegistration, nil).Once()

		reg, err := svc.Register(ctx, student, event.ID)

		require.NoError(t, err)
		assert.Equal(t, "FREE0003", reg.TicketCode)
		assert.Equal(t, 3, codes.calls)
	})

	t.Run("Failed - collision attempts exhausted", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		codes := &sequenceCodes{codes: []string{"TAKEN001"}}
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, codes)

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("Register", ctx, mock.Anything).Return(nil, apperrors.ErrTicketCodeCollision).Times(3)

		_, err := svc.Register(ctx, student, event.ID)

		assert.ErrorIs(t, err, apperrors.ErrTicketCodeCollision)
		assert.Equal(t, 3, codes.calls)
	})

	t.Run("Failed - anonymous", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, &sequenceCodes{codes: []string{"X"}})

		_, err := svc.Register(ctx, nil, event.ID)

		assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
		eventRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("Failed - event not found", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, &sequenceCodes{codes: []string{"X"}})
		missing := uuid.New()

		eventRepo.On("FindByID", ctx, missing).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := svc.Register(ctx, student, missing)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		regRepo.AssertNotCalled(t, "Register")
	})

	for _, want := range []error{apperrors.ErrDuplicateRegistration, apperrors.ErrCapacityExceeded} {
		t.Run("Failed - "+want.Error(), func(t *testing.T) {
			eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
			svc := service.NewRegistrationService(eventRepo, regRepo, membership, &sequenceCodes{codes: []string{"ABCD1234"}})

			eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
			regRepo.On("Register", ctx, mock.Anything).Return(nil, want).Once()

			_, err := svc.Register(ctx, student, event.ID)

			assert.ErrorIs(t, err, want)
			membership.AssertNotCalled(t, "Add")
		})
	}
}

func TestRegistrationService_RegisteredEventIDs(t *testing.T) {
	ctx := context.Background()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("Cache hit", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, nil)

		membership.On("Members", ctx, student.ID).Return(ids, true, nil).Once()

		assert.Equal(t, ids, svc.RegisteredEventIDs(ctx, student))
		regRepo.AssertNotCalled(t, "EventIDsForAttendee")
	})

	t.Run("Cache miss warms", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, nil)

		membership.On("Members", ctx, student.ID).Return(nil, false, nil).Once()
		regRepo.On("EventIDsForAttendee", ctx, student.ID).Return(ids, nil).Once()
		membership.On("Warm", ctx, student.ID, ids).Return(nil).Once()

		assert.Equal(t, ids, svc.RegisteredEventIDs(ctx, student))
	})

	t.Run("Read failure yields empty set", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, nil)

		regRepo.On("EventIDsForAttendee", ctx, student.ID).Return(nil, apperrors.Persistence(errors.New("timeout"))).Once()

		got := svc.RegisteredEventIDs(ctx, student)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Anonymous", func(t *testing.T) {
		eventRepo, regRepo, membership := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, membership, nil)

		assert.Empty(t, svc.RegisteredEventIDs(ctx, nil))
	})
}

func TestRegistrationService_Tickets(t *testing.T) {
	ctx := context.Background()
	eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
	svc := service.NewRegistrationService(eventRepo, regRepo, nil, nil)

	later := newEvent("Later", "2025-10-01", "10:00", 0)
	sooner := newEvent("Sooner", "2025-09-01", "10:00", 0)
	gone := uuid.New()
	regRepo.On("ListByAttendee", ctx, student.ID).Return([]*model.Registration{
		{EventID: later.ID, AttendeeID: student.ID, TicketCode: "LATER001"},
		{EventID: gone, AttendeeID: student.ID, TicketCode: "GONE0001"},
		{EventID: sooner.ID, AttendeeID: student.ID, TicketCode: "SOON0001"},
	}, nil).Once()
	eventRepo.On("List", ctx).Return([]*model.Event{later, sooner}, nil).Once()

	tickets, err := svc.Tickets(ctx, student)

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "SOON0001", tickets[0].Registration.TicketCode)
	assert.Equal(t, "LATER001", tickets[1].Registration.TicketCode)

	_, err = svc.Tickets(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrAuthRequired)
}

func TestRegistrationService_ExportAttendees(t *testing.T) {
	ctx := context.Background()
	event := newEvent("Spring Fair: 2025!", "2025-09-05", "14:00", 0)

	t.Run("Success", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, nil)
		at := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("ListByEvent", ctx, event.ID).Return([]*model.Registration{
			{EventID: event.ID, AttendeeID: "u1", Name: "Ada", Email: "ada@example.edu", RegisteredAt: at},
		}, nil).Once()

		filename, body, err := svc.ExportAttendees(ctx, organizer, event.ID)

		require.NoError(t, err)
		assert.Equal(t, "Spring_Fair_2025_.csv", filename)
		assert.Equal(t, "\"Name\",\"Email\",\"UID\",\"Registered At\"\n\"Ada\",\"ada@example.edu\",\"u1\",\"2025-09-01T08:00:00Z\"", body)
	})

	t.Run("Success - no registrations", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, nil)

		eventRepo.On("FindByID", ctx, event.ID).Return(event, nil).Once()
		regRepo.On("ListByEvent", ctx, event.ID).Return([]*model.Registration{}, nil).Once()

		_, body, err := svc.ExportAttendees(ctx, organizer, event.ID)

		require.NoError(t, err)
		assert.Equal(t, "\"Name\",\"Email\",\"UID\",\"Registered At\"", body)
	})

	t.Run("Failed - student", func(t *testing.T) {
		eventRepo, regRepo, _ := setupRegistrationServiceMocks(t)
		svc := service.NewRegistrationService(eventRepo, regRepo, nil, nil)

		_, _, err := svc.ExportAttendees(ctx, student, event.ID)

		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}
