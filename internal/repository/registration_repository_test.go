package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"campus-events/internal/model"
	"campus-events/internal/repository"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Register(t *testing.T) {
	repo := repository.NewRegistrationRepository(getTestDB(t))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		setupTestWithTruncate(t)
		event := createTestEvent(t, "Hack Night", "2025-09-05", "14:00", 0)

		created, err := repo.Register(ctx, newRegistration(event.ID, "u1", "AAAA0001"))

		require.NoError(t, err)
		assert.Equal(t, event.ID, created.EventID)
		assert.Equal(t, "AAAA0001", created.TicketCode)
		assert.NotZero(t, created.RegisteredAt)
	})

	t.Run("Failed - Duplicate", func(t *testing.T) {
		setupTestWithTruncate(t)
		event := createTestEvent(t, "Hack Night", "2025-09-05", "14:00", 0)
		_, err := repo.Register(ctx, newRegistration(event.ID, "u1", "AAAA0001"))
		require.NoError(t, err)

		_, err = repo.Register(ctx, newRegistration(event.ID, "u1", "AAAA0002"))

		assert.ErrorIs(t, err, apperrors.ErrDuplicateRegistration)
		regs, err := repo.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
	})

	t.Run("Failed - CapacityExceeded", func(t *testing.T) {
		setupTestWithTruncate(t)
		event := createTestEvent(t, "e1", "2025-09-05", "14:00", 2)

		_, err := repo.Register(ctx, newRegistration(event.ID, "u1", "CAP00001"))
		require.NoError(t, err)
		_, err = repo.Register(ctx, newRegistration(event.ID, "u2", "CAP00002"))
		require.NoError(t, err)
		_, err = repo.Register(ctx, newRegistration(event.ID, "u3", "CAP00003"))

		assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	})

	t.Run("Failed - TicketCodeCollision", func(t *testing.T) {
		setupTestWithTruncate(t)
		event := createTestEvent(t, "Hack Night", "2025-09-05", "14:00", 0)
		_, err := repo.Register(ctx, newRegistration(event.ID, "u1", "SAMECODE"))
		require.NoError(t, err)

		_, err = repo.Register(ctx, newRegistration(event.ID, "u2", "SAMECODE"))

		assert.ErrorIs(t, err, apperrors.ErrTicketCodeCollision)
	})

	t.Run("Failed - EventNotFound", func(t *testing.T) {
		setupTestWithTruncate(t)

		_, err := repo.Register(ctx, newRegistration(uuid.New(), "u1", "NOEVENT1"))

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestRegistrationRepository_Register_Concurrent(t *testing.T) {
	repo := repository.NewRegistrationRepository(getTestDB(t))
	ctx := context.Background()
	setupTestWithTruncate(t)

	const capacity = 5
	const attempts = 20
	event := createTestEvent(t, "Popular", "2025-09-05", "14:00", capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, exceeded := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Register(ctx, newRegistration(event.ID, fmt.Sprintf("u%d", i), fmt.Sprintf("CONC%04d", i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded):
				exceeded++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, success)
	assert.Equal(t, attempts-capacity, exceeded)
}

func TestRegistrationRepository_Reads(t *testing.T) {
	repo := repository.NewRegistrationRepository(getTestDB(t))
	ctx := context.Background()
	setupTestWithTruncate(t)

	a := createTestEvent(t, "A", "2025-09-05", "10:00", 0)
	b := createTestEvent(t, "B", "2025-09-06", "10:00", 0)
	for _, reg := range []*model.Registration{
		newRegistration(a.ID, "u1", "READ0001"),
		newRegistration(b.ID, "u1", "READ0002"),
		newRegistration(a.ID, "u2", "READ0003"),
	} {
		_, err := repo.Register(ctx, reg)
		require.NoError(t, err)
	}

	ids, err := repo.EventIDsForAttendee(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)

	regs, err := repo.ListByEvent(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.ElementsMatch(t, []string{"u1", "u2"}, []string{regs[0].AttendeeID, regs[1].AttendeeID})

	mine, err := repo.ListByAttendee(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "READ0003", mine[0].TicketCode)

	none, err := repo.EventIDsForAttendee(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRoleRepository_FindRole(t *testing.T) {
	repo := repository.NewRoleRepository(getTestDB(t))
	ctx := context.Background()
	setupTestWithTruncate(t)

	_, err := getTestDB(t).Exec(ctx, `INSERT INTO roles (attendee_id, role) VALUES ('boss', 'organizer'), ('root', 'admin')`)
	require.NoError(t, err)

	role, err := repo.FindRole(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, role)

	role, err = repo.FindRole(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	role, err = repo.FindRole(ctx, "someone")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, role)
}

func TestPreferenceRepository(t *testing.T) {
	repo := repository.NewPreferenceRepository(getTestDB(t))
	ctx := context.Background()
	setupTestWithTruncate(t)

	_, found, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Save(ctx, "u1", []string{"art"}))
	require.NoError(t, repo.Save(ctx, "u1", []string{"art", "sports"}))

	tags, found, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"art", "sports"}, tags)

	require.NoError(t, repo.Save(ctx, "u1", nil))
	tags, found, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, tags)
}
