package service_test

import (
	"context"
	"errors"
	"testing"

	"campus-events/internal/model"
	repoMocks "campus-events/internal/repository/mocks"
	"campus-events/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{ID: "u1", Name: "Ada", Email: "ada@example.edu"}

	t.Run("Success - organizer", func(t *testing.T) {
		roles := repoMocks.NewRoleRepositoryMock(t)
		roles.On("FindRole", ctx, "u1").Return(model.RoleOrganizer, nil).Once()

		user := service.NewUserService(roles).Resolve(ctx, identity)

		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, model.RoleOrganizer, user.Role)
	})

	t.Run("Fallback - read failure yields student", func(t *testing.T) {
		roles := repoMocks.NewRoleRepositoryMock(t)
		roles.On("FindRole", ctx, "u1").Return(model.RoleStudent, errors.New("connection refused")).Once()

		user := service.NewUserService(roles).Resolve(ctx, identity)

		require.NotNil(t, user)
		assert.Equal(t, model.RoleStudent, user.Role)
	})

	t.Run("Fallback - unknown role yields student", func(t *testing.T) {
		roles := repoMocks.NewRoleRepositoryMock(t)
		roles.On("FindRole", ctx, "u1").Return(model.Role("superuser"), nil).Once()

		user := service.NewUserService(roles).Resolve(ctx, identity)

		assert.Equal(t, model.RoleStudent, user.Role)
	})

	t.Run("Anonymous identity", func(t *testing.T) {
		roles := repoMocks.NewRoleRepositoryMock(t)

		assert.Nil(t, service.NewUserService(roles).Resolve(ctx, model.Identity{}))
		roles.AssertNotCalled(t, "FindRole")
	})
}
