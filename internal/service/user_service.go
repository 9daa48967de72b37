package service

import (
	"context"

	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/pkg/logger"

	"go.uber.org/zap"
)

type UserService interface {
	// Resolve 將外部身分補上角色，讀取失敗時降級為 student
	Resolve(ctx context.Context, identity model.Identity) *model.User
}

type UserServiceImpl struct {
	roles repository.RoleRepository
}

func NewUserService(roles repository.RoleRepository) UserService {
	return &UserServiceImpl{roles: roles}
}

func (s *UserServiceImpl) Resolve(ctx context.Context, identity model.Identity) *model.User {
	if identity.ID == "" {
		return nil
	}

	role, err := s.roles.FindRole(ctx, identity.ID)
	if err != nil || !role.IsValid() {
		logger.WithComponent("service").Warn("resolve role failed, falling back to student",
			zap.String("attendee_id", identity.ID),
			zap.Error(err),
		)
		role = model.RoleStudent
	}

	return &model.User{
		ID:    identity.ID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  role,
	}
}
