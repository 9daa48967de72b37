package repository

import (
	"context"
	"errors"

	"campus-events/internal/model"
	apperrors "campus-events/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepository interface {
	// FindRole 沒有角色紀錄時回傳 student
	FindRole(ctx context.Context, attendeeID string) (model.Role, error)
}

type RoleRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &RoleRepositoryImpl{
		pool: pool,
	}
}

func (r *RoleRepositoryImpl) FindRole(ctx context.Context, attendeeID string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx, `SELECT role FROM roles WHERE attendee_id = $1`, attendeeID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RoleStudent, nil
		}
		return model.RoleStudent, apperrors.Persistence(err)
	}
	if !role.IsValid() {
		return model.RoleStudent, nil
	}
	return role, nil
}
