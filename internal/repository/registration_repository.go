package repository

import (
	"context"
	"errors"

	"campus-events/internal/model"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"

	registrationPKey       = "registrations_pkey"
	registrationTicketCode = "registrations_ticket_code_key"
)

type RegistrationRepository interface {
	// Register 原子地檢查重複報名與人數上限後寫入
	Register(ctx context.Context, reg *model.Registration) (*model.Registration, error)
	EventIDsForAttendee(ctx context.Context, attendeeID string) ([]uuid.UUID, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error)
	ListByAttendee(ctx context.Context, attendeeID string) ([]*model.Registration, error)
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

const registrationColumns = `event_id, attendee_id, name, email, ticket_code, registered_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.EventID,
		&reg.AttendeeID,
		&reg.Name,
		&reg.Email,
		&reg.TicketCode,
		&reg.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

/*
Register 在同一個 transaction 內:
 1. 鎖定活動列 (FOR UPDATE)，同活動的報名依序執行
 2. 檢查是否已報名
 3. 檢查人數上限
 4. 寫入，唯一索引作為最後防線
*/
func (r *RegistrationRepositoryImpl) Register(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	defer tx.Rollback(ctx)

	var capacity int
	err = tx.QueryRow(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Persistence(err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE event_id = $1 AND attendee_id = $2)`,
		reg.EventID, reg.AttendeeID,
	).Scan(&exists)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateRegistration
	}

	if capacity > 0 {
		var count int
		err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, reg.EventID).Scan(&count)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		if count >= capacity {
			return nil, apperrors.ErrCapacityExceeded
		}
	}

	query := `
		INSERT INTO registrations (event_id, attendee_id, name, email, ticket_code, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + registrationColumns

	created, err := scanRegistration(tx.QueryRow(ctx, query,
		reg.EventID, reg.AttendeeID, reg.Name, reg.Email, reg.TicketCode, reg.RegisteredAt,
	))
	if err != nil {
		return nil, mapRegistrationError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.Persistence(err)
	}

	return created, nil
}

func mapRegistrationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case registrationPKey:
			return apperrors.ErrDuplicateRegistration
		case registrationTicketCode:
			return apperrors.ErrTicketCodeCollision
		}
	}
	return apperrors.Persistence(err)
}

func (r *RegistrationRepositoryImpl) EventIDsForAttendee(ctx context.Context, attendeeID string) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT event_id FROM registrations WHERE attendee_id = $1`, attendeeID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Persistence(err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err)
	}

	return ids, nil
}

func (r *RegistrationRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY registered_at, attendee_id
	`
	return r.list(ctx, query, eventID)
}

func (r *RegistrationRepositoryImpl) ListByAttendee(ctx context.Context, attendeeID string) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE attendee_id = $1
		ORDER BY registered_at
	`
	return r.list(ctx, query, attendeeID)
}

func (r *RegistrationRepositoryImpl) list(ctx context.Context, query string, arg any) ([]*model.Registration, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	defer rows.Close()

	regs := make([]*model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err)
	}

	return regs, nil
}
