package repository

import (
	"context"
	"errors"

	"campus-events/internal/model"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	// List 依日期、時間排序回傳所有活動
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// Delete 刪除活動及其報名紀錄
	Delete(ctx context.Context, id uuid.UUID) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, date_iso, time_of_day, venue, description, tags, capacity, created_by, created_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Description,
		&event.Tags,
		&event.Capacity,
		&event.CreatedBy,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (id, title, date_iso, time_of_day, venue, description, tags, capacity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Date, event.Time, event.Venue,
		event.Description, tags, event.Capacity, event.CreatedBy, event.CreatedAt,
	))
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY date_iso, time_of_day, created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence(err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Persistence(err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// registrations 透過 ON DELETE CASCADE 一併刪除
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return apperrors.Persistence(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
