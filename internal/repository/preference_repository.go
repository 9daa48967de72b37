package repository

import (
	"context"
	"errors"

	apperrors "campus-events/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepository interface {
	// Get 回傳參加者的標籤偏好，found 為 false 代表尚未設定
	Get(ctx context.Context, attendeeID string) (tags []string, found bool, err error)
	Save(ctx context.Context, attendeeID string, tags []string) error
}

type PreferenceRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) PreferenceRepository {
	return &PreferenceRepositoryImpl{
		pool: pool,
	}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, attendeeID string) ([]string, bool, error) {
	var tags []string
	err := r.pool.QueryRow(ctx, `SELECT tags FROM tag_preferences WHERE attendee_id = $1`, attendeeID).Scan(&tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperrors.Persistence(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, true, nil
}

func (r *PreferenceRepositoryImpl) Save(ctx context.Context, attendeeID string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	query := `
		INSERT INTO tag_preferences (attendee_id, tags, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (attendee_id) DO UPDATE
		SET tags = EXCLUDED.tags, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, attendeeID, tags); err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}
