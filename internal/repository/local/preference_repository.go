package local

import (
	"context"
	"database/sql"

	"campus-events/internal/model"
	"campus-events/internal/repository"
)

type PreferenceRepositoryImpl struct {
	store *Store
}

func NewPreferenceRepository(store *Store) repository.PreferenceRepository {
	return &PreferenceRepositoryImpl{store: store}
}

func (r *PreferenceRepositoryImpl) Get(ctx context.Context, attendeeID string) ([]string, bool, error) {
	prefs, err := read[map[string][]string](ctx, r.store.db, PreferencesKey)
	if err != nil {
		return nil, false, err
	}
	tags, ok := prefs[attendeeID]
	if !ok {
		return nil, false, nil
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, true, nil
}

func (r *PreferenceRepositoryImpl) Save(ctx context.Context, attendeeID string, tags []string) error {
	return r.store.mutate(ctx, func(tx *sql.Tx) error {
		prefs, err := read[map[string][]string](ctx, tx, PreferencesKey)
		if err != nil {
			return err
		}
		if prefs == nil {
			prefs = make(map[string][]string)
		}
		if tags == nil {
			tags = []string{}
		}
		prefs[attendeeID] = tags
		return write(ctx, tx, PreferencesKey, prefs)
	})
}

// StaticRoleRepository gives every attendee the same role. The local
// profile has no sign-in, so the single user runs both modes.
type StaticRoleRepository struct {
	Role model.Role
}

func NewStaticRoleRepository(role model.Role) repository.RoleRepository {
	return &StaticRoleRepository{Role: role}
}

func (r *StaticRoleRepository) FindRole(ctx context.Context, attendeeID string) (model.Role, error) {
	return r.Role, nil
}
