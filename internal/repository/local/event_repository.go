package local

import (
	"context"
	"database/sql"

	"campus-events/internal/discovery"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
)

type EventRepositoryImpl struct {
	store *Store
}

func NewEventRepository(store *Store) repository.EventRepository {
	return &EventRepositoryImpl{store: store}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	err := r.store.mutate(ctx, func(tx *sql.Tx) error {
		events, err := read[[]*model.Event](ctx, tx, EventsKey)
		if err != nil {
			return err
		}
		for _, e := range events {
			if e.ID == event.ID {
				return apperrors.ErrInvalidInput
			}
		}
		return write(ctx, tx, EventsKey, append(events, event))
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	events, err := read[[]*model.Event](ctx, r.store.db, EventsKey)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = make([]*model.Event, 0)
	}
	// 集合依新增順序保存，讀取時才排序
	discovery.Sort(events)
	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	events, err := read[[]*model.Event](ctx, r.store.db, EventsKey)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.mutate(ctx, func(tx *sql.Tx) error {
		events, err := read[[]*model.Event](ctx, tx, EventsKey)
		if err != nil {
			return err
		}

		kept := make([]*model.Event, 0, len(events))
		for _, e := range events {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(events) {
			return apperrors.ErrEventNotFound
		}

		regs, err := read[[]*model.Registration](ctx, tx, RegistrationsKey)
		if err != nil {
			return err
		}
		keptRegs := make([]*model.Registration, 0, len(regs))
		for _, reg := range regs {
			if reg.EventID != id {
				keptRegs = append(keptRegs, reg)
			}
		}

		if err := write(ctx, tx, EventsKey, kept); err != nil {
			return err
		}
		return write(ctx, tx, RegistrationsKey, keptRegs)
	})
}
