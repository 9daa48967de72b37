package local

import (
	"context"
	"database/sql"
	"sort"

	"campus-events/internal/model"
	"campus-events/internal/repository"
	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
)

type RegistrationRepositoryImpl struct {
	store *Store
}

func NewRegistrationRepository(store *Store) repository.RegistrationRepository {
	return &RegistrationRepositoryImpl{store: store}
}

func (r *RegistrationRepositoryImpl) Register(ctx context.Context, reg *model.Registration) (*model.Registration, error) {
	err := r.store.mutate(ctx, func(tx *sql.Tx) error {
		events, err := read[[]*model.Event](ctx, tx, EventsKey)
		if err != nil {
			return err
		}
		var event *model.Event
		for _, e := range events {
			if e.ID == reg.EventID {
				event = e
				break
			}
		}
		if event == nil {
			return apperrors.ErrEventNotFound
		}

		regs, err := read[[]*model.Registration](ctx, tx, RegistrationsKey)
		if err != nil {
			return err
		}

		count := 0
		for _, existing := range regs {
			if existing.TicketCode == reg.TicketCode {
				return apperrors.ErrTicketCodeCollision
			}
			if existing.EventID != reg.EventID {
				continue
			}
			if existing.AttendeeID == reg.AttendeeID {
				return apperrors.ErrDuplicateRegistration
			}
			count++
		}
		if event.HasCapacity() && count >= event.Capacity {
			return apperrors.ErrCapacityExceeded
		}

		return write(ctx, tx, RegistrationsKey, append(regs, reg))
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *RegistrationRepositoryImpl) EventIDsForAttendee(ctx context.Context, attendeeID string) ([]uuid.UUID, error) {
	regs, err := r.filter(ctx, func(reg *model.Registration) bool { return reg.AttendeeID == attendeeID })
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.EventID)
	}
	return ids, nil
}

func (r *RegistrationRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	return r.filter(ctx, func(reg *model.Registration) bool { return reg.EventID == eventID })
}

func (r *RegistrationRepositoryImpl) ListByAttendee(ctx context.Context, attendeeID string) ([]*model.Registration, error) {
	return r.filter(ctx, func(reg *model.Registration) bool { return reg.AttendeeID == attendeeID })
}

func (r *RegistrationRepositoryImpl) filter(ctx context.Context, keep func(*model.Registration) bool) ([]*model.Registration, error) {
	regs, err := read[[]*model.Registration](ctx, r.store.db, RegistrationsKey)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Registration, 0)
	for _, reg := range regs {
		if keep(reg) {
			out = append(out, reg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}
