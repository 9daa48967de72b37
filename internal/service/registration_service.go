package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"campus-events/internal/cache"
	"campus-events/internal/export"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/internal/ticket"
	apperrors "campus-events/pkg/app_errors"
	"campus-events/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// maxCodeAttempts 票券代碼碰撞時最多產生的次數 (含第一次)
	maxCodeAttempts = 3

	TicketsFilename = "my_tickets.csv"
)

type RegistrationService interface {
	Register(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Registration, error)
	// RegisteredEventIDs 讀取失敗時回傳空集合
	RegisteredEventIDs(ctx context.Context, user *model.User) []uuid.UUID
	// Tickets 使用者的票券，活動已刪除的報名會被略過
	Tickets(ctx context.Context, user *model.User) ([]*model.Ticket, error)
	Attendees(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Event, []*model.Registration, error)
	// ExportAttendees 回傳檔名與 CSV 內容
	ExportAttendees(ctx context.Context, user *model.User, eventID uuid.UUID) (string, string, error)
	ExportTickets(ctx context.Context, user *model.User) (string, string, error)
}

type RegistrationServiceImpl struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	membership    cache.MembershipCache
	codes         ticket.CodeGenerator
	now           func() time.Time
}

// NewRegistrationService membership 可為 nil (本機模式沒有快取)
func NewRegistrationService(
	events repository.EventRepository,
	registrations repository.RegistrationRepository,
	membership cache.MembershipCache,
	codes ticket.CodeGenerator,
) RegistrationService {
	return &RegistrationServiceImpl{
		events:        events,
		registrations: registrations,
		membership:    membership,
		codes:         codes,
		now:           time.Now,
	}
}

/*
Register 報名流程:
 1. 必須登入
 2. 確認活動存在
 3. 產生票券代碼並寫入，重複與人數上限由儲存層原子檢查
 4. 代碼碰撞時重新產生，這是唯一的自動重試
 5. 成功後更新快取 (失敗只記錄)
*/
func (s *RegistrationServiceImpl) Register(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Registration, error) {
	if err := requireAuth(user); err != nil {
		return nil, err
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrInternalServerError, err)
		}

		reg := &model.Registration{
			EventID:      eventID,
			AttendeeID:   user.ID,
			Name:         user.DisplayName(),
			Email:        user.Email,
			TicketCode:   code,
			RegisteredAt: s.now().UTC(),
		}

		created, err := s.registrations.Register(ctx, reg)
		if errors.Is(err, apperrors.ErrTicketCodeCollision) {
			logger.WithComponent("service").Warn("ticket code collision, regenerating",
				zap.String("event_id", eventID.String()),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		if s.membership != nil {
			if err := s.membership.Add(ctx, user.ID, eventID); err != nil {
				logger.WithComponent("service").Warn("update membership cache failed",
					zap.String("attendee_id", user.ID),
					zap.Error(err),
				)
			}
		}
		return created, nil
	}

	return nil, apperrors.ErrTicketCodeCollision
}

func (s *RegistrationServiceImpl) RegisteredEventIDs(ctx context.Context, user *model.User) []uuid.UUID {
	if user == nil {
		return []uuid.UUID{}
	}
	log := logger.WithComponent("service").With(zap.String("attendee_id", user.ID))

	if s.membership != nil {
		ids, hit, err := s.membership.Members(ctx, user.ID)
		if err != nil {
			log.Warn("read membership cache failed", zap.Error(err))
		}
		if hit {
			return ids
		}
	}

	ids, err := s.registrations.EventIDsForAttendee(ctx, user.ID)
	if err != nil {
		log.Warn("load registrations failed, using empty set", zap.Error(err))
		return []uuid.UUID{}
	}

	if s.membership != nil {
		if err := s.membership.Warm(ctx, user.ID, ids); err != nil {
			log.Warn("warm membership cache failed", zap.Error(err))
		}
	}
	return ids
}

func (s *RegistrationServiceImpl) Tickets(ctx context.Context, user *model.User) ([]*model.Ticket, error) {
	if err := requireAuth(user); err != nil {
		return nil, err
	}

	regs, err := s.registrations.ListByAttendee(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return []*model.Ticket{}, nil
	}

	events, err := s.events.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	tickets := make([]*model.Ticket, 0, len(regs))
	for _, reg := range regs {
		event, ok := byID[reg.EventID]
		if !ok {
			continue
		}
		tickets = append(tickets, &model.Ticket{Event: event, Registration: reg})
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].Event.SortKey() < tickets[j].Event.SortKey()
	})
	return tickets, nil
}

func (s *RegistrationServiceImpl) Attendees(ctx context.Context, user *model.User, eventID uuid.UUID) (*model.Event, []*model.Registration, error) {
	if err := requireOrganizer(user); err != nil {
		return nil, nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	regs, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return event, regs, nil
}

func (s *RegistrationServiceImpl) ExportAttendees(ctx context.Context, user *model.User, eventID uuid.UUID) (string, string, error) {
	event, regs, err := s.Attendees(ctx, user, eventID)
	if err != nil {
		return "", "", err
	}
	return export.Filename(event.Title), export.Attendees(regs), nil
}

func (s *RegistrationServiceImpl) ExportTickets(ctx context.Context, user *model.User) (string, string, error) {
	tickets, err := s.Tickets(ctx, user)
	if err != nil {
		return "", "", err
	}
	return TicketsFilename, export.Tickets(tickets), nil
}
