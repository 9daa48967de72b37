package service

import (
	"context"
	"time"

	"campus-events/internal/cache"
	"campus-events/internal/discovery"
	"campus-events/internal/feed"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	apperrors "campus-events/pkg/app_errors"
	"campus-events/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	// Discover 套用標籤、搜尋與時間篩選，Now 與 Grace 未指定時使用服務設定
	Discover(ctx context.Context, criteria discovery.Criteria) ([]*model.Event, error)
	Create(ctx context.Context, user *model.User, draft model.EventDraft) (*model.Event, error)
	Delete(ctx context.Context, user *model.User, eventID uuid.UUID) error
	// ListMine 主辦方自己建立的活動，包含已結束的
	ListMine(ctx context.Context, user *model.User) ([]*model.Event, error)
}

type EventServiceImpl struct {
	repo          repository.EventRepository
	registrations repository.RegistrationRepository
	membership    cache.MembershipCache
	feed          feed.EventFeed
	grace         time.Duration
	now           func() time.Time
}

// NewEventService membership 可為 nil (本機模式沒有快取)
func NewEventService(
	repo repository.EventRepository,
	registrations repository.RegistrationRepository,
	membership cache.MembershipCache,
	eventFeed feed.EventFeed,
	grace time.Duration,
) EventService {
	return &EventServiceImpl{
		repo:          repo,
		registrations: registrations,
		membership:    membership,
		feed:          eventFeed,
		grace:         grace,
		now:           time.Now,
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByID(ctx, eventID)
}

func (s *EventServiceImpl) Discover(ctx context.Context, criteria discovery.Criteria) ([]*model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if criteria.Now.IsZero() {
		criteria.Now = s.now()
	}
	if criteria.Grace <= 0 {
		criteria.Grace = s.grace
	}
	return discovery.Filter(events, criteria), nil
}

func (s *EventServiceImpl) Create(ctx context.Context, user *model.User, draft model.EventDraft) (*model.Event, error) {
	if err := requireOrganizer(user); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	event := draft.ToEvent(user.ID)
	event.ID = uuid.New()
	event.CreatedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, feed.NewChange(feed.ChangeCreated, created.ID))
	return created, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, user *model.User, eventID uuid.UUID) error {
	if err := requireOrganizer(user); err != nil {
		return err
	}

	// 先取得報名者，刪除後才能清除他們的快取
	var attendees []string
	if s.membership != nil {
		regs, err := s.registrations.ListByEvent(ctx, eventID)
		if err != nil {
			// 快取仍會在 TTL 後過期
			logger.WithComponent("service").Warn("list attendees for cache eviction failed",
				zap.String("event_id", eventID.String()),
				zap.Error(err),
			)
		}
		for _, reg := range regs {
			attendees = append(attendees, reg.AttendeeID)
		}
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	if len(attendees) > 0 {
		if err := s.membership.Evict(ctx, attendees...); err != nil {
			logger.WithComponent("service").Warn("evict membership cache failed",
				zap.String("event_id", eventID.String()),
				zap.Error(err),
			)
		}
	}

	s.publish(ctx, feed.NewChange(feed.ChangeDeleted, eventID))
	return nil
}

func (s *EventServiceImpl) ListMine(ctx context.Context, user *model.User) ([]*model.Event, error) {
	if err := requireOrganizer(user); err != nil {
		return nil, err
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([]*model.Event, 0)
	for _, e := range events {
		if e.CreatedBy == user.ID {
			mine = append(mine, e)
		}
	}
	discovery.Sort(mine)
	return mine, nil
}

// publish 資料已寫入，通知失敗只記錄，訂閱者下次變更時仍會拿到完整清單
func (s *EventServiceImpl) publish(ctx context.Context, change feed.Change) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, change); err != nil {
		logger.WithComponent("service").Warn("publish event change failed",
			zap.String("kind", string(change.Kind)),
			zap.String("event_id", change.EventID.String()),
			zap.Error(err),
		)
	}
}

func requireAuth(user *model.User) error {
	if user == nil {
		return apperrors.ErrAuthRequired
	}
	return nil
}

func requireOrganizer(user *model.User) error {
	if err := requireAuth(user); err != nil {
		return err
	}
	if !user.IsOrganizer() {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
