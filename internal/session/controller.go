// Package session 持有單一使用者的應用狀態，所有變更都經由 Controller
package session

import (
	"context"
	"sync"
	"time"

	"campus-events/internal/discovery"
	"campus-events/internal/model"
	"campus-events/internal/service"
	"campus-events/internal/worker"
	"campus-events/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeFunc 狀態更新後收到副本
type ChangeFunc func(State)

type Controller struct {
	events        service.EventService
	registrations service.RegistrationService
	preferences   service.PreferenceService
	watcher       worker.EventWatcher
	grace         time.Duration
	now           func() time.Time

	mu       sync.Mutex
	state    State
	onChange ChangeFunc
}

func NewController(
	events service.EventService,
	registrations service.RegistrationService,
	preferences service.PreferenceService,
	watcher worker.EventWatcher,
	grace time.Duration,
) *Controller {
	if grace <= 0 {
		grace = discovery.DefaultGrace
	}
	return &Controller{
		events:        events,
		registrations: registrations,
		preferences:   preferences,
		watcher:       watcher,
		grace:         grace,
		now:           time.Now,
		state: State{
			Selection:  Selection{Tags: append([]string(nil), model.DefaultInterests...)},
			Registered: map[uuid.UUID]struct{}{},
		},
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) View() View {
	return c.State().View(c.now(), c.grace)
}

// update 在鎖內修改狀態，鎖外通知訂閱者
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	next := c.state.clone()
	fn(&next)
	c.state = next
	onChange := c.onChange
	snapshot := next.clone()
	c.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}

// SignIn 設定使用者並預先載入已報名活動與興趣標籤 (皆為盡力而為)
func (c *Controller) SignIn(ctx context.Context, user *model.User) {
	registered := c.registrations.RegisteredEventIDs(ctx, user)
	interests := c.preferences.Interests(ctx, user)

	c.update(func(s *State) {
		s.User = user
		s.Registered = toSet(registered)
		s.Selection.Tags = interests
	})
	if user != nil {
		logger.WithComponent("session").Info("signed in",
			zap.String("attendee_id", user.ID),
			zap.String("role", string(user.Role)),
		)
	}
}

func (c *Controller) SignOut() {
	c.update(func(s *State) {
		s.User = nil
		s.Registered = map[uuid.UUID]struct{}{}
		s.Selection.Tags = append([]string(nil), model.DefaultInterests...)
	})
}

// Start 開始監看活動變更，onChange 會在每次狀態更新時被呼叫
func (c *Controller) Start(ctx context.Context, onChange ChangeFunc) error {
	c.mu.Lock()
	c.onChange = onChange
	c.mu.Unlock()

	return c.watcher.Watch(ctx, func(events []*model.Event) {
		c.update(func(s *State) {
			s.Events = events
		})
	})
}

func (c *Controller) Stop() {
	c.watcher.Stop()
	c.mu.Lock()
	c.onChange = nil
	c.mu.Unlock()
}

// Refresh 不經由監看，直接重新載入活動清單
func (c *Controller) Refresh(ctx context.Context) error {
	events, err := c.events.List(ctx)
	if err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Events = events
	})
	return nil
}

// ToggleTag 切換篩選標籤，已登入時一併保存為興趣
func (c *Controller) ToggleTag(ctx context.Context, tag string) error {
	user := c.State().User
	if user == nil {
		c.update(func(s *State) {
			s.Selection.Tags = model.ToggleTag(s.Selection.Tags, tag)
		})
		return nil
	}

	tags, err := c.preferences.Toggle(ctx, user, tag)
	if err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Selection.Tags = tags
	})
	return nil
}

func (c *Controller) SetSearch(query string) {
	c.update(func(s *State) {
		s.Selection.Search = query
	})
}

func (c *Controller) ShowAll(all bool) {
	c.update(func(s *State) {
		s.Selection.All = all
	})
}

// Select 一次替換篩選條件，不保存為興趣
func (c *Controller) Select(selection Selection) {
	c.update(func(s *State) {
		s.Selection = Selection{
			Tags:   model.NormalizeTags(selection.Tags),
			Search: selection.Search,
			All:    selection.All,
		}
	})
}

// Register 成功後直接加入已報名集合，不需重新讀取
func (c *Controller) Register(ctx context.Context, eventID uuid.UUID) (*model.Registration, error) {
	reg, err := c.registrations.Register(ctx, c.State().User, eventID)
	if err != nil {
		return nil, err
	}
	c.update(func(s *State) {
		s.Registered[eventID] = struct{}{}
	})
	return reg, nil
}

func (c *Controller) Post(ctx context.Context, draft model.EventDraft) (*model.Event, error) {
	return c.events.Create(ctx, c.State().User, draft)
}

func (c *Controller) Delete(ctx context.Context, eventID uuid.UUID) error {
	if err := c.events.Delete(ctx, c.State().User, eventID); err != nil {
		return err
	}
	c.update(func(s *State) {
		delete(s.Registered, eventID)
	})
	return nil
}
