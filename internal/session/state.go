package session

import (
	"sort"
	"time"

	"campus-events/internal/discovery"
	"campus-events/internal/model"

	"github.com/google/uuid"
)

// Selection 探索頁目前的篩選條件
type Selection struct {
	Tags   []string `json:"tags"`
	Search string   `json:"search"`
	// All 為 true 時不套用標籤篩選
	All bool `json:"all"`
}

// State 畫面所需的完整狀態，每次更新都整份替換
type State struct {
	User       *model.User
	Selection  Selection
	Events     []*model.Event
	Registered map[uuid.UUID]struct{}
}

// View 對外輸出的快照
type View struct {
	User       *model.User    `json:"user,omitempty"`
	Selection  Selection      `json:"selection"`
	Events     []*model.Event `json:"events"`
	Registered []uuid.UUID    `json:"registered"`
}

func (s State) IsRegistered(eventID uuid.UUID) bool {
	_, ok := s.Registered[eventID]
	return ok
}

// Visible 依目前選擇計算要顯示的活動
func (s State) Visible(now time.Time, grace time.Duration) []*model.Event {
	criteria := discovery.Criteria{
		Tags:   s.Selection.Tags,
		Search: s.Selection.Search,
		Now:    now,
		Grace:  grace,
	}
	if s.Selection.All {
		criteria.Tags = nil
	}
	return discovery.Filter(s.Events, criteria)
}

func (s State) View(now time.Time, grace time.Duration) View {
	registered := make([]uuid.UUID, 0, len(s.Registered))
	for id := range s.Registered {
		registered = append(registered, id)
	}
	sort.Slice(registered, func(i, j int) bool {
		return registered[i].String() < registered[j].String()
	})
	return View{
		User:       s.User,
		Selection:  s.Selection,
		Events:     s.Visible(now, grace),
		Registered: registered,
	}
}

// clone 複製可變欄位，呼叫端拿到的副本不會與控制器共用
func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	out.Selection.Tags = append([]string(nil), s.Selection.Tags...)
	out.Events = append([]*model.Event(nil), s.Events...)
	out.Registered = make(map[uuid.UUID]struct{}, len(s.Registered))
	for id := range s.Registered {
		out.Registered[id] = struct{}{}
	}
	return out
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
