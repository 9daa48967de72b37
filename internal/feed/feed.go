package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeDeleted ChangeKind = "deleted"
)

// Change 活動集合的變更通知，訂閱者收到後重新載入完整清單
type Change struct {
	Kind    ChangeKind `json:"kind"`
	EventID uuid.UUID  `json:"event_id"`
	At      time.Time  `json:"at"`
}

func NewChange(kind ChangeKind, eventID uuid.UUID) Change {
	return Change{Kind: kind, EventID: eventID, At: time.Now().UTC()}
}

type EventFeed interface {
	// 廣播變更給所有訂閱者
	Publish(ctx context.Context, change Change) error
	// 訂閱變更，ctx 結束時 channel 關閉
	Subscribe(ctx context.Context) (<-chan Change, error)
}

const subscriberBuffer = 16

// MemoryEventFeed 使用 Go channel 在行程內扇出
type MemoryEventFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Change
}

func NewMemoryEventFeed() *MemoryEventFeed {
	return &MemoryEventFeed{
		subs: make(map[int]chan Change),
	}
}

func (f *MemoryEventFeed) Publish(ctx context.Context, change Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- change:
		default:
			// 訂閱者尚有未處理的通知，反正會重新載入完整清單，可以丟棄
		}
	}
	return nil
}

func (f *MemoryEventFeed) Subscribe(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, subscriberBuffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch, nil
}

// Subscribers 目前的訂閱者數量
func (f *MemoryEventFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
