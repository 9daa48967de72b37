package worker

import (
	"context"
	"sync"

	"campus-events/internal/feed"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/pkg/logger"

	"go.uber.org/zap"
)

// SnapshotFunc 收到完整的活動清單
type SnapshotFunc func(events []*model.Event)

type EventWatcher interface {
	// Watch 訂閱活動變更，先送出一次目前清單，之後每次變更重新載入。
	// 同一時間只保留一個訂閱，重複呼叫會先取消前一個。
	Watch(ctx context.Context, onSnapshot SnapshotFunc) error
	// Stop 取消目前的訂閱並等待結束
	Stop()
}

type EventWatcherImpl struct {
	feed   feed.EventFeed
	events repository.EventRepository

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewEventWatcher(feed feed.EventFeed, events repository.EventRepository) EventWatcher {
	return &EventWatcherImpl{
		feed:   feed,
		events: events,
	}
}

func (w *EventWatcherImpl) Watch(ctx context.Context, onSnapshot SnapshotFunc) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	subCtx, cancel := context.WithCancel(ctx)
	changes, err := w.feed.Subscribe(subCtx)
	if err != nil {
		cancel()
		return err
	}

	events, err := w.events.List(subCtx)
	if err != nil {
		cancel()
		return err
	}
	onSnapshot(events)

	done := make(chan struct{})
	w.cancel = cancel
	w.done = done

	go func() {
		defer close(done)
		for change := range changes {
			events, err := w.events.List(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				// 保留上一份清單，等下一次變更再試
				logger.WithComponent("watcher").Warn("reload events failed",
					zap.String("kind", string(change.Kind)),
					zap.String("event_id", change.EventID.String()),
					zap.Error(err),
				)
				continue
			}
			if subCtx.Err() != nil {
				return
			}
			onSnapshot(events)
		}
	}()

	return nil
}

func (w *EventWatcherImpl) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *EventWatcherImpl) stopLocked() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil
}
