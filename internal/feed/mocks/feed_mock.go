package mocks

import (
	"context"

	"campus-events/internal/feed"

	"github.com/stretchr/testify/mock"
)

type EventFeedMock struct {
	mock.Mock
}

// NewEventFeedMock 建立 mock 並在測試結束時檢查預期呼叫
func NewEventFeedMock(t testingT) *EventFeedMock {
	m := &EventFeedMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventFeedMock) Publish(ctx context.Context, change feed.Change) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *EventFeedMock) Subscribe(ctx context.Context) (<-chan feed.Change, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan feed.Change), args.Error(1)
}
