package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MembershipCacheMock struct {
	mock.Mock
}

// NewMembershipCacheMock 建立 mock 並在測試結束時檢查預期呼叫
func NewMembershipCacheMock(t testingT) *MembershipCacheMock {
	m := &MembershipCacheMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MembershipCacheMock) Warm(ctx context.Context, attendeeID string, eventIDs []uuid.UUID) error {
	args := m.Called(ctx, attendeeID, eventIDs)
	return args.Error(0)
}

func (m *MembershipCacheMock) Members(ctx context.Context, attendeeID string) ([]uuid.UUID, bool, error) {
	args := m.Called(ctx, attendeeID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MembershipCacheMock) Add(ctx context.Context, attendeeID string, eventID uuid.UUID) error {
	args := m.Called(ctx, attendeeID, eventID)
	return args.Error(0)
}

func (m *MembershipCacheMock) Evict(ctx context.Context, attendeeIDs ...string) error {
	args := m.Called(ctx, attendeeIDs)
	return args.Error(0)
}
