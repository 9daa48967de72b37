package cache

import (
	"context"
	"fmt"
	"time"

	apperrors "campus-events/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultMembershipTTL = 10 * time.Minute

	// warmMarker 讓空集合也能代表「已預熱」
	warmMarker = "*"
)

// MembershipCache 參加者已報名活動集合的快取，只作為讀取加速，不是事實來源
type MembershipCache interface {
	// Warm 以完整集合覆寫快取 (Lua 腳本確保原子性)
	Warm(ctx context.Context, attendeeID string, eventIDs []uuid.UUID) error
	// Members 回傳快取集合，第二個回傳值為是否命中
	Members(ctx context.Context, attendeeID string) ([]uuid.UUID, bool, error)
	// Add 只在已預熱時加入，未預熱的集合不可只有部分資料
	Add(ctx context.Context, attendeeID string, eventID uuid.UUID) error
	Evict(ctx context.Context, attendeeIDs ...string) error
}

type RedisMembershipCacheImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMembershipCache(client *redis.Client, ttl time.Duration) MembershipCache {
	if ttl <= 0 {
		ttl = DefaultMembershipTTL
	}
	return &RedisMembershipCacheImpl{
		client: client,
		ttl:    ttl,
	}
}

func (m *RedisMembershipCacheImpl) getKey(attendeeID string) string {
	return fmt.Sprintf("attendee:%s:events", attendeeID)
}

var warmScript = redis.NewScript(`
	local key = KEYS[1]
	local ttl = tonumber(ARGV[1])

	redis.call('DEL', key)
	for i = 2, #ARGV do
		redis.call('SADD', key, ARGV[i])
	end
	redis.call('EXPIRE', key, ttl)

	return "OK"
`)

var addScript = redis.NewScript(`
	local key = KEYS[1]

	if redis.call('EXISTS', key) == 0 then
		return 0
	end
	redis.call('SADD', key, ARGV[1])
	return 1
`)

func (m *RedisMembershipCacheImpl) Warm(ctx context.Context, attendeeID string, eventIDs []uuid.UUID) error {
	args := make([]interface{}, 0, len(eventIDs)+2)
	args = append(args, int(m.ttl/time.Second), warmMarker)
	for _, id := range eventIDs {
		args = append(args, id.String())
	}

	if err := warmScript.Run(ctx, m.client, []string{m.getKey(attendeeID)}, args...).Err(); err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}

func (m *RedisMembershipCacheImpl) Members(ctx context.Context, attendeeID string) ([]uuid.UUID, bool, error) {
	members, err := m.client.SMembers(ctx, m.getKey(attendeeID)).Result()
	if err != nil {
		return nil, false, apperrors.Persistence(err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}

	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		if member == warmMarker {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			// 格式不符的快取視為未命中，交由資料庫重建
			return nil, false, nil
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

func (m *RedisMembershipCacheImpl) Add(ctx context.Context, attendeeID string, eventID uuid.UUID) error {
	err := addScript.Run(ctx, m.client, []string{m.getKey(attendeeID)}, eventID.String()).Err()
	if err != nil && err != redis.Nil {
		return apperrors.Persistence(err)
	}
	return nil
}

func (m *RedisMembershipCacheImpl) Evict(ctx context.Context, attendeeIDs ...string) error {
	if len(attendeeIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		keys = append(keys, m.getKey(id))
	}
	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.Persistence(err)
	}
	return nil
}
