package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus-events/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey    = "campus:events:changes"
	streamMaxLen = 1000
	changeField  = "change"
)

// RedisStreamFeedConfig 可注入的讀取設定；nil 或零值時使用預設。
type RedisStreamFeedConfig struct {
	BlockTime  time.Duration // XRead 阻塞時間
	RetryDelay time.Duration // 讀取失敗後的等待時間
}

func defaultRedisStreamFeedConfig() RedisStreamFeedConfig {
	return RedisStreamFeedConfig{
		BlockTime:  2 * time.Second,
		RetryDelay: time.Second,
	}
}

// RedisStreamFeedImpl 以 Redis Stream 廣播變更。每個訂閱者從訂閱當下的最後一筆之後各自 XRead，
// 不使用 consumer group，所以每個服務實例都會收到每一筆變更。
type RedisStreamFeedImpl struct {
	client    *redis.Client
	streamKey string
	cfg       RedisStreamFeedConfig
}

func NewRedisStreamFeed(client *redis.Client, config *RedisStreamFeedConfig) EventFeed {
	cfg := defaultRedisStreamFeedConfig()
	if config != nil {
		if config.BlockTime > 0 {
			cfg.BlockTime = config.BlockTime
		}
		if config.RetryDelay > 0 {
			cfg.RetryDelay = config.RetryDelay
		}
	}
	return &RedisStreamFeedImpl{
		client:    client,
		streamKey: StreamKey,
		cfg:       cfg,
	}
}

func (f *RedisStreamFeedImpl) Publish(ctx context.Context, change Change) error {
	changeJSON, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}
	_, err = f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.streamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{changeField: string(changeJSON)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (f *RedisStreamFeedImpl) Subscribe(ctx context.Context) (<-chan Change, error) {
	// 先取得目前最後一筆 ID，避免訂閱建立到第一次 XRead 之間的變更遺失
	lastID, err := f.latestID(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		f.runReadLoop(ctx, lastID, out)
	}()
	return out, nil
}

func (f *RedisStreamFeedImpl) latestID(ctx context.Context) (string, error) {
	msgs, err := f.client.XRevRangeN(ctx, f.streamKey, "+", "-", 1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("xrevrange: %w", err)
	}
	if len(msgs) == 0 {
		return "0-0", nil
	}
	return msgs[0].ID, nil
}

func (f *RedisStreamFeedImpl) runReadLoop(ctx context.Context, lastID string, out chan<- Change) {
	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := f.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{f.streamKey, lastID},
			Count:   10,
			Block:   f.cfg.BlockTime,
		}).Result()

		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.WithComponent("feed").Error("XRead failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.cfg.RetryDelay):
			}
			continue
		}

		for _, stream := range streams {
			if stream.Stream != f.streamKey {
				continue
			}
			for _, msg := range stream.Messages {
				lastID = msg.ID
				change, ok := decodeChange(msg)
				if !ok {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func decodeChange(msg redis.XMessage) (Change, bool) {
	raw, ok := msg.Values[changeField].(string)
	if !ok {
		logger.WithComponent("feed").Warn("invalid message: missing change field", zap.String("message_id", msg.ID))
		return Change{}, false
	}
	var change Change
	if err := json.Unmarshal([]byte(raw), &change); err != nil {
		logger.WithComponent("feed").Warn("unmarshal change failed", zap.String("message_id", msg.ID), zap.Error(err))
		return Change{}, false
	}
	return change, true
}
