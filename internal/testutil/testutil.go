// Package testutil 整合測試共用的連線設定，伺服器不可用時讓測試略過
package testutil

import (
	"context"
	"fmt"
	"log"
	"testing"

	"campus-events/config"
	"campus-events/internal/database"

	"github.com/redis/go-redis/v9"
)

// SetupRedisOnly 僅初始化 Redis，用於只依賴 Redis 的測試 (cache、feed)
func SetupRedisOnly() (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	log.Println("Test redis connected successfully")

	cleanup := func() {
		rdb.Close()
		log.Println("Test redis closed")
	}
	return rdb, cleanup, nil
}

// RequireRedis 回傳共用的 client，未連線時略過測試
func RequireRedis(t *testing.T, rdb *redis.Client) *redis.Client {
	t.Helper()
	if rdb == nil {
		t.Skip("redis test server is not available")
	}
	return rdb
}

// FlushRedis 清空測試用的 Redis DB
func FlushRedis(t *testing.T, rdb *redis.Client) {
	t.Helper()
	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
}
