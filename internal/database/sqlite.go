package database

import (
	"context"
	"database/sql"
	"fmt"

	"campus-events/config"

	_ "modernc.org/sqlite"
)

const collectionsSchema = `
	CREATE TABLE IF NOT EXISTS collections (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// InitSQLite 開啟本機模式的資料檔，每個集合以單一 JSON 文件存放
func InitSQLite(config *config.LocalConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 單一連線避免 "database is locked"
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, collectionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
