package config

import (
	"os"
	"strconv"
	"time"
)

// Profile 部署模式
type Profile string

const (
	// ProfileRemote Postgres + Redis + JWT 身分
	ProfileRemote Profile = "remote"
	// ProfileLocal 單機 SQLite，沒有登入
	ProfileLocal Profile = "local"
)

type Config struct {
	App      AppSettings
	Database DatabaseConfig
	Redis    RedisConfig
	Local    LocalConfig
	Auth     AuthConfig
}

type AppSettings struct {
	Profile  Profile
	HTTPAddr string
	LogLevel string
	// Grace 已開始的活動在探索列表中保留的時間
	Grace time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LocalConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret string
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		App:      GetAppConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Local:    GetLocalConfig(),
		Auth:     GetAuthConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		App: AppSettings{
			Profile:  ProfileRemote,
			HTTPAddr: ":0",
			LogLevel: "debug",
			Grace:    24 * time.Hour,
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth:     AuthConfig{JWTSecret: "test-secret"},
	}
}

func GetAppConfig() AppSettings {
	grace, err := time.ParseDuration(getEnv("DISCOVERY_GRACE", "24h"))
	if err != nil {
		panic(err)
	}

	profile := Profile(getEnv("APP_PROFILE", string(ProfileLocal)))
	if !profile.IsValid() {
		panic("invalid APP_PROFILE: " + string(profile))
	}

	return AppSettings{
		Profile:  profile,
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Grace:    grace,
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetLocalConfig() LocalConfig {
	return LocalConfig{
		Path: getEnv("LOCAL_DB_PATH", "campus.db"),
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
	}
}

// IsValid 驗證模式是否有效
func (p Profile) IsValid() bool {
	switch p {
	case ProfileRemote, ProfileLocal:
		return true
	}
	return false
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
