// Package app 依部署模式組裝儲存層、快取、通知與服務
package app

import (
	"context"
	"fmt"
	"time"

	"campus-events/config"
	"campus-events/internal/cache"
	"campus-events/internal/database"
	"campus-events/internal/feed"
	"campus-events/internal/model"
	"campus-events/internal/repository"
	"campus-events/internal/repository/local"
	"campus-events/internal/service"
	"campus-events/internal/session"
	"campus-events/internal/ticket"
	"campus-events/internal/worker"
	"campus-events/pkg/logger"

	"go.uber.org/zap"
)

// 本機模式的固定使用者
const (
	LocalUserID   = "local-user"
	LocalUserName = "Local Organizer"
)

type App struct {
	Profile config.Profile
	Grace   time.Duration

	EventRepo repository.EventRepository
	Feed      feed.EventFeed

	Users         service.UserService
	Events        service.EventService
	Registrations service.RegistrationService
	Preferences   service.PreferenceService

	closers []func()
}

type repositories struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	roles         repository.RoleRepository
	preferences   repository.PreferenceRepository
}

// New 依 cfg.App.Profile 建立對應的組裝
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	switch cfg.App.Profile {
	case config.ProfileLocal:
		return NewLocal(cfg)
	case config.ProfileRemote:
		return NewRemote(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown profile %q", cfg.App.Profile)
	}
}

func NewLocal(cfg *config.Config) (*App, error) {
	db, err := database.InitSQLite(&cfg.Local)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite: %w", err)
	}

	store := local.NewStore(db)
	repos := repositories{
		events:        local.NewEventRepository(store),
		registrations: local.NewRegistrationRepository(store),
		roles:         local.NewStaticRoleRepository(model.RoleOrganizer),
		preferences:   local.NewPreferenceRepository(store),
	}

	a := assemble(cfg, repos, nil, feed.NewMemoryEventFeed())
	a.closers = append(a.closers, func() { db.Close() })

	logger.WithComponent("app").Info("local profile ready", zap.String("path", cfg.Local.Path))
	return a, nil
}

func NewRemote(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	repos := repositories{
		events:        repository.NewEventRepository(pool),
		registrations: repository.NewRegistrationRepository(pool),
		roles:         repository.NewRoleRepository(pool),
		preferences:   repository.NewPreferenceRepository(pool),
	}
	membership := cache.NewRedisMembershipCache(rdb, cache.DefaultMembershipTTL)

	a := assemble(cfg, repos, membership, feed.NewRedisStreamFeed(rdb, nil))
	a.closers = append(a.closers, func() { rdb.Close() }, pool.Close)

	logger.WithComponent("app").Info("remote profile ready",
		zap.String("db_host", cfg.Database.Host),
		zap.String("redis_host", cfg.Redis.Host),
	)
	return a, nil
}

func assemble(cfg *config.Config, repos repositories, membership cache.MembershipCache, eventFeed feed.EventFeed) *App {
	return &App{
		Profile:       cfg.App.Profile,
		Grace:         cfg.App.Grace,
		EventRepo:     repos.events,
		Feed:          eventFeed,
		Users:         service.NewUserService(repos.roles),
		Events:        service.NewEventService(repos.events, repos.registrations, membership, eventFeed, cfg.App.Grace),
		Registrations: service.NewRegistrationService(repos.events, repos.registrations, membership, ticket.NewRandomGenerator()),
		Preferences:   service.NewPreferenceService(repos.preferences),
	}
}

// NewSession 建立新的 session，各自持有一個活動監看
func (a *App) NewSession() *session.Controller {
	return session.NewController(
		a.Events,
		a.Registrations,
		a.Preferences,
		worker.NewEventWatcher(a.Feed, a.EventRepo),
		a.Grace,
	)
}

// LocalUser 本機模式的使用者，角色由靜態角色表決定
func (a *App) LocalUser(ctx context.Context) *model.User {
	return a.Users.Resolve(ctx, model.Identity{ID: LocalUserID, Name: LocalUserName})
}

// Close 依建立的相反順序釋放資源
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
