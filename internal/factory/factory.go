package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/taptext/internal/dependencies/clock"
	"github.com/mcoot/taptext/internal/dependencies/ids"
	"github.com/mcoot/taptext/internal/relay"
	"github.com/mcoot/taptext/internal/services/auth"
	"github.com/mcoot/taptext/internal/services/messages"
	"github.com/mcoot/taptext/internal/services/moderation"
	"github.com/mcoot/taptext/internal/services/social"
	"github.com/mcoot/taptext/internal/storage"
	"github.com/mcoot/taptext/internal/storage/memory"
	pgstorage "github.com/mcoot/taptext/internal/storage/postgres"
	redisstorage "github.com/mcoot/taptext/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	AuthService       *auth.Service
	SocialService     *social.Service
	ModerationService *moderation.Service
	MessagesService   *messages.Service

	// Live relay
	Hub *relay.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RelayConfig holds websocket relay settings (optional)
	RelayConfig relay.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds Postgres connection settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), ids.New(), cfg.AuthConfig, cfg.RelayConfig, logger), nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		store, err := pgstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'postgres'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idGen ids.Generator,
	authCfg auth.Config,
	relayCfg relay.Config,
	logger *slog.Logger,
) *App {
	messagesService := messages.New(store, idGen)

	return &App{
		Storage:           store,
		Clock:             clk,
		IDs:               idGen,
		AuthService:       auth.New(store, logger, authCfg),
		SocialService:     social.New(store, logger),
		ModerationService: moderation.New(store, clk, idGen, logger),
		MessagesService:   messagesService,
		Hub:               relay.NewHub(messagesService, clk, relayCfg, logger),
	}
}

// Start seeds the admin account and starts the relay hub
func (a *App) Start(ctx context.Context, admin AdminConfig) error {
	if err := a.AuthService.BootstrapAdmin(ctx, admin.Username, admin.Password, admin.DisplayName); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	go a.Hub.Run()
	return nil
}

// Close disconnects live sessions and releases storage
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}

// AdminConfig names the account seeded at startup
type AdminConfig struct {
	Username    string
	Password    string
	DisplayName string
}

// DefaultAdminConfig returns the built-in admin account
func DefaultAdminConfig() AdminConfig {
	return AdminConfig{
		Username:    auth.DefaultAdminUsername,
		Password:    auth.DefaultAdminPassword,
		DisplayName: auth.DefaultAdminDisplayName,
	}
}
