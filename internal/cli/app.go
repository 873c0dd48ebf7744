package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tiendademo/storefront/internal/core/ports"
	"github.com/tiendademo/storefront/internal/core/service"
	mongodb "github.com/tiendademo/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/tiendademo/storefront/internal/infrastructure/db/redis"
	"github.com/tiendademo/storefront/internal/infrastructure/kv"
	"github.com/tiendademo/storefront/internal/infrastructure/userstore"
	"github.com/tiendademo/storefront/internal/pkg/config"
)

// App is one wired instance of the storefront core. Commands share it for
// the lifetime of a single invocation.
type App struct {
	Backend   string
	Log       zerolog.Logger
	Directory *service.DirectoryService
	Session   *service.SessionService
	Cart      *service.CartService
	Recovery  *service.RecoveryService

	checks  map[string]func(context.Context) error
	closers []func(context.Context) error
}

// NewApp connects the configured backend, builds the services and seeds the
// default administrator.
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	app := &App{
		Backend: cfg.Store.Backend,
		Log:     log,
		checks:  map[string]func(context.Context) error{},
	}

	var (
		store ports.KVStore
		codes ports.RecoveryCodeStore
	)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = kv.NewMemoryStore()
	case config.BackendNone:
		store = kv.NewNullStore()
	case config.BackendFile:
		store = kv.NewFileStore(cfg.Store.File)
	case config.BackendRedis:
		backend, err := redisdb.Open(ctx, redisdb.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func(context.Context) error { return backend.Close() })
		app.checks["redis"] = backend.Ping
		store, codes = backend.Store, backend.Codes
	case config.BackendMongo:
		backend, err := mongodb.Open(ctx, mongodb.Options{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, backend.Close)
		app.checks["mongodb"] = backend.Ping
		store = backend.Store
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if codes == nil {
		codes = kv.NewRecoveryCodeStore(store)
	}

	var hasher ports.PasswordHasher = service.PlainPasswords{}
	if cfg.PasswordHashing == "bcrypt" {
		hasher = service.BcryptPasswords{}
	}

	if err := app.wire(ctx, userstore.New(store, cfg.Store.UsersKey, cfg.Store.SessionKey), codes, hasher, cfg.RecoveryCodeTTL); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	return app, nil
}

// NewMemoryApp builds an App over a fresh in-memory store. Used by tests and
// for throwaway sessions.
func NewMemoryApp(ctx context.Context, log zerolog.Logger) (*App, error) {
	store := kv.NewMemoryStore()
	app := &App{Backend: config.BackendMemory, Log: log, checks: map[string]func(context.Context) error{}}
	err := app.wire(ctx, userstore.New(store, "", ""), kv.NewRecoveryCodeStore(store), service.PlainPasswords{}, 0)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, users ports.UserStore, codes ports.RecoveryCodeStore, hasher ports.PasswordHasher, ttl time.Duration) error {
	a.Directory = service.NewDirectoryService(users, hasher, a.Log)
	if err := a.Directory.SeedDefaultAdmin(ctx); err != nil {
		return err
	}
	a.Session = service.NewSessionService(ctx, a.Directory, users, a.Log)
	a.Cart = service.NewCartService()
	a.Recovery = service.NewRecoveryService(a.Directory, codes, ttl, a.Log)
	return nil
}

// Health pings every remote dependency of the backend. The map is empty for
// local backends.
func (a *App) Health(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out := make(map[string]error, len(a.checks))
	for name, check := range a.checks {
		out[name] = check(ctx)
	}
	return out
}

// Close releases backend connections.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
