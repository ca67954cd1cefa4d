// Package server initializes and runs the tracker: it opens the database,
// applies migrations, picks a session backend, and serves HTTP until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/dmitrijs2005/tasktracker/internal/server/sessions"
	"github.com/dmitrijs2005/tasktracker/internal/server/web"
	"github.com/redis/go-redis/v9"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	closers     []io.Closer
	userService *services.UserService
	taskService *services.TaskService
	sessions    *sessions.Manager
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, closer, err := newSessionStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: services.NewUserService(db, rm, auth.NewPasswordHasher(cfg.BcryptCost), logger),
		taskService: services.NewTaskService(db, rm, logger, cfg.EnforceTaskOwnership),
		sessions:    sessions.NewManager(store, cfg.SessionTTL, logger),
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	app.closers = append(app.closers, db)

	logger.Info(ctx, "app initialized",
		"session_backend", cfg.SessionBackend,
		"enforce_task_ownership", cfg.EnforceTaskOwnership,
	)
	return app, nil
}

// newSessionStore returns the configured token table and, for Redis, the
// client that must be closed on shutdown.
func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, io.Closer, error) {
	switch cfg.SessionBackend {
	case "", config.SessionBackendMemory:
		return sessions.NewMemoryStore(), nil, nil
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping error: %w", err)
		}
		return sessions.NewRedisStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := web.NewHTTPServer(app.config.EndpointAddrHTTP, app.db, app.logger,
		app.userService, app.taskService, app.sessions, app.config.SecretKey, app.config.SessionTTL)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
}
