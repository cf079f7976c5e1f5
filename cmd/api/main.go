package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-habits/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-habits/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-habits/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-habits/internal/config"
	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
	"github.com/comitanigiacomo/kanso-habits/internal/core/services"
	"github.com/comitanigiacomo/kanso-habits/internal/core/workers"
	"github.com/comitanigiacomo/kanso-habits/internal/logger"
)

// @title                      Kanso Habits API
// @version                    1.0
// @description                Habit tracking with streaks and month calendars.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Critical: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("kanso habits api listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

type app struct {
	router     *gin.Engine
	stopWorker context.CancelFunc
	workerDone <-chan struct{}
	closers    []func() error
	log        *zap.Logger
}

// Close stops the milestone worker, waits for it, then releases storage and
// cache connections.
func (a *app) Close() {
	if a.stopWorker != nil {
		a.stopWorker()
		<-a.workerDone
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
}

type stores struct {
	habits  domain.HabitRepository
	records domain.DayRecordRepository
	users   domain.UserRepository
	db      *sqlx.DB
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Storage {
	case config.StorageMemory:
		return stores{
			habits:  repository.NewInMemoryHabitRepository(),
			records: repository.NewInMemoryDayRecordRepository(),
			users:   repository.NewInMemoryUserRepository(),
		}, nil
	case config.StorageSQLite:
		db, err = repository.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		db, err = repository.OpenPostgres(ctx, cfg.DB.DSN())
	}
	if err != nil {
		return stores{}, err
	}

	if err := repository.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return stores{}, err
	}

	return stores{
		habits:  repository.NewSQLHabitRepository(db),
		records: repository.NewSQLDayRecordRepository(db),
		users:   repository.NewSQLUserRepository(db),
		db:      db,
	}, nil
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	if cfg.Server.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	firstWeekday, explicitWeekday, err := cfg.Weekday()
	if err != nil {
		return nil, err
	}

	a := &app{log: log}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var pinger adapterHTTP.Pinger
	if st.db != nil {
		pinger = st.db
		a.closers = append(a.closers, st.db.Close)
		log.Info("database connected", zap.String("storage", cfg.Storage))
	}

	habitRepo := st.habits

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb, log)
		log.Info("redis connected", zap.String("host", cfg.Redis.Host))
	}

	worker := workers.NewMilestoneWorker(habitRepo, st.records, log)
	workerCtx, stopWorker := context.WithCancel(context.WithoutCancel(ctx))
	a.stopWorker = stopWorker
	a.workerDone = worker.Start(workerCtx)

	tokenService := services.NewTokenService(cfg.Server.JWTSecret, cfg.Server.JWTIssuer, cfg.Server.TokenDuration, st.users)
	authService := services.NewAuthService(st.users)
	habitService := services.NewHabitService(habitRepo, st.records, log)
	recordService := services.NewRecordService(st.records, habitRepo, worker, log)
	progressService := services.NewProgressService(habitRepo, st.records, log)

	resolver := adapterHTTP.SettingsResolver{
		Location:        loc,
		Locale:          cfg.Calendar.Locale,
		FirstWeekday:    firstWeekday,
		ExplicitWeekday: explicitWeekday,
	}

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, tokenService),
		HabitHandler:    adapterHTTP.NewHabitHandler(habitService),
		RecordHandler:   adapterHTTP.NewRecordHandler(recordService, resolver),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressService, resolver),
		Tokens:          tokenService,
		DB:              pinger,
		Redis:           rdb,
		RateLimit:       cfg.Server.RateLimit,
		RateWindow:      cfg.Server.RateWindow,
		Logger:          log,
		StartTime:       time.Now(),
	})

	return a, nil
}
