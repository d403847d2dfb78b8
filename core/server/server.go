package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetgrid/core/cache"
	"meetgrid/core/config"
	"meetgrid/core/database"
	"meetgrid/core/logger"
	"meetgrid/core/mail"
	"meetgrid/core/middleware"
	"meetgrid/core/utils"
	"meetgrid/modules/dashboard"
	"meetgrid/modules/event"
	eventService "meetgrid/modules/event/service"
	"meetgrid/modules/invitation"
	"meetgrid/modules/notification"
	"meetgrid/modules/notification/worker"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

// Server owns every long-lived resource of the HTTP process.
type Server struct {
	cfg   *config.Config
	echo  *echo.Echo
	db    *database.Database
	cache cache.Cache
	cron  *cron.Cron
	event *event.Module
	// queue and worker are set only when Redis is enabled
	queue  *worker.Queue
	worker *worker.Worker
}

// New connects storage and wires all modules onto a fresh echo instance.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{cfg: cfg, echo: echo.New(), cron: newCron()}
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// store stays an untyped nil for memory storage so modules pick their
	// in-memory repositories
	var store database.IDatabase
	if cfg.Storage.Driver == "postgres" {
		db, err := database.InitDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.db = db
		store = db
	} else {
		logger.Warn("Server:New:MemoryStorage", "reason", "STORAGE_DRIVER=memory, data is lost on restart")
	}

	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			s.closeStorage()
			return nil, err
		}
		s.cache = rc
	} else {
		s.cache = cache.NewMemoryCache()
	}

	tokens := utils.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	limiter := middleware.NewIPRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	mw := middleware.NewMiddleware(tokens, limiter).WithAdminToken(cfg.Auth.AdminToken)

	s.echo.Use(echoMiddleware.Recover())
	s.echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderAdminToken},
	}))
	s.echo.Use(mw.RequestLogger())

	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := s.echo.Group("/api/v1")

	s.event = event.Init(s.echo, event.NewRepository(store), mw, eventService.Options{
		Tokens:   tokens,
		BaseURL:  cfg.BaseURL(),
		Location: cfg.Location(),
	})
	notifications := notification.Init(api, store, mw, mail.New(cfg.Mail))
	invitations := invitation.Init(api, store, mw, s.event.Repository, notifications, cfg.BaseURL())
	s.event.Service.OnScheduled(invitations)
	dashboard.Init(api, s.event.Repository, s.cache, mw, cfg.Location())

	dispatch := func(ctx context.Context) error {
		_, err := notifications.DispatchPending(ctx, cfg.Jobs.NotificationBatch)
		return err
	}
	if cfg.Redis.Enabled {
		s.queue = worker.NewQueue(cfg.Redis)
		s.worker = worker.NewWorker(cfg.Redis, notifications)
		dispatch = func(ctx context.Context) error {
			return s.queue.EnqueueDispatch(ctx, cfg.Jobs.NotificationBatch)
		}
	}

	if _, err := s.cron.AddFunc(cfg.Jobs.NotificationSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := dispatch(jobCtx); err != nil {
			logger.Error("Server:Cron:DispatchPending:Error:", err)
		}
	}); err != nil {
		s.closeQueue()
		s.closeStorage()
		return nil, fmt.Errorf("invalid JOBS_NOTIFICATION_SCHEDULE %q: %w", cfg.Jobs.NotificationSchedule, err)
	}
	if _, err := s.cron.AddFunc("@every 10m", func() {
		if removed := limiter.Cleanup(); removed > 0 {
			logger.Debug("Server:Cron:RateLimiterCleanup", "removed", removed)
		}
	}); err != nil {
		s.closeQueue()
		s.closeStorage()
		return nil, err
	}

	return s, nil
}

// Start serves until ctx is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	if s.worker != nil {
		if err := s.worker.Start(); err != nil {
			s.worker = nil
			s.shutdown()
			return fmt.Errorf("start notification worker: %w", err)
		}
	}
	s.cron.Start()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Start", "addr", addr, "storage", s.cfg.Storage.Driver, "redis", s.cfg.Redis.Enabled)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.shutdown()
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server:Shutdown")
	s.shutdown()
	return nil
}

func (s *Server) shutdown() {
	<-s.cron.Stop().Done()
	if s.worker != nil {
		s.worker.Shutdown()
	}
	s.closeQueue()
	s.event.Hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("Server:Shutdown:Error:", err)
	}
	if err := s.cache.Close(); err != nil {
		logger.Error("Server:Shutdown:Cache:Error:", err)
	}
	s.closeStorage()
}

func (s *Server) closeQueue() {
	if s.queue == nil {
		return
	}
	if err := s.queue.Close(); err != nil {
		logger.Error("Server:Shutdown:Queue:Error:", err)
	}
}

func (s *Server) closeStorage() {
	if s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.Error("Server:Shutdown:Database:Error:", err)
	}
}

// Run loads configuration and serves until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return s.Start(ctx)
}

// Migrate applies the schema and exits.
func Migrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("migrate requires STORAGE_DRIVER=postgres, got %q", cfg.Storage.Driver)
	}
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(ctx, db)
}
