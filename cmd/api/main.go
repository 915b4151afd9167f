package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/marknotes/notes-service/internal/api/http"
	"github.com/marknotes/notes-service/internal/api/http/handlers"
	"github.com/marknotes/notes-service/internal/auth"
	"github.com/marknotes/notes-service/internal/config"
	"github.com/marknotes/notes-service/internal/events"
	"github.com/marknotes/notes-service/internal/observability"
	"github.com/marknotes/notes-service/internal/persistence"
	"github.com/marknotes/notes-service/internal/repository"
	"github.com/marknotes/notes-service/internal/service"
	"github.com/marknotes/notes-service/internal/store"
	"github.com/marknotes/notes-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		userRepo  repository.UserRepository
		noteRepo  repository.NoteRepository
		resetRepo repository.PasswordResetRepository
		pg        *persistence.Postgres
	)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		pool := pg.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		noteRepo = repository.NewNoteRepository(pool)
		resetRepo = repository.NewPasswordResetRepository(pool)
	default:
		st := store.NewStore()
		userRepo = st.Users()
		noteRepo = st.Notes()
		resetRepo = st.PasswordResets()
	}

	if cfg.Seed.Enabled {
		if err := store.SeedDemoData(ctx, userRepo, noteRepo, cfg.Seed, cfg.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	var (
		redis   *persistence.Redis
		revoker auth.TokenRevoker
	)
	if cfg.Redis.Enabled {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		revoker = auth.NewRedisRevoker(redis.Client)
	} else {
		revoker = auth.NewMemoryRevoker()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	adminService, err := service.NewAdminService(cfg.Auth, service.AdminDependencies{
		UserRepo:     userRepo,
		NoteRepo:     noteRepo,
		TokenManager: tokenMgr,
		Revoker:      revoker,
		Dispatcher:   dispatcher,
	})
	if err != nil {
		logger.Fatal("failed to init admin service", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		TokenManager:      tokenMgr,
		Revoker:           revoker,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})

	noteService := service.NewNoteService(noteRepo, dispatcher, cfg.Auth.BcryptCost)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)
	worker.StartExpirySweeper(ctx, noteService, cfg.Notes.SweepInterval(), logger)

	authMiddleware := auth.NewAuthMiddleware(tokenMgr, revoker, userRepo, adminService.Identity())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Notes:          handlers.NewNotesHandler(noteService),
		Profile:        handlers.NewProfileHandler(authService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
