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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-portal/internal/api"
	"github.com/visioncare/clinic-portal/internal/api/middleware"
	"github.com/visioncare/clinic-portal/internal/core/domain"
	"github.com/visioncare/clinic-portal/internal/core/policy"
	"github.com/visioncare/clinic-portal/internal/core/ports"
	"github.com/visioncare/clinic-portal/internal/core/service"
	"github.com/visioncare/clinic-portal/internal/infrastructure/config"
	"github.com/visioncare/clinic-portal/internal/infrastructure/db/memory"
	mongodb "github.com/visioncare/clinic-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/visioncare/clinic-portal/internal/infrastructure/db/redis"
	"github.com/visioncare/clinic-portal/internal/infrastructure/http/handlers"
	"github.com/visioncare/clinic-portal/internal/infrastructure/queue"
	"github.com/visioncare/clinic-portal/pkg/logger"
)

// @title        VisionCare Clinic Portal API
// @version      1.0
// @description  Session store and role-based route guard for the VisionCare clinic portal.
// @BasePath     /
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "clinic-portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// backend is the storage wiring selected by STORAGE_BACKEND.
type backend struct {
	sessions ports.SessionStorage
	accounts ports.AccountRepository
	audit    ports.AuditRepository
	checks   map[string]handlers.Check
	close    func(context.Context)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	table, err := policy.LoadTableFile(cfg.Session.PolicyFile)
	if err != nil {
		return err
	}

	accounts, err := service.HashAccounts(domain.DemoAccounts(), 0)
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg, accounts)
	if err != nil {
		return err
	}
	defer b.close(context.Background())

	auditService := service.NewAuditService(b.audit, logger.For("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.For("dispatcher"))
	dispatcher.Start()

	store := service.NewSessionStore(
		b.sessions,
		service.NewAuthenticator(b.accounts),
		logger.For("session"),
		service.WithLoginDelay(cfg.Session.LoginDelay),
		service.WithAuditRecorder(dispatcher),
	)

	secret := cfg.Profile.Secret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("PROFILE_SECRET not set, profiles will not survive a restart")
	}

	e := api.NewRouter(api.Deps{
		Table:    table,
		Sessions: store,
		Audit:    auditService,
		Recorder: dispatcher,
		Profile: middleware.ProfileConfig{
			Secret: secret,
			TTL:    cfg.Profile.TTL,
			Secure: cfg.IsProduction(),
		},
		Checks: b.checks,
		Log:    logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.Session.Backend).
			Int("routes", len(table.Policies())).
			Msg("clinic portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		dispatcher.Close()
		dispatcher.Wait()
		return err
	}

	log.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// Requests are finished, so no new events can arrive; flush the queue.
	dispatcher.Close()
	dispatcher.Wait()
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, accounts []domain.Account) (*backend, error) {
	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		sessions := redisdb.NewSessionStorage(client, cfg.Session.TTL)
		return &backend{
			sessions: sessions,
			accounts: memory.NewAccountRepository(accounts),
			audit:    memory.NewAuditRepository(0),
			checks:   map[string]handlers.Check{"redis": sessions.Ping},
			close:    func(context.Context) { _ = client.Close() },
		}, nil

	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		sessions := mongodb.NewSessionStorage(db)
		accountRepo := mongodb.NewAccountRepository(db)
		auditRepo := mongodb.NewAuditRepository(db)

		if err := ensureMongo(ctx, sessions, accountRepo, auditRepo, accounts); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &backend{
			sessions: sessions,
			accounts: accountRepo,
			audit:    auditRepo,
			checks:   map[string]handlers.Check{"mongodb": mongodb.Ping(client)},
			close:    func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil

	default:
		return &backend{
			sessions: memory.NewSessionStorage(),
			accounts: memory.NewAccountRepository(accounts),
			audit:    memory.NewAuditRepository(0),
			close:    func(context.Context) {},
		}, nil
	}
}

func ensureMongo(ctx context.Context, sessions *mongodb.SessionStorage, accounts *mongodb.AccountRepository, audit *mongodb.AuditRepository, seed []domain.Account) error {
	if err := sessions.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("session indexes: %w", err)
	}
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	if err := audit.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("audit indexes: %w", err)
	}
	return accounts.Seed(ctx, seed)
}
