// Package app wires the service together and owns its lifecycle.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/hackhub/auth-service/internal/config"
	"github.com/hackhub/auth-service/internal/events"
	eventskafka "github.com/hackhub/auth-service/internal/events/kafka"
	httphandler "github.com/hackhub/auth-service/internal/handler/http"
	"github.com/hackhub/auth-service/internal/repository/postgres"
	"github.com/hackhub/auth-service/internal/service"
	"github.com/hackhub/auth-service/internal/utils/logger"
	"github.com/hackhub/auth-service/internal/utils/password"
	"github.com/hackhub/auth-service/internal/utils/rate"
	"github.com/hackhub/auth-service/migrations"
)

// App holds the assembled service and its owned resources.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	publisher  events.Publisher
	httpServer *http.Server
}

// New builds the application: logger, database, migrations, Redis,
// Kafka, services, and the HTTP server.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Connected to database",
		zap.String("host", cfg.Database.Host), zap.String("dbname", cfg.Database.DBName))

	if cfg.Database.AutoMigrate {
		if err := runMigrations(cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	var redisClient *redis.Client
	var limiter *rate.Limiter
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = rate.NewLimiter(redisClient, log)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = eventskafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.Info("Auth event publication enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	users := postgres.NewUserRepository(pool)
	tokenService := service.NewTokenService(cfg.JWT)
	hashCosts := &password.Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	authService := service.NewAuthService(users, tokenService, hashCosts, publisher, log)

	router := httphandler.SetupRouter(authService, tokenService, users, limiter, cfg, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		pool:       pool,
		redis:      redisClient,
		publisher:  publisher,
		httpServer: httpServer,
	}, nil
}

// runMigrations applies schema migrations over a short-lived
// database/sql connection; pgx's stdlib driver backs it.
func runMigrations(cfg *config.Config, log *zap.Logger) error {
	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	return migrations.NewManager(db, &cfg.Database, log).Up()
}

// Run starts the HTTP server and blocks until a shutdown signal or a
// server failure, then shuts down gracefully.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("HTTP server failed", zap.Error(err))
		a.close()
		return err
	case sig := <-quit:
		a.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Graceful shutdown failed", zap.Error(err))
		a.close()
		return err
	}

	a.close()
	a.logger.Info("Server stopped")
	return nil
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Error("Failed to close event publisher", zap.Error(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	a.pool.Close()
	_ = a.logger.Sync()
}
