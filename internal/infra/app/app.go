package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jooshwells/nanta-mobile/internal/core/port"
	"github.com/jooshwells/nanta-mobile/internal/infra/config"
	"github.com/jooshwells/nanta-mobile/internal/infra/database"
	kafkainfra "github.com/jooshwells/nanta-mobile/internal/infra/kafka"
	"github.com/jooshwells/nanta-mobile/internal/infra/logger"
	"github.com/jooshwells/nanta-mobile/internal/infra/mail"
	redisinfra "github.com/jooshwells/nanta-mobile/internal/infra/redis"
	"github.com/jooshwells/nanta-mobile/internal/infra/security"
	"github.com/jooshwells/nanta-mobile/internal/infra/telemetry"
	postgresrepo "github.com/jooshwells/nanta-mobile/internal/repository/postgres"
	redisrepo "github.com/jooshwells/nanta-mobile/internal/repository/redis"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/handlers"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/middleware"
	"github.com/jooshwells/nanta-mobile/internal/transport/http/routes"
	"github.com/jooshwells/nanta-mobile/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	codec, err := security.NewTokenCodec(cfg.Auth.Secret, cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("init token codec: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "nanta:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authService := usecase.NewAuthService(repos.Accounts, codec).
		WithSessionTTL(cfg.Auth.SessionTTL)
	registrationService := usecase.NewRegistrationService(repos.Accounts, codec, eventPublisher).
		WithVerificationTTL(cfg.Auth.VerificationTTL).
		WithLogger(log)
	verificationService := usecase.NewVerificationService(repos.Accounts, codec, eventPublisher).
		WithVerificationTTL(cfg.Auth.VerificationTTL).
		WithLogger(log)
	accountService := usecase.NewAccountService(repos.Accounts, eventPublisher).
		WithLogger(log)
	noteService := usecase.NewNoteService(repos.Notes)

	var dispatcher handlers.NotificationDispatcher
	if cfg.Mail.Enabled() {
		sender, err := mail.NewSender(cfg.Mail, cfg.App.BaseURL, cfg.Auth.VerificationTTL, log)
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("init mail sender: %w", err)
		}
		dispatcher = handlers.NewMailNotificationDispatcher(sender, log)
	} else {
		log.Info("smtp not configured, logging verification emails instead")
		dispatcher = handlers.NewLoggingNotificationDispatcher(log)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("init tracer provider: %w", err)
		}
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Verification: verificationService,
			Accounts:     accountService,
			Notes:        noteService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.tracer.Shutdown(shutdownCtx); err != nil {
				a.logger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting nanta API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
