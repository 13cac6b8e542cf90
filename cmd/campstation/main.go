package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campstation/internal/app/commands"
	pricingapp "campstation/internal/app/handlers/pricing"
	"campstation/internal/app/middleware"
	"campstation/internal/app/policies"
	"campstation/internal/app/queries"
	"campstation/internal/app/uow"
	"campstation/internal/infra/broker/kafka"
	"campstation/internal/infra/cache/redis"
	"campstation/internal/infra/config"
	mongostore "campstation/internal/infra/db/mongo"
	ginserver "campstation/internal/infra/http/gin"
	"campstation/internal/infra/obs"
	"campstation/internal/infra/storage/memory"
	"campstation/internal/infra/storage/s3"
	"campstation/internal/infra/validation"
)

const serviceName = "campstation-pricing"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg = config.Default()
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	}

	shutdownTracing, err := obs.InitTracing(obs.TracingConfig{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.JaegerEndpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
	})
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks:  app.checks,
		Timeout: 2 * time.Second,
	}, app.handlers)

	if app.consumer != nil {
		go func() {
			logger.Info("rules change consumer starting", "topic", cfg.KafkaRulesTopic, "group", cfg.KafkaGroupID)
			if err := app.consumer.Run(ctx, []string{cfg.KafkaRulesTopic}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("rules change consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if shutdownTracing != nil {
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Warn("tracing shutdown failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	checks   map[string]obs.Check
	consumer *kafka.Consumer
	closers  []func(context.Context) error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{checks: map[string]obs.Check{}}

	factory, idStore, err := app.buildStorage(ctx, cfg, logger)
	if err != nil {
		app.close(logger)
		return nil, err
	}
	cache := app.buildQuoteCache(ctx, cfg, logger)
	clock := policies.SystemClock{Location: cfg.PricingLocation}

	queryBus := queries.NewInMemoryBus()
	pricingapp.RegisterQueries(queryBus,
		&pricingapp.CalculatePriceHandler{UoWFactory: factory, Clock: clock, Logger: logger},
		&pricingapp.ListSiteRulesHandler{UoWFactory: factory},
	)
	commandBus := commands.NewInMemoryBus()
	pricingapp.RegisterCommands(commandBus, &pricingapp.InvalidateSiteQuotesHandler{Cache: cache, Logger: logger})

	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validation.New()),
		middleware.QueryCache(middleware.QueryCacheOptions{
			Store:  cache,
			Clock:  clock,
			TTL:    cfg.QuoteCacheTTL,
			Logger: logger,
		}),
	)
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
	)

	app.handlers = ginserver.Handlers{
		Pricing: ginserver.PricingHandler{
			Queries: queryBusWithMiddleware,
			Logger:  logger,
		},
		OwnerPricing: ginserver.OwnerPricingHandler{
			Queries:  queryBusWithMiddleware,
			Commands: commandBusWithMiddleware,
			Logger:   logger,
		},
	}

	if len(cfg.KafkaBrokers) > 0 {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, kafka.RulesChangedHandler{
			Commands: commandBusWithMiddleware,
			Logger:   logger,
		}, logger)
		if err != nil {
			logger.Warn("rules change consumer disabled", "error", err, "brokers", cfg.KafkaBrokers)
		} else {
			app.consumer = consumer
			app.closers = append(app.closers, func(context.Context) error { return consumer.Close() })
		}
	}
	return app, nil
}

func (a *application) buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (uow.UoWFactory, middleware.IdempotencyStore, error) {
	if cfg.StorageMode == config.StorageMongo {
		client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.checks["mongo"] = client.Ping

		rules := mongostore.NewRuleRepository(client.DB)
		if err := rules.EnsureIndexes(ctx); err != nil {
			logger.Warn("mongo rule indexes not ensured", "error", err)
		}
		idStore, err := mongostore.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo idempotency store: %w", err)
		}
		logger.Info("mongo storage ready", "database", cfg.MongoDB)
		return mongostore.Factory{DB: client.DB, RulesRepo: rules}, idStore, nil
	}

	var source memory.FixtureSource = memory.FileFixtureSource{Path: cfg.RulesFixtures}
	if cfg.RulesFixturesS3Key != "" {
		client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("s3 client: %w", err)
		}
		a.checks["s3"] = client.Ping
		source = s3.FixtureSource{Client: client, Key: cfg.RulesFixturesS3Key}
	}

	repo := memory.NewRuleRepository(nil)
	rules, err := memory.LoadRules(ctx, source)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("rule fixtures not found, starting empty", "source", source.Describe())
	case err != nil:
		return nil, nil, fmt.Errorf("load rule fixtures from %s: %w", source.Describe(), err)
	default:
		repo.Replace(rules)
		logger.Info("rule fixtures loaded", "source", source.Describe(), "rules", len(rules), "sites", len(repo.Sites()))
	}
	return memory.Factory{RulesRepo: repo}, memory.NewIdempotencyStore(cfg.IdempotencyTTL), nil
}

func (a *application) buildQuoteCache(ctx context.Context, cfg config.Config, logger *slog.Logger) policies.QuoteCache {
	if cfg.RedisAddr != "" {
		cache, err := redis.NewQuoteCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			a.checks["redis"] = cache.Ping
			a.closers = append(a.closers, func(context.Context) error { return cache.Close() })
			logger.Info("redis quote cache ready", "addr", cfg.RedisAddr)
			return cache
		}
		logger.Warn("redis unavailable, caching quotes in memory", "error", err, "addr", cfg.RedisAddr)
	}
	return memory.NewQuoteCache()
}

func (a *application) close(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
