package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"directstay/internal/app/validation"
	domainlistings "directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	"directstay/internal/infra/config"
	mongostore "directstay/internal/infra/db/mongo"
	infraoutbox "directstay/internal/infra/outbox"
	"directstay/internal/infra/provider"
	"directstay/internal/infra/schedule"
	"directstay/internal/infra/storage/memory"
	"directstay/internal/infra/storage/s3"
	redisstore "directstay/internal/infra/store/redis"
)

// infrastructure is everything main owns beyond the application graph.
type infrastructure struct {
	deps      dependencies
	outboxSrc infraoutbox.Source
	checks    map[string]func(context.Context) error
	jobs      []schedule.Job
	closers   []func(context.Context) error
}

func (i *infrastructure) close(ctx context.Context, logger *slog.Logger) {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
}

func buildInfrastructure(ctx context.Context, cfg config.Config, logger *slog.Logger) (*infrastructure, error) {
	infra := &infrastructure{checks: map[string]func(context.Context) error{}}
	deps := dependencies{Logger: logger, Strategy: domainpricing.SelectionStrategy(cfg.DiscountStrategy)}

	discounts, err := loadDefaultDiscounts(cfg.DiscountsFile, validation.New())
	if err != nil {
		return nil, err
	}
	deps.DefaultDiscounts = discounts

	if err := wireStorage(ctx, cfg, logger, infra, &deps); err != nil {
		return nil, err
	}
	if err := wireConfigStore(ctx, cfg, logger, infra, &deps); err != nil {
		return nil, err
	}
	wireProvider(cfg, logger, infra, &deps)
	if err := wireArchive(cfg, logger, infra, &deps); err != nil {
		return nil, err
	}
	deps.Payments = memory.NewPaymentsGateway(cfg.CheckoutSuccessURL)

	infra.deps = deps
	return infra, nil
}

func wireStorage(ctx context.Context, cfg config.Config, logger *slog.Logger, infra *infrastructure, deps *dependencies) error {
	if cfg.StorageMode != config.StorageMongo {
		bookings := memory.NewBookingRepository()
		promos := memory.NewPromoRepository()
		invoices := memory.NewInvoiceRepository()
		box := memory.NewOutbox()
		idem := memory.NewIdempotencyStore()
		deps.Promos = promos
		deps.UoW = memory.Factory{Bookings: bookings, Promos: promos, Invoices: invoices}
		deps.Idempotency = idem
		infra.jobs = append(infra.jobs, schedule.PruneJob("idempotency-prune", cfg.CachePruneSchedule, idem, idem.Retention, logger))
		deps.Outbox = box
		infra.outboxSrc = box
		logger.Info("storage initialized", "mode", config.StorageMemory)
		return nil
	}

	client, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	infra.closers = append(infra.closers, client.Close)
	infra.checks["mongo"] = client.Ping

	promos, err := mongostore.NewPromoRepository(ctx, client.DB)
	if err != nil {
		return fmt.Errorf("mongo promo indexes: %w", err)
	}
	idem, err := mongostore.NewIdempotencyStore(ctx, client.DB)
	if err != nil {
		return fmt.Errorf("mongo idempotency indexes: %w", err)
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return fmt.Errorf("mongo outbox indexes: %w", err)
	}
	deps.Promos = promos
	deps.UoW = mongostore.Factory{
		DB:          client.DB,
		BookingRepo: mongostore.NewBookingRepository(client.DB),
		PromoRepo:   promos,
		InvoiceRepo: mongostore.NewInvoiceRepository(client.DB),
	}
	deps.Idempotency = idem
	deps.Outbox = box
	infra.outboxSrc = box
	logger.Info("storage initialized", "mode", config.StorageMongo, "db", cfg.MongoDB)
	return nil
}

func wireConfigStore(ctx context.Context, cfg config.Config, logger *slog.Logger, infra *infrastructure, deps *dependencies) error {
	if !cfg.RedisEnabled() {
		deps.Config = memory.NewConfigStore()
		return nil
	}
	opts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		// reads degrade to defaults inside the engine, so a cold redis does not block startup
		logger.Warn("redis ping failed", "error", err)
	}
	store := redisstore.NewConfigStore(client, cfg.ConfigKeyPrefix)
	deps.Config = store
	infra.checks["redis"] = store.Ping
	infra.closers = append(infra.closers, func(context.Context) error { return client.Close() })
	logger.Info("config store initialized", "backend", "redis", "prefix", cfg.ConfigKeyPrefix)
	return nil
}

func wireProvider(cfg config.Config, logger *slog.Logger, infra *infrastructure, deps *dependencies) {
	if !cfg.ProviderEnabled() {
		fixtures := memory.NewListingRepository()
		if n, err := fixtures.LoadFixtures(cfg.ListingsFixtures); err != nil {
			logFixtureError(logger, cfg.ListingsFixtures, err)
		} else {
			logger.Info("listing fixtures imported", "count", n, "path", cfg.ListingsFixtures)
		}
		rates := memory.NewRateTable()
		if n, err := rates.LoadFixtures(cfg.ListingsFixtures); err == nil {
			logger.Info("rate fixtures imported", "count", n)
		}
		deps.Listings = fixtures
		deps.Rates = rates
		return
	}

	httpClient := &http.Client{Timeout: cfg.ProviderTimeout}
	rateCache := provider.NewCache[domainpricing.ProviderRate](cfg.ProviderCacheTTL, nil)
	listingCache := provider.NewCache[domainlistings.Listing](cfg.ProviderCacheTTL, nil)
	deps.Rates = &provider.RateClient{
		Client:  httpClient,
		BaseURL: cfg.ProviderURL,
		APIKey:  cfg.ProviderAPIKey,
		Cache:   rateCache,
		Logger:  logger,
	}
	deps.Listings = &provider.ListingClient{
		Client:  httpClient,
		BaseURL: cfg.ProviderURL,
		APIKey:  cfg.ProviderAPIKey,
		Cache:   listingCache,
		Logger:  logger,
	}
	infra.jobs = append(infra.jobs,
		schedule.PruneJob("rate-cache-prune", cfg.CachePruneSchedule, rateCache, cfg.ProviderStaleTTL, logger),
		schedule.PruneJob("listing-cache-prune", cfg.CachePruneSchedule, listingCache, cfg.ProviderStaleTTL, logger),
	)
	logger.Info("pricing provider configured", "url", cfg.ProviderURL, "cache_ttl", cfg.ProviderCacheTTL)
}

func wireArchive(cfg config.Config, logger *slog.Logger, infra *infrastructure, deps *dependencies) error {
	if !cfg.ArchiveEnabled() {
		return nil
	}
	archive, err := s3.NewArchive(s3.Options{
		Endpoint:      cfg.S3Endpoint,
		UseSSL:        cfg.S3UseSSL,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicEndpoint,
	}, logger)
	if err != nil {
		return err
	}
	deps.Archive = archive
	infra.checks["s3"] = archive.Ping
	return nil
}

func logFixtureError(logger *slog.Logger, path string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("listing fixtures file not found, skipping", "path", path)
		return
	}
	logger.Warn("listing fixtures load failed", "path", path, "error", err)
}
