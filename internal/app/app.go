package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/events"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/gateway"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/repository"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/service"
	httpt "github.com/jfsanchez2k/webflow-ecommerce/internal/transport/http"
	"github.com/jfsanchez2k/webflow-ecommerce/migrations"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/cache"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/metric"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(ctx, eg, &cfg.Metrics, log)

	db, dbErr := initDatabase(&cfg.Postgres, log)
	if dbErr != nil {
		return dbErr
	}
	defer db.Close()

	if err := postgres.RunMigrations(migrations.FS, &cfg.Postgres, log); err != nil {
		return fmt.Errorf("app.Run: migrations: %w", err)
	}

	txManager, txErr := transaction.NewManager(
		db,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
	)
	if txErr != nil {
		return fmt.Errorf("app.Run: transaction manager: %w", txErr)
	}

	orderCache, cacheErr := initCache(&cfg.Cache, log, metrics)
	if cacheErr != nil {
		return cacheErr
	}
	defer orderCache.StopCleanup()

	publisher, closePublisher := initPublisher(cfg, log, metrics)
	defer closePublisher()

	checkoutService := service.NewCheckoutService(
		gateway.NewClient(&cfg.Gateway, log.With("component", "gateway client"), metrics.Gateway()),
		repository.NewPaymentOrderRepository(db),
		txManager,
		publisher,
		&cfg.Gateway,
		log.With("component", "checkout service"),
		orderCache,
		cfg.Cache.TTL,
	)
	catalogService := service.NewCatalogService()
	userService := service.NewUserService(
		repository.NewUserRepository(db),
		log.With("component", "user service"),
	)

	if serverErr := initHTTPServer(
		ctx, eg, &cfg.HTTP,
		checkoutService, catalogService, userService,
		log, metrics,
	); serverErr != nil {
		return serverErr
	}

	return waitForShutdown(eg)
}

const _metricsShutdownTimeout = 5 * time.Second

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), _metricsShutdownTimeout)
		defer cancel()

		log.Infow("stopping metrics server")
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app.initMetrics: shutdown: %w", err)
		}
		return nil
	})

	return metrics
}

func initDatabase(cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.New(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}
	return db, nil
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
	metrics metric.Factory,
) (cache.Cache[uuid.UUID, *entity.PaymentOrder], error) {
	orderCache, err := cache.NewLRU[uuid.UUID, *entity.PaymentOrder](
		"payment_order",
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	orderCache.StartCleanup(cfg.CleanupInterval)
	return orderCache, nil
}

func initPublisher(
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (service.EventPublisher, func()) {
	if !cfg.Events.Enabled {
		log.Infow("event publishing disabled")
		return events.NopPublisher{}, func() {}
	}

	publisher := events.NewKafkaPublisher(
		cfg.Events,
		log.With("component", "event publisher"),
		metrics.Events(),
	)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Errorw("event publisher close failed", "error", err)
		}
	}
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.HTTP,
	checkoutService *service.CheckoutService,
	catalogService *service.CatalogService,
	userService *service.UserService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	httpServer, err := httpt.NewHTTPServer(
		httpt.NewHandler(
			checkoutService,
			catalogService,
			userService,
			log,
			metrics.HTTP(),
			cfg.RequestTimeout,
		),
		cfg,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
