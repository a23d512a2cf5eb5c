package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-storefront-service/config"
	"github.com/jeffleon2/draftea-storefront-service/internal/database"
	handlers "github.com/jeffleon2/draftea-storefront-service/internal/handlers"
	"github.com/jeffleon2/draftea-storefront-service/internal/idempotency"
	"github.com/jeffleon2/draftea-storefront-service/internal/metrics"
	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/jeffleon2/draftea-storefront-service/internal/notifier"
	"github.com/jeffleon2/draftea-storefront-service/internal/publisher"
	"github.com/jeffleon2/draftea-storefront-service/internal/repository/memory"
	"github.com/jeffleon2/draftea-storefront-service/internal/repository/posgrest"
	"github.com/jeffleon2/draftea-storefront-service/internal/service"
	"github.com/jeffleon2/draftea-storefront-service/internal/telemetry"
	"github.com/jeffleon2/draftea-storefront-service/internal/verifier"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var registerMetrics sync.Once

type App struct {
	config  *config.Config
	Router  *gin.Engine
	closers []func(context.Context) error
}

// Initialize builds the webhook pipeline. Kafka, Redis and tracing are
// optional and stay off when their endpoints are not configured.
func (a *App) Initialize(ctx context.Context, cfg *config.Config) error {
	a.config = cfg
	configureLogging(cfg)

	registerMetrics.Do(func() {
		metrics.RegisterMetrics(prometheus.DefaultRegisterer)
	})

	if err := a.initTracing(ctx); err != nil {
		return err
	}

	store, err := a.initOrderStore(ctx)
	if err != nil {
		return err
	}

	eventVerifier := verifier.New(cfg.Stripe.WebhookSecret, cfg.Stripe.WebhookTolerance)
	reconciler := service.NewOrderReconciler(store, cfg.Store.Timeout)
	orderPaidNotifier := notifier.NewOrderPaidNotifier(a.initPublisher(), a.initDeduper(), cfg.Kafka.OrdersPaidTopic)
	webhookHandler := handlers.NewWebhookHandler(eventVerifier, reconciler, orderPaidNotifier, cfg.Stripe.MaxBodyBytes, cfg.Kafka.NotifyTimeout)

	if !config.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}
	a.Router = gin.Default()
	a.Router.Use(gin.Recovery())
	a.RegisterRoutes(webhookHandler)

	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and
// releases every backend opened by Initialize.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.APP.PORT),
		Handler:      otelhttp.NewHandler(a.Router, a.config.OTEL.ServiceName),
		ReadTimeout:  a.config.APP.ReadTimeout,
		WriteTimeout: a.config.APP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("🚀 listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			closeErr := a.Close(context.Background())
			return errors.Join(fmt.Errorf("http server: %w", err), closeErr)
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.APP.ShutdownTimeout)
	defer cancel()

	shutdownErr := srv.Shutdown(shutdownCtx)
	return errors.Join(shutdownErr, a.Close(shutdownCtx))
}

// Close releases backends in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) initTracing(ctx context.Context) error {
	if a.config.OTEL.Endpoint == "" {
		logrus.Info("tracing disabled, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT not set")
		return nil
	}
	shutdown, err := telemetry.InitTracer(ctx, a.config.OTEL.ServiceName, a.config.OTEL.Endpoint)
	if err != nil {
		return err
	}
	a.onClose(shutdown)
	return nil
}

func (a *App) initOrderStore(ctx context.Context) (service.OrderStore, error) {
	if a.config.Store.Driver == config.StoreDriverMemory {
		logrus.Warn("using in-memory order store, paid flags are lost on restart")
		return memory.NewOrderStore(database.DemoOrders()), nil
	}

	db, err := a.config.DB.GormConnect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.onClose(func(context.Context) error { return sqlDB.Close() })

	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	repo := posgrest.NewOrderRepository(db)
	if config.IsLocal() {
		if err := database.SeedOrders(ctx, repo, database.DemoOrders()); err != nil {
			return nil, fmt.Errorf("failed to seed orders: %w", err)
		}
	}
	return repo, nil
}

func (a *App) initPublisher() notifier.Publisher {
	brokers := splitList(a.config.Kafka.Brokers)
	if len(brokers) == 0 {
		logrus.Warn("KAFKA_BROKERS not set, order paid notifications disabled")
		return nil
	}

	p := publisher.NewKafkaPublisher(brokers, []string{a.config.Kafka.OrdersPaidTopic}, a.config.Kafka.GetRetryConfig())
	a.onClose(func(context.Context) error { return p.Close() })
	return p
}

func (a *App) initDeduper() notifier.Deduper {
	if a.config.Redis.Addr == "" {
		logrus.Warn("REDIS_ADDR not set, order paid notifications are not deduplicated")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})
	a.onClose(func(context.Context) error { return rdb.Close() })
	return idempotency.NewStore(rdb, a.config.Redis.DedupTTL)
}

func configureLogging(cfg *config.Config) {
	if !config.IsLocal() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.APP.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.APP.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
