package di

import (
	"context"
	"fmt"
	"time"

	"PitchDeck/internal/domain/repository"
	"PitchDeck/internal/handler/api"
	mid "PitchDeck/internal/middleware"
	internalrepo "PitchDeck/internal/repository"
	"PitchDeck/internal/service/ratelimit"
	"PitchDeck/internal/services/charts"
	"PitchDeck/internal/usecase"
	"PitchDeck/pkg/cache"
	pkgch "PitchDeck/pkg/clickhouse"
	"PitchDeck/pkg/config"
	xhttp "PitchDeck/pkg/http"
	pkgkafka "PitchDeck/pkg/kafka"
	"PitchDeck/pkg/logger"
	"PitchDeck/pkg/metrics"
	"PitchDeck/pkg/server"
)

const memoryEventsPerSession = 500

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "pitchdeck",
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache connects to Redis when redis.enabled is set; otherwise it
// returns nil and every cache stays in process.
func ProvideRedisCache(cfg *config.Config, l *logger.Logger) (*cache.RedisCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		cache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdle),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", logger.String("addr", cfg.RedisAddr()))
	return rc, func() { _ = rc.Close() }, nil
}

// ProvideCache returns the chart cache: a bounded memory LRU, layered over
// Redis when it is enabled. Sessions never live here.
func ProvideCache(rc *cache.RedisCache, cfg *config.Config) (cache.Service, func()) {
	if rc == nil {
		mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Charts.MemoryEntries))
		return mem, func() { _ = mem.Close() }
	}
	lc := cache.NewLayeredCache(rc,
		cache.WithLayeredMemory(cfg.Charts.MemoryEntries, time.Minute),
	)
	return lc, func() { _ = lc.Close() }
}

// ProvideSessionStore keeps sessions in Redis when enabled, else in a memory
// cache of their own so chart churn cannot evict them.
func ProvideSessionStore(rc *cache.RedisCache, cfg *config.Config) (repository.SessionStore, func()) {
	if rc != nil {
		return internalrepo.NewCacheSessionStore(rc, cfg.Deck.SessionTTL), func() {}
	}
	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Deck.MaxSessions))
	return internalrepo.NewCacheSessionStore(mem, cfg.Deck.SessionTTL), func() { _ = mem.Close() }
}

func ProvideDeckSource(cfg *config.Config) repository.DeckSource {
	return internalrepo.NewYAMLDeckSource(cfg.Deck.Path)
}

// ProvideKafkaProducer creates a Kafka producer when Kafka is the event
// backend. The publisher owns it and closes it on shutdown.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != usecase.BackendKafka {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithDelivery(cfg.Kafka.RequiredAcks, cfg.Kafka.Producer.MaxAttempts, cfg.Kafka.Compression),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithKeyedPartitions(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideClickHouseClient connects and ensures the events table when
// ClickHouse is the event backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Backend.Type != usecase.BackendClickHouse {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, 5*time.Minute),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, pkgch.EventsSchema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideEventStorage returns the ClickHouse table, or the in-process store
// for the other backends.
func ProvideEventStorage(client *pkgch.Client, cfg *config.Config) repository.Storage {
	if client != nil {
		return internalrepo.NewClickHouseStorage(client.DB(), cfg.ClickHouse.Database+".deck_events")
	}
	return internalrepo.NewMemoryStorage(memoryEventsPerSession)
}

func ProvideEventProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.EventProcessor {
	return usecase.NewEventProcessor(pub, store, metrics, cfg.Backend.Type)
}

func ProvideEventPipeline(
	proc *usecase.EventProcessor,
	metrics repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *mid.EventPipeline {
	return mid.NewEventPipeline(proc, metrics,
		mid.WithMaxRPS(cfg.Backend.MaxPerSecond),
		mid.WithBufferSize(cfg.Backend.BufferSize),
		mid.WithBatch(cfg.Backend.BatchSize, cfg.Backend.BatchTimeout),
		mid.WithBackoff(50*time.Millisecond, cfg.Backend.BatchTimeout*2),
		mid.WithPipelineLogger(l.With(logger.String("component", "event_pipeline"))),
	)
}

func ProvideRoadmapWorker(
	l *logger.Logger,
	metrics repository.Metrics,
	pipeline *mid.EventPipeline,
	cfg *config.Config,
) *usecase.RoadmapWorker {
	return usecase.NewRoadmapWorker(l.With(logger.String("component", "roadmap_worker")), metrics,
		usecase.WithWorkers(cfg.Worker.Workers),
		usecase.WithQueueSize(cfg.Worker.QueueSize),
		usecase.WithEventSink(pipeline),
	)
}

// ProvideDeckService loads the deck once at startup; a broken deck fails boot.
func ProvideDeckService(
	source repository.DeckSource,
	store repository.SessionStore,
	pipeline *mid.EventPipeline,
	metrics repository.Metrics,
	l *logger.Logger,
	worker *usecase.RoadmapWorker,
	history repository.Storage,
	cfg *config.Config,
) (*usecase.DeckService, error) {
	opts := []usecase.DeckOption{
		usecase.WithSwipeThreshold(cfg.Deck.SwipePx),
		usecase.WithRoadmapPreparer(worker),
	}
	// kafka events leave the process; there is nothing local to query
	if cfg.Backend.Type != usecase.BackendKafka {
		opts = append(opts, usecase.WithEventStorage(history))
	}

	svc := usecase.NewDeckService(source, store, pipeline, metrics, l, opts...)
	if err := svc.Reload(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

func ProvideChartRenderer() *charts.Renderer {
	return charts.NewRenderer()
}

func ProvideChartService(
	deck *usecase.DeckService,
	renderer *charts.Renderer,
	c cache.Service,
	metrics repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ChartService {
	return usecase.NewChartService(deck, renderer, c, metrics, l,
		usecase.WithChartCacheTTL(cfg.Charts.CacheTTL),
		usecase.WithDefaultChartSize(cfg.Charts.Width, cfg.Charts.Height),
	)
}

func ProvideExportService(
	deck *usecase.DeckService,
	chartSvc *usecase.ChartService,
	metrics repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ExportService {
	return usecase.NewExportService(deck, chartSvc, metrics, l,
		usecase.WithPrintDelay(cfg.Export.PrintDelay),
		usecase.WithCompany(cfg.Export.Company),
	)
}

func ProvideExportLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Export.RateCapacity, cfg.Export.RateRefill)
}

func ProvideHandlers(
	l *logger.Logger,
	deck *usecase.DeckService,
	chartSvc *usecase.ChartService,
	worker *usecase.RoadmapWorker,
	exportSvc *usecase.ExportService,
	limiter *ratelimit.Limiter,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewDeckHandler(l, deck, chartSvc),
		api.NewSessionHandler(l, deck),
		api.NewChartHandler(l, chartSvc),
		api.NewRoadmapHandler(l, worker),
		api.NewExportHandler(l, exportSvc, limiter),
	}
}

// ProvideHTTPServer builds the echo server; /healthz checks event storage and
// Redis when it is in use.
func ProvideHTTPServer(
	l *logger.Logger,
	handlers []xhttp.Handler,
	history repository.Storage,
	rc *cache.RedisCache,
	cfg *config.Config,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORSOrigins...),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithHealthCheck("event storage", history.Health),
	}
	if rc != nil {
		opts = append(opts, xhttp.WithHealthCheck("redis", func(ctx context.Context) error {
			return rc.Client().Ping(ctx).Err()
		}))
	}
	return xhttp.NewServer(l, handlers, opts...)
}

// ProvideApp assembles the application. Error logs are shipped to Kafka
// when log.collect is set and a producer exists.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	worker *usecase.RoadmapWorker,
	pipeline *mid.EventPipeline,
	proc *usecase.EventProcessor,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
) *server.App {
	if cfg.Log.Collect && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogTopic,
			Publisher:      producer,
		})
	}
	return server.New(cfg, l, srv, worker, pipeline, proc, limiter)
}
