package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mid "PitchDeck/internal/middleware"
	"PitchDeck/internal/service/ratelimit"
	"PitchDeck/internal/usecase"
	"PitchDeck/pkg/config"
	xhttp "PitchDeck/pkg/http"
	applogger "PitchDeck/pkg/logger"
)

const limiterPruneEvery = time.Minute

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	worker     *usecase.RoadmapWorker
	pipeline   *mid.EventPipeline
	processor  *usecase.EventProcessor
	limiter    *ratelimit.Limiter
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	worker *usecase.RoadmapWorker,
	pipeline *mid.EventPipeline,
	processor *usecase.EventProcessor,
	limiter *ratelimit.Limiter,
) *App {
	return &App{
		cfg:        cfg,
		log:        l,
		httpServer: httpServer,
		worker:     worker,
		pipeline:   pipeline,
		processor:  processor,
		limiter:    limiter,
	}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.pipeline.Start(runCtx)
	a.log.Info("event pipeline started", applogger.String("backend", a.processor.Backend()))

	if err := a.worker.Start(runCtx); err != nil {
		a.log.Error("roadmap worker start error", applogger.Error(err))
		a.pipeline.Stop()
		return err
	}
	a.log.Info("roadmap worker started", applogger.Int("workers", a.cfg.Worker.Workers))

	go a.pruneLimiter(runCtx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(limiterPruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(10 * limiterPruneEvery); n > 0 {
				a.log.Debug("export limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown stops HTTP intake first, then the worker and the event pipeline.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	a.worker.Stop()
	a.pipeline.Stop()
	if n := a.pipeline.Buffered(); n > 0 {
		a.log.Warn("events still buffered at shutdown", applogger.Int("count", n))
	}

	// the collector publishes through the producer the processor closes
	a.log.RemoveCollector()
	a.processor.Close()

	a.log.Info("shutdown complete")
	return firstErr
}
