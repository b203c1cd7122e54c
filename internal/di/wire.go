//go:build wireinject
// +build wireinject

package di

import (
	"PitchDeck/pkg/config"
	"PitchDeck/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideRedisCache,
		ProvideCache,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Repositories
		ProvideDeckSource,
		ProvideSessionStore,
		ProvideEventPublisher,
		ProvideEventStorage,

		// Use cases
		ProvideEventProcessor,
		ProvideEventPipeline,
		ProvideRoadmapWorker,
		ProvideDeckService,
		ProvideChartRenderer,
		ProvideChartService,
		ProvideExportService,
		ProvideExportLimiter,

		// HTTP
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
