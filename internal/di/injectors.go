//go:build wireinject
// +build wireinject

package di

import (
	"f2g/internal"
	"f2g/internal/controllers"
	"f2g/internal/providers"
	"f2g/internal/scheduler"
	"f2g/internal/services"
	"f2g/internal/storage"
	"f2g/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewRateLimiter,

		storage.NewStore,
		storage.NewZstdCompressor,
		storage.NewFileManager,
		services.NewUsageService,
		services.NewConversionService,
		scheduler.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
