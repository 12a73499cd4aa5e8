package container

import (
	"fmt"
	"net/http"

	"pupilscreen/internal/config"
	"pupilscreen/internal/detector"
	"pupilscreen/internal/factory"
	"pupilscreen/internal/logger"
	"pupilscreen/internal/measure"
	"pupilscreen/internal/observer"
	"pupilscreen/internal/quality"
	"pupilscreen/internal/repository"
	"pupilscreen/internal/service"
	"pupilscreen/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	screening service.ScreeningService
	metrics   *observer.MetricsObserver
	handler   http.Handler
}

// NewContainer builds the dependency graph from configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	d := detector.NewDefault()

	storageFactory := factory.NewStorageFactory(cfg)
	archive, err := storageFactory.CreateArchive()
	if err != nil {
		return nil, fmt.Errorf("failed to create capture archive: %w", err)
	}
	captureRepo := repository.NewCaptureRepository(storageFactory.CreateFetcher(), archive)

	chain := factory.NewProviderFactory(cfg, d).BuildChain()

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	screening := service.NewScreeningService(
		captureRepo,
		chain,
		d,
		quality.NewValidator(),
		measure.NewCalculator(cfg.IrisDiameterMM, cfg.AnisocoriaThreshold),
		events,
		cfg.BatchWorkers,
		cfg.DetectionTimeout,
	)

	return &Container{
		config:    cfg,
		screening: screening,
		metrics:   metrics,
		handler:   transport.NewHandler(screening, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Screening returns the screening service
func (c *Container) Screening() service.ScreeningService {
	return c.screening
}
