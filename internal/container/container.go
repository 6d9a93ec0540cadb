package container

import (
	"fmt"
	"net/http"

	"go-land-inspector/internal/config"
	"go-land-inspector/internal/factory"
	"go-land-inspector/internal/llm"
	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/observer"
	"go-land-inspector/internal/service"
	"go-land-inspector/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	generator       llm.Generator
	metrics         *observer.Metrics
	publisher       observer.Subject
	analysisService service.AnalysisService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container. Metrics are
// registered with the default Prometheus registry, so it is built once per process.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	generator, err := factory.NewComponentFactory().GeneratorFactory.CreateGenerator(factory.GeminiGenerator, factory.GeneratorConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	return build(cfg, generator, observer.NewMetrics()), nil
}

func build(cfg *config.Config, generator llm.Generator, metrics *observer.Metrics) *Container {
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(observer.NewMetricsObserver(metrics))

	opts := service.DefaultOptions().WithPublisher(publisher)
	opts.MaxAttempts = cfg.MaxAttempts
	opts.AttemptTimeout = cfg.ModelTimeout
	opts.Model = cfg.GeminiModel

	analysisService := service.NewAnalysisService(generator, opts)
	handler := transport.NewHandler(analysisService, metrics, cfg)

	return &Container{
		config:          cfg,
		generator:       generator,
		metrics:         metrics,
		publisher:       publisher,
		analysisService: analysisService,
		handler:         handler,
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// AnalysisService returns the wired analysis service
func (c *Container) AnalysisService() service.AnalysisService {
	return c.analysisService
}
