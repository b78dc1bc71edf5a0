package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/tracer"
	"github.com/FACorreiaa/go-ellarises/internal/pkg/config"
)

// ObservabilityShutdownFunc is the function type returned by InitObservability
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and application metrics
func InitObservability(cfg config.ObservabilityConfig, logger *zap.Logger) (*metrics.AppMetrics, ObservabilityShutdownFunc, error) {
	shutdown, err := tracer.InitProviders(cfg.ServiceName, cfg.OTLPEndpoint, cfg.MetricsAddr, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	m := metrics.Get()
	logger.Info("Observability initialized", zap.String("metrics_endpoint", cfg.MetricsAddr+"/metrics"))

	return m, shutdown, nil
}
