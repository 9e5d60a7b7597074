package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jooshwells/nanta-mobile/internal/infra/config"
)

// Provider represents a telemetry provider handle. Per-request HTTP metrics
// live in the middleware package; this covers process-level collectors.
type Provider struct {
	appInfo   *prometheus.GaugeVec
	startTime prometheus.Gauge
}

// Attach registers process-level collectors and returns a provider handle.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	appInfo := promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nanta",
		Name:      "app_info",
		Help:      "Static application metadata.",
	}, []string{"service", "environment"})
	appInfo.WithLabelValues(cfg.App.Name, cfg.App.Env).Set(1)

	startTime := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nanta",
		Name:      "app_start_time_seconds",
		Help:      "Unix timestamp of process start.",
	})
	startTime.Set(float64(time.Now().Unix()))

	return &Provider{
		appInfo:   appInfo,
		startTime: startTime,
	}, nil
}
