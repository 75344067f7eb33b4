package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/tippspiel/internal/config"
	"github.com/riskibarqy/tippspiel/internal/platform/logging"
)

const ServiceName = "tippspiel"

// InitUptrace configures global OpenTelemetry providers for Uptrace when a DSN
// is configured. The returned shutdown flushes pending spans.
func InitUptrace(cfg config.Config, version string, logger *logging.Logger) func(context.Context) error {
	if logger == nil {
		logger = logging.Default()
	}

	if strings.TrimSpace(cfg.UptraceDSN) == "" {
		logger.Debug("uptrace disabled", "reason", "TIPPS_UPTRACE_DSN empty")
		return func(context.Context) error { return nil }
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(ServiceName),
		uptrace.WithServiceVersion(version),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Debug("uptrace enabled",
		"service_name", ServiceName,
		"service_version", version,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown
}
