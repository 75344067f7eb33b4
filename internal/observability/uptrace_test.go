package observability

import (
	"context"
	"testing"

	"github.com/riskibarqy/tippspiel/internal/config"
	"github.com/riskibarqy/tippspiel/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		AppEnv:     config.EnvDev,
		UptraceDSN: "   ",
	}

	shutdown := InitUptrace(cfg, "dev", logging.NewNop())
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}
