package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/tippspiel/external/footballdata"
	"github.com/riskibarqy/tippspiel/internal/config"
	"github.com/riskibarqy/tippspiel/internal/domain/tip"
	"github.com/riskibarqy/tippspiel/internal/interfaces/console"
	"github.com/riskibarqy/tippspiel/internal/platform/logging"
	"github.com/riskibarqy/tippspiel/internal/platform/resilience"
	"github.com/riskibarqy/tippspiel/internal/usecase"
)

type Command string

const (
	CommandUsers Command = "users"
	CommandTable Command = "table"
	CommandStats Command = "of"
)

// Request is one CLI invocation: a report and, for CommandStats, the user.
type Request struct {
	Command   Command
	ShortCode string
}

// App runs reports against an engine built from the game configuration.
type App struct {
	engine  *usecase.ScoreEngine
	printer *console.Printer
	logger  *logging.Logger
}

var appTracer = otel.Tracer("tippspiel/internal/app")

func New(cfg config.Config, provider usecase.ResultProvider, out io.Writer, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	engine, err := BuildEngine(cfg, provider, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		engine:  engine,
		printer: console.NewPrinter(out),
		logger:  logger,
	}, nil
}

// NewProvider builds the football-data client from the provider settings.
func NewProvider(cfg config.Config, logger *logging.Logger) (*footballdata.Client, error) {
	client, err := footballdata.NewClient(footballdata.ClientConfig{
		Endpoint: cfg.Provider.Endpoint,
		Token:    cfg.Provider.APIKey,
		Proxy:    cfg.Provider.Proxy,
		Timeout:  cfg.Provider.Timeout,
		Retry: resilience.RetryConfig{
			MaxRetries: cfg.Provider.MaxRetries,
			Wait:       cfg.Provider.RetryWait,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
	}
	return client, nil
}

// BuildEngine defines the configured matches, then registers users and their
// tips in file order. A user submitting more tips than matches keeps the
// accepted ones; the surplus is dropped with a warning.
func BuildEngine(cfg config.Config, provider usecase.ResultProvider, logger *logging.Logger) (*usecase.ScoreEngine, error) {
	if logger == nil {
		logger = logging.Default()
	}

	engine := usecase.NewScoreEngine(provider, usecase.WithLogger(logger))
	for _, m := range cfg.Matches {
		if err := engine.DefineMatch(m.Home, m.Away); err != nil {
			return nil, fmt.Errorf("define match %s-%s: %w", m.Home, m.Away, err)
		}
	}

	for _, user := range cfg.Users {
		if err := engine.AddUser(user.GivenName, user.SurName, user.ShortCode); err != nil {
			return nil, fmt.Errorf("add user %q: %w", user.ShortCode, err)
		}

		for i, pair := range user.Tips {
			err := engine.AddUserTip(user.ShortCode, tip.New(pair[0], pair[1]))
			if errors.Is(err, usecase.ErrTipOverflow) {
				logger.Warn("tip submission rejected, more tips than matches",
					"user", user.ShortCode,
					"accepted", i,
					"submitted", len(user.Tips),
				)
				break
			}
			if err != nil {
				return nil, fmt.Errorf("add tip %d of user %q: %w", i+1, user.ShortCode, err)
			}
		}

		if n := len(user.Tips); n > 0 && n < len(cfg.Matches) {
			logger.Warn("incomplete tip sheet, user scores no points",
				"user", user.ShortCode,
				"tips", n,
				"matches", len(cfg.Matches),
			)
		}
	}

	return engine, nil
}

// Run executes one report. Reports that need results refresh them first.
func (a *App) Run(ctx context.Context, req Request) error {
	ctx, span := appTracer.Start(ctx, "app.Run")
	defer span.End()
	span.SetAttributes(attribute.String("tipps.command", string(req.Command)))

	switch req.Command {
	case CommandUsers:
		return a.printer.Users(a.engine.ListUsers())

	case CommandTable:
		if err := a.refresh(ctx); err != nil {
			return err
		}
		a.engine.ComputeAllPoints()
		return a.printer.Table(a.engine.RankedResults())

	case CommandStats:
		user, err := a.engine.User(req.ShortCode)
		if err != nil {
			return err
		}
		if err := a.refresh(ctx); err != nil {
			return err
		}
		points, err := a.engine.ComputePoints(user.ShortCode)
		if err != nil {
			return err
		}
		stats, err := a.engine.StatsFor(user.ShortCode)
		if err != nil {
			return err
		}
		a.logger.DebugContext(ctx, "user stats computed", "user", user.ShortCode, "points", points, "matches", len(stats))
		return a.printer.Stats(user, stats, a.engine.ResultLabelWidth())

	default:
		return fmt.Errorf("%w: unknown command %q", usecase.ErrInvalidInput, req.Command)
	}
}

func (a *App) refresh(ctx context.Context) error {
	report, err := a.engine.RefreshResults(ctx)
	if err != nil {
		return err
	}
	if len(report.Unmatched) > 0 {
		a.logger.WarnContext(ctx, "finished results without a configured match", "count", len(report.Unmatched))
	}
	return nil
}
