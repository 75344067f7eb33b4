package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/tippspiel/internal/app"
	"github.com/riskibarqy/tippspiel/internal/config"
	"github.com/riskibarqy/tippspiel/internal/interfaces/console"
	"github.com/riskibarqy/tippspiel/internal/observability"
	"github.com/riskibarqy/tippspiel/internal/platform/id"
	"github.com/riskibarqy/tippspiel/internal/platform/logging"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("tipps", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath string
		showUsers  bool
		showTable  bool
		statsOf    string
	)
	flags.StringVar(&configPath, "c", "", "use the given game configuration (default ~/"+config.DefaultFileName+")")
	flags.StringVar(&configPath, "config", "", "use the given game configuration (default ~/"+config.DefaultFileName+")")
	flags.BoolVar(&showUsers, "users", false, "list the participating users")
	flags.BoolVar(&showTable, "table", false, "print the scores table")
	flags.StringVar(&statsOf, "of", "", "print the points per game of the user with this short code")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Track the state of a football tip game.")
		fmt.Fprintln(flags.Output(), "\nUsage: tipps [-c FILE] (--users | --table | --of CODE)")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return console.ExitOK
		}
		return console.ExitConfig
	}

	req, ok := requestFromFlags(showUsers, showTable, statsOf)
	if !ok {
		flags.SetOutput(stdout)
		flags.Usage()
		return console.ExitOK
	}

	bootstrap := logging.New(logging.FormatConsole, logging.LevelWarn, stderr)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootstrap.Warn("ignore unreadable .env file", "error", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fail(stderr, bootstrap, err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, stderr).With("run_id", id.NewUUIDGenerator().NewID())
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdown := observability.InitUptrace(cfg, version, logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("flush traces failed", "error", err)
		}
	}()

	logger.Debug("config loaded", "path", cfg.Path, "matches", len(cfg.Matches), "users", len(cfg.Users), "command", string(req.Command))

	provider, err := app.NewProvider(cfg, logger)
	if err != nil {
		return fail(stderr, logger, err)
	}
	tipps, err := app.New(cfg, provider, stdout, logger)
	if err != nil {
		return fail(stderr, logger, err)
	}
	if err := tipps.Run(ctx, req); err != nil {
		return fail(stderr, logger, err)
	}
	return console.ExitOK
}

// requestFromFlags applies the action precedence --users, --table, --of.
func requestFromFlags(showUsers, showTable bool, statsOf string) (app.Request, bool) {
	switch {
	case showUsers:
		return app.Request{Command: app.CommandUsers}, true
	case showTable:
		return app.Request{Command: app.CommandTable}, true
	case statsOf != "":
		return app.Request{Command: app.CommandStats, ShortCode: statsOf}, true
	default:
		return app.Request{}, false
	}
}

func fail(stderr io.Writer, logger *logging.Logger, err error) int {
	mapped := console.MapError(err)
	logger.Debug("run failed", "exit_code", mapped.ExitCode, "error", err)
	fmt.Fprintf(stderr, "tipps: %s: %v\n", mapped.Reason, err)
	return mapped.ExitCode
}
