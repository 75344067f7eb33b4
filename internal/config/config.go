package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/tippspiel/internal/platform/logging"
)

// ErrConfig marks every failure to read, parse or validate the game configuration.
var ErrConfig = errors.New("invalid configuration")

const DefaultFileName = ".tipconfig.yml"

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config is the fully resolved game configuration: the YAML game file with
// environment overrides applied.
type Config struct {
	AppEnv     string
	Path       string
	Provider   ProviderConfig
	Matches    []MatchConfig
	Users      []UserConfig
	LogLevel   logging.Level
	LogFormat  string
	UptraceDSN string
}

type ProviderConfig struct {
	APIKey     string
	Proxy      string
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

type MatchConfig struct {
	Home string
	Away string
}

// UserConfig keeps the file order of users so ranking ties stay reproducible.
type UserConfig struct {
	ShortCode string
	GivenName string
	SurName   string
	Tips      [][2]int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns ~/.tipconfig.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", configError(crerr.Wrap(err, "resolve home directory"))
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Load reads the game file at path (DefaultPath when empty) and applies the
// TIPPS_* environment overrides.
func Load(path string) (Config, error) {
	path, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configError(crerr.Wrapf(err, "read %s", path))
	}

	doc, err := Parse(raw)
	if err != nil {
		return Config{}, err
	}

	cfg, err := resolve(doc)
	if err != nil {
		return Config{}, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes and validates a game document without touching the environment.
func Parse(raw []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, configError(crerr.Wrap(err, "decode yaml"))
	}
	if err := validate.Struct(doc); err != nil {
		return Document{}, configError(describeValidation(err))
	}
	for _, user := range doc.Game.Users {
		if err := validate.Struct(user); err != nil {
			return Document{}, configError(fmt.Errorf("user %q: %w", user.Code, describeValidation(err)))
		}
	}
	return doc, nil
}

func resolve(doc Document) (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, configError(err)
	}

	timeout, err := time.ParseDuration(getEnv("TIPPS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, configError(fmt.Errorf("parse TIPPS_TIMEOUT: %w", err))
	}
	if timeout <= 0 {
		return Config{}, configError(fmt.Errorf("TIPPS_TIMEOUT must be > 0"))
	}

	maxRetries, err := getEnvAsInt("TIPPS_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, configError(fmt.Errorf("parse TIPPS_MAX_RETRIES: %w", err))
	}
	if maxRetries < 0 {
		return Config{}, configError(fmt.Errorf("TIPPS_MAX_RETRIES must be >= 0"))
	}

	retryWait, err := time.ParseDuration(getEnv("TIPPS_RETRY_WAIT", "1s"))
	if err != nil {
		return Config{}, configError(fmt.Errorf("parse TIPPS_RETRY_WAIT: %w", err))
	}
	if retryWait <= 0 {
		return Config{}, configError(fmt.Errorf("TIPPS_RETRY_WAIT must be > 0"))
	}

	logFormat, err := parseLogFormat(getEnv("TIPPS_LOG_FORMAT", logging.FormatConsole))
	if err != nil {
		return Config{}, configError(err)
	}

	provider := doc.Game.DataProvider
	cfg := Config{
		AppEnv: appEnv,
		Provider: ProviderConfig{
			APIKey:     strings.TrimSpace(getEnv("TIPPS_API_KEY", provider.APIKey)),
			Proxy:      strings.TrimSpace(getEnv("TIPPS_PROXY", provider.Proxy)),
			Endpoint:   strings.TrimSpace(getEnv("TIPPS_ENDPOINT", provider.Endpoint)),
			Timeout:    timeout,
			MaxRetries: maxRetries,
			RetryWait:  retryWait,
		},
		LogLevel:   logging.ParseLevel(getEnv("TIPPS_LOG_LEVEL", "warn"), logging.LevelWarn),
		LogFormat:  logFormat,
		UptraceDSN: strings.TrimSpace(getEnv("TIPPS_UPTRACE_DSN", "")),
	}
	if appEnv == EnvProd && cfg.Provider.APIKey == "" {
		return Config{}, configError(fmt.Errorf("api key is required when APP_ENV=%s: set Game.DataProvider.ApiKey or TIPPS_API_KEY", EnvProd))
	}

	cfg.Matches = make([]MatchConfig, 0, len(doc.Game.Event.Matches))
	for _, pair := range doc.Game.Event.Matches {
		cfg.Matches = append(cfg.Matches, MatchConfig{
			Home: strings.TrimSpace(pair[0]),
			Away: strings.TrimSpace(pair[1]),
		})
	}

	cfg.Users = make([]UserConfig, 0, len(doc.Game.Users))
	for _, user := range doc.Game.Users {
		tips := make([][2]int, 0, len(user.Tips))
		for _, t := range user.Tips {
			tips = append(tips, [2]int{t[0], t[1]})
		}
		cfg.Users = append(cfg.Users, UserConfig{
			ShortCode: strings.TrimSpace(user.Code),
			GivenName: strings.TrimSpace(user.GivenName),
			SurName:   strings.TrimSpace(user.surname()),
			Tips:      tips,
		})
	}

	return cfg, nil
}

func configError(err error) error {
	return fmt.Errorf("%w: %w", ErrConfig, err)
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule += "=" + fieldErr.Param()
		}
		parts = append(parts, fmt.Sprintf("%s violates %s", fieldErr.Namespace(), rule))
	}
	return errors.New(strings.Join(parts, "; "))
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPath()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", configError(crerr.Wrap(err, "resolve home directory"))
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func parseLogFormat(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case logging.FormatConsole, logging.FormatJSON:
		return value, nil
	default:
		return "", fmt.Errorf("invalid TIPPS_LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatConsole, logging.FormatJSON)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
