package footballdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/tippspiel/internal/platform/logging"
	"github.com/riskibarqy/tippspiel/internal/platform/resilience"
	"github.com/riskibarqy/tippspiel/internal/usecase"
)

const (
	DefaultEndpoint = "http://api.football-data.org/v1/soccerseasons/424/fixtures"
	authTokenHeader = "X-Auth-Token"
	defaultTimeout  = 10 * time.Second
	maxBodyBytes    = 4 << 20
	bodyPreviewRune = 240

	// MalformedRecord is the skip reason of a fixture that could not be decoded.
	MalformedRecord = "malformed record"
)

var (
	errTransient       = crerr.New("football-data transient failure")
	errPayloadTooLarge = crerr.New("payload exceeds limit")
)

type ClientConfig struct {
	HTTPClient *http.Client
	Endpoint   string
	Token      string
	Proxy      string
	Timeout    time.Duration
	Retry      resilience.RetryConfig
	Logger     *logging.Logger

	// MaxBodyBytes caps the response body; zero means 4 MiB.
	MaxBodyBytes int64
}

// Client fetches the fixture list of one competition season.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	maxBody    int64
	retry      resilience.RetryConfig
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := normalizeHTTPURL(endpoint); err != nil {
		return nil, crerr.Wrap(err, "invalid fixtures endpoint")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport, err := newTransport(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		}
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = maxBodyBytes
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      strings.TrimSpace(cfg.Token),
		maxBody:    maxBody,
		retry:      resilience.NormalizeRetryConfig(cfg.Retry),
		logger:     logger,
	}, nil
}

func newTransport(proxy string) (*http.Transport, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, crerr.New("default transport is not an *http.Transport")
	}
	transport := base.Clone()

	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return transport, nil
	}
	proxyURL, err := normalizeHTTPURL(proxy)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid proxy")
	}
	transport.Proxy = http.ProxyURL(proxyURL)
	return transport, nil
}

// FetchFixtures returns every fixture of the season. Transport failures are
// reported as usecase.ErrDependencyUnavailable, undecodable payloads as
// usecase.ErrMalformedPayload.
func (c *Client) FetchFixtures(ctx context.Context) ([]usecase.ExternalFixture, error) {
	raw, err := resilience.Retry(ctx, c.retry, func() ([]byte, error) {
		return c.executeRequest(ctx)
	}, func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "football-data request failed, retrying", "wait", wait, "error", err)
	})
	if stderrors.Is(err, errPayloadTooLarge) {
		return nil, fmt.Errorf("%w: %v", usecase.ErrMalformedPayload, err)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "football-data request failed", "endpoint", c.endpoint, "error", err)
		return nil, fmt.Errorf("%w: fetch fixtures: %w", usecase.ErrDependencyUnavailable, err)
	}

	fixtures, err := decodeFixtures(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrMalformedPayload, err)
	}
	for _, item := range fixtures {
		if item.Malformed != "" {
			c.logger.WarnContext(ctx, "football-data record could not be decoded",
				"home", item.HomeTeamName,
				"away", item.AwayTeamName,
				"status", item.Status,
			)
		}
	}

	c.logger.DebugContext(ctx, "football-data fixtures fetched", "count", len(fixtures))
	return fixtures, nil
}

func (c *Client) executeRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, resilience.Permanent(crerr.Wrap(err, "build request"))
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(authTokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, resilience.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("%w: send request: %s", errTransient, c.sanitize(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}
	if int64(len(raw)) > c.maxBody {
		return nil, resilience.Permanent(crerr.Wrapf(errPayloadTooLarge, "status=%d limit=%d bytes", resp.StatusCode, c.maxBody))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, c.sanitize(abbreviateBody(raw)))
	}
	return nil, resilience.Permanent(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, c.sanitize(abbreviateBody(raw))))
}

func decodeFixtures(raw []byte) ([]usecase.ExternalFixture, error) {
	var envelope fixturesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrap(err, "decode fixtures payload")
	}
	if envelope.Fixtures == nil {
		return nil, crerr.New("payload has no fixtures array")
	}

	items := *envelope.Fixtures
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, raw := range items {
		out = append(out, decodeFixture(raw))
	}
	return out, nil
}

// decodeFixture never fails: a record that does not match the fixture shape
// comes back marked as malformed, with whatever names could be read.
func decodeFixture(raw []byte) usecase.ExternalFixture {
	var item fixtureItem
	if err := sonic.Unmarshal(raw, &item); err != nil {
		var header fixtureHeader
		_ = sonic.Unmarshal(raw, &header)
		return usecase.ExternalFixture{
			Status:       strings.TrimSpace(header.Status),
			HomeTeamName: strings.TrimSpace(header.HomeTeamName),
			AwayTeamName: strings.TrimSpace(header.AwayTeamName),
			Malformed:    MalformedRecord,
		}
	}

	fixture := usecase.ExternalFixture{
		Status:       strings.TrimSpace(item.Status),
		HomeTeamName: strings.TrimSpace(item.HomeTeamName),
		AwayTeamName: strings.TrimSpace(item.AwayTeamName),
		Date:         parseProviderDate(item.Date),
	}
	if item.Result != nil {
		fixture.HomeGoals = item.Result.GoalsHomeTeam
		fixture.AwayGoals = item.Result.GoalsAwayTeam
	}
	return fixture
}

func parseProviderDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// IsTransient reports whether err came from a failure worth retrying later.
func IsTransient(err error) bool {
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(text) <= bodyPreviewRune {
		return text
	}
	runes := []rune(text)
	return string(runes[:bodyPreviewRune]) + "..."
}

func normalizeHTTPURL(raw string) (*url.URL, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return nil, crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return nil, crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, crerr.Newf("%q has empty host", candidate)
	}
	return parsed, nil
}
