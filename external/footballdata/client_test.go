package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/tippspiel/internal/platform/resilience"
	"github.com/riskibarqy/tippspiel/internal/usecase"
)

func fixturesPayload() map[string]any {
	return map[string]any{
		"count": 3,
		"fixtures": []any{
			map[string]any{
				"status":       "FINISHED",
				"matchday":     1,
				"date":         "2016-06-10T19:00:00Z",
				"homeTeamName": "France",
				"awayTeamName": "Romania",
				"result": map[string]any{
					"goalsHomeTeam": 2,
					"goalsAwayTeam": 1,
					"halfTime":      map[string]any{"goalsHomeTeam": 0, "goalsAwayTeam": 0},
				},
			},
			map[string]any{
				"status":       "TIMED",
				"date":         "2016-06-11T13:00:00Z",
				"homeTeamName": "Albania",
				"awayTeamName": "Switzerland",
				"result":       map[string]any{"goalsHomeTeam": nil, "goalsAwayTeam": nil},
			},
			map[string]any{
				"status":       "FINISHED",
				"date":         "not-a-date",
				"homeTeamName": "Wales",
				"awayTeamName": "Slovakia",
			},
		},
	}
}

func newTestClient(t *testing.T, srv *httptest.Server, retries int) *Client {
	t.Helper()

	client, err := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		Endpoint:   srv.URL + "/v1/soccerseasons/424/fixtures",
		Token:      "token-abc",
		Retry:      resilience.RetryConfig{MaxRetries: retries, Wait: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientFetchFixtures_SendsTokenAndDecodes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/soccerseasons/424/fixtures" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "token-abc" {
			t.Errorf("unexpected X-Auth-Token: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(fixturesPayload())
	}))
	defer srv.Close()

	fixtures, err := newTestClient(t, srv, 0).FetchFixtures(context.Background())
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(fixtures) != 3 {
		t.Fatalf("unexpected fixture count: %d", len(fixtures))
	}

	first := fixtures[0]
	if first.Status != "FINISHED" || first.HomeTeamName != "France" || first.AwayTeamName != "Romania" {
		t.Fatalf("unexpected first fixture: %+v", first)
	}
	if first.HomeGoals == nil || *first.HomeGoals != 2 || first.AwayGoals == nil || *first.AwayGoals != 1 {
		t.Fatalf("unexpected goals on first fixture")
	}
	if !first.Date.Equal(time.Date(2016, 6, 10, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %s", first.Date)
	}

	if fixtures[1].HomeGoals != nil {
		t.Fatalf("expected nil goals for unplayed fixture")
	}
	if fixtures[2].HomeGoals != nil || !fixtures[2].Date.IsZero() {
		t.Fatalf("expected fixture without result and date to decode with empty fields: %+v", fixtures[2])
	}
}

func TestClientFetchFixtures_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"maintenance"}`))
			return
		}
		_ = jsoniter.NewEncoder(w).Encode(fixturesPayload())
	}))
	defer srv.Close()

	fixtures, err := newTestClient(t, srv, 1).FetchFixtures(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(fixtures) != 3 {
		t.Fatalf("unexpected fixture count: %d", len(fixtures))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestClientFetchFixtures_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid token token-abc"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 3).FetchFixtures(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if IsTransient(err) {
		t.Fatalf("403 must not be classified transient")
	}
	if strings.Contains(err.Error(), "token-abc") {
		t.Fatalf("token leaked into error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestClientFetchFixtures_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := newTestClient(t, srv, 1)
	srv.Close()

	_, err := client.FetchFixtures(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatalf("expected network failure to be transient: %v", err)
	}
}

func TestClientFetchFixtures_MalformedPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "missing fixtures", body: `{"count": 0}`},
		{name: "wrong fixtures type", body: `{"fixtures": "none"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv, 0).FetchFixtures(context.Background())
			if !errors.Is(err, usecase.ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestClientFetchFixtures_BadRecordDoesNotRejectBatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count": 3, "fixtures": [
			{"status": "FINISHED", "date": "2016-06-10T19:00:00Z", "homeTeamName": "France", "awayTeamName": "Romania",
			 "result": {"goalsHomeTeam": 2, "goalsAwayTeam": 1}},
			{"status": "FINISHED", "date": "2016-06-11T13:00:00Z", "homeTeamName": "Wales", "awayTeamName": "Slovakia",
			 "result": {"goalsHomeTeam": "two", "goalsAwayTeam": 1}},
			42
		]}`))
	}))
	defer srv.Close()

	fixtures, err := newTestClient(t, srv, 0).FetchFixtures(context.Background())
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(fixtures) != 3 {
		t.Fatalf("expected 3 fixtures, got %d", len(fixtures))
	}

	good := fixtures[0]
	if good.Malformed != "" || good.HomeGoals == nil || *good.HomeGoals != 2 {
		t.Fatalf("unexpected good fixture: %+v", good)
	}

	bad := fixtures[1]
	if bad.Malformed != MalformedRecord {
		t.Fatalf("expected malformed record, got %+v", bad)
	}
	if bad.Status != "FINISHED" || bad.HomeTeamName != "Wales" || bad.AwayTeamName != "Slovakia" {
		t.Fatalf("expected the header of the bad record, got %+v", bad)
	}
	if bad.HomeGoals != nil || bad.AwayGoals != nil {
		t.Fatalf("malformed record must carry no goals, got %+v", bad)
	}

	if fixtures[2].Malformed != MalformedRecord || fixtures[2].HomeTeamName != "" {
		t.Fatalf("expected an anonymous malformed record, got %+v", fixtures[2])
	}
}

func TestClientFetchFixtures_OversizedBody(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"count": 0, "fixtures": [], "padding": "` + strings.Repeat("x", 256) + `"}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{
		HTTPClient:   srv.Client(),
		Endpoint:     srv.URL + "/v1/soccerseasons/424/fixtures",
		Retry:        resilience.RetryConfig{MaxRetries: 2, Wait: time.Millisecond},
		MaxBodyBytes: 64,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.FetchFixtures(context.Background())
	if !errors.Is(err, usecase.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if !strings.Contains(err.Error(), "payload exceeds limit") {
		t.Fatalf("expected the size limit in the error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("oversized body must not be retried, got %d calls", got)
	}
}

func TestAbbreviateBody_KeepsRunesWhole(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("ü", 300)
	got := abbreviateBody([]byte(body))
	if !utf8.ValidString(got) {
		t.Fatalf("abbreviated body is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("ü", 240) + "..."; got != want {
		t.Fatalf("unexpected abbreviation length: got %d runes", utf8.RuneCountInString(got))
	}
	if got := abbreviateBody([]byte("  short  ")); got != "short" {
		t.Fatalf("unexpected short body: %q", got)
	}
}

func TestClientFetchFixtures_EmptyFixturesIsValid(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count": 0, "fixtures": []}`))
	}))
	defer srv.Close()

	fixtures, err := newTestClient(t, srv, 0).FetchFixtures(context.Background())
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures, got %d", len(fixtures))
	}
}

func TestClientFetchFixtures_UsesConfiguredProxy(t *testing.T) {
	t.Parallel()

	var proxiedHost atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxiedHost.Store(r.URL.Host)
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{"fixtures": []any{}})
	}))
	defer proxy.Close()

	client, err := NewClient(ClientConfig{
		Endpoint: "http://api.football-data.example/v1/soccerseasons/424/fixtures",
		Token:    "token-abc",
		Proxy:    proxy.URL,
		Retry:    resilience.RetryConfig{MaxRetries: 0, Wait: time.Millisecond},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.FetchFixtures(context.Background()); err != nil {
		t.Fatalf("fetch through proxy: %v", err)
	}
	if got, _ := proxiedHost.Load().(string); got != "api.football-data.example" {
		t.Fatalf("expected request to be proxied for api host, got %q", got)
	}
}

func TestNewClient_RejectsInvalidProxy(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{Proxy: "ftp://proxy.local:21"}); err == nil {
		t.Fatalf("expected error for unsupported proxy scheme")
	}
	if _, err := NewClient(ClientConfig{Endpoint: "not a url"}); err == nil {
		t.Fatalf("expected error for invalid endpoint")
	}
}
