package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/tippspiel/internal/interfaces/console"
)

const gameFile = `
Game:
  DataProvider:
    ApiKey: test-key
  Event:
    Matches:
      - [France, Romania]
  Users:
    A: {givenName: Ann, sureName: Arndt, tips: [[2, 0]]}
    B: {givenName: Ben, sureName: Bauer, tips: [[2, 1]]}
`

func setupGame(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()

	for _, key := range []string{"APP_ENV", "TIPPS_API_KEY", "TIPPS_PROXY", "TIPPS_TIMEOUT", "TIPPS_LOG_LEVEL", "TIPPS_LOG_FORMAT", "TIPPS_UPTRACE_DSN"} {
		t.Setenv(key, "")
	}
	t.Setenv("TIPPS_MAX_RETRIES", "0")
	t.Setenv("TIPPS_RETRY_WAIT", "1ms")

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TIPPS_ENDPOINT", srv.URL+"/fixtures")

	path := filepath.Join(t.TempDir(), "game.yml")
	if err := os.WriteFile(path, []byte(gameFile), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func fixturesHandler(w http.ResponseWriter, _ *http.Request) {
	_ = jsoniter.NewEncoder(w).Encode(map[string]any{
		"fixtures": []any{
			map[string]any{
				"status":       "FINISHED",
				"date":         "2016-06-10T19:00:00Z",
				"homeTeamName": "France",
				"awayTeamName": "Romania",
				"result":       map[string]any{"goalsHomeTeam": 2, "goalsAwayTeam": 1},
			},
		},
	})
}

func TestRun_NoActionPrintsHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	if code != console.ExitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "--users") && !strings.Contains(stdout.String(), "-users") {
		t.Fatalf("expected usage on stdout, got %q", stdout.String())
	}
}

func TestRun_Table(t *testing.T) {
	path := setupGame(t, fixturesHandler)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", path, "--table"}, &stdout, &stderr)
	if code != console.ExitOK {
		t.Fatalf("expected exit code 0, got %d (stderr=%s)", code, stderr.String())
	}
	want := "1. Ben Bauer: 2\n2. Ann Arndt: 1\n"
	if stdout.String() != want {
		t.Fatalf("unexpected table:\n%q\nwant:\n%q", stdout.String(), want)
	}
}

func TestRun_UsersWithShortConfigFlag(t *testing.T) {
	path := setupGame(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Errorf("users listing must not call the provider")
		w.WriteHeader(http.StatusInternalServerError)
	})

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-c", path, "--users"}, &stdout, &stderr)
	if code != console.ExitOK {
		t.Fatalf("expected exit code 0, got %d (stderr=%s)", code, stderr.String())
	}
	if stdout.String() != "(A): Ann Arndt\n(B): Ben Bauer\n" {
		t.Fatalf("unexpected users: %q", stdout.String())
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		args    func(path string) []string
		want    int
	}{
		{
			name:    "missing config",
			handler: fixturesHandler,
			args:    func(path string) []string { return []string{"-c", path + ".missing", "--table"} },
			want:    console.ExitConfig,
		},
		{
			name: "provider down",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			args: func(path string) []string { return []string{"-c", path, "--table"} },
			want: console.ExitProvider,
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"count": 1}`))
			},
			args: func(path string) []string { return []string{"-c", path, "--of", "A"} },
			want: console.ExitProvider,
		},
		{
			name:    "unknown user",
			handler: fixturesHandler,
			args:    func(path string) []string { return []string{"-c", path, "--of", "ZZ"} },
			want:    console.ExitUnknownUser,
		},
		{
			name:    "unknown flag",
			handler: fixturesHandler,
			args:    func(string) []string { return []string{"--bogus"} },
			want:    console.ExitConfig,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := setupGame(t, tc.handler)

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tc.args(path), &stdout, &stderr)
			if code != tc.want {
				t.Fatalf("expected exit code %d, got %d (stderr=%s)", tc.want, code, stderr.String())
			}
			if stdout.Len() != 0 {
				t.Fatalf("expected no report output on failure, got %q", stdout.String())
			}
		})
	}
}

func TestRequestFromFlags_Precedence(t *testing.T) {
	req, ok := requestFromFlags(true, true, "A")
	if !ok || req.Command != "users" {
		t.Fatalf("expected users to win, got %+v", req)
	}
	req, ok = requestFromFlags(false, true, "A")
	if !ok || req.Command != "table" {
		t.Fatalf("expected table to win over of, got %+v", req)
	}
	req, ok = requestFromFlags(false, false, "A")
	if !ok || req.Command != "of" || req.ShortCode != "A" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, ok := requestFromFlags(false, false, ""); ok {
		t.Fatalf("expected no request without action flags")
	}
}
