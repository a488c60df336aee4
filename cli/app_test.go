package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeQuantcast struct {
	mu          sync.Mutex
	tokenCalls  int
	queries     []string
	respond     func(query string) (int, string)
	server      *httptest.Server
	environment map[string]string
}

func newFakeQuantcast(t *testing.T, respond func(query string) (int, string)) *fakeQuantcast {
	t.Helper()
	fake := &fakeQuantcast{respond: respond}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			t.Errorf("expected basic auth on token request")
		}
		fake.mu.Lock()
		fake.tokenCalls++
		fake.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"cli-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cli-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		var payload struct {
			Query string `json:"query"`
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Errorf("decode graphql request: %v", err)
		}
		fake.mu.Lock()
		fake.queries = append(fake.queries, payload.Query)
		fake.mu.Unlock()
		status, body := fake.respond(payload.Query)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)

	fake.environment = map[string]string{
		"QUANTCAST_API_KEY":        "key",
		"QUANTCAST_API_SECRET":     "secret",
		"QUANTCAST_AUTH_URL":       fake.server.URL + "/token",
		"QUANTCAST_ENDPOINT":       fake.server.URL + "/graphql",
		"QUANTCAST_RETRY_ATTEMPTS": "1",
	}
	return fake
}

type runResult struct {
	code   int
	stdout string
	stderr string
	sleeps []time.Duration
}

func (f *fakeQuantcast) run(t *testing.T, env map[string]string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	var sleeps []time.Duration
	app := &App{
		Stdout: &stdout,
		Stderr: &stderr,
		LookupEnv: func(key string) (string, bool) {
			if value, ok := env[key]; ok {
				return value, true
			}
			value, ok := f.environment[key]
			return value, ok
		},
		HTTPClient: f.server.Client(),
		Sleeper: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return ctx.Err()
		},
		Now: func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) },
	}
	code := app.Run(context.Background(), args)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String(), sleeps: sleeps}
}

func (f *fakeQuantcast) recordedQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func TestAccountsPrintsJSON(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) {
		return http.StatusOK, `{"data":{"accounts":{"edges":[{"id":12,"name":"Acme","status":"ACTIVE"}],"pageInfo":{"hasMore":false},"totalCount":1}}}`
	})

	result := fake.run(t, nil, "accounts")
	if result.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", result.code, result.stderr)
	}
	var accounts []map[string]any
	if err := json.Unmarshal([]byte(result.stdout), &accounts); err != nil {
		t.Fatalf("decode stdout %q: %v", result.stdout, err)
	}
	if len(accounts) != 1 || accounts[0]["id"] != "12" || accounts[0]["name"] != "Acme" {
		t.Fatalf("unexpected accounts: %#v", accounts)
	}
	if !strings.Contains(result.stderr, "Found 1 accounts") {
		t.Fatalf("expected progress on stderr, got %q", result.stderr)
	}
	if fake.tokenCalls != 1 {
		t.Fatalf("expected one token request, got %d", fake.tokenCalls)
	}
}

func TestAccountsTableFormat(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) {
		return http.StatusOK, `{"data":{"accounts":{"edges":[{"id":"12","name":"Acme"}],"pageInfo":{"hasMore":false},"totalCount":1}}}`
	})

	result := fake.run(t, nil, "--format", "table", "accounts")
	if result.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", result.code, result.stderr)
	}
	if !strings.Contains(result.stdout, "Name") || !strings.Contains(result.stdout, "Acme") {
		t.Fatalf("expected table output, got %q", result.stdout)
	}
}

func TestMissingCredentialsFails(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) {
		t.Errorf("no request expected")
		return http.StatusOK, `{}`
	})

	result := fake.run(t, map[string]string{"QUANTCAST_API_KEY": ""}, "accounts")
	if result.code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, result.code)
	}
	if !strings.Contains(result.stderr, "missing credentials") {
		t.Fatalf("expected credentials message, got %q", result.stderr)
	}
}

func TestGraphQLErrorsMapToExitCode(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) {
		return http.StatusOK, `{"errors":[{"message":"Field 'nope' doesn't exist"}]}`
	})

	result := fake.run(t, nil, "account", "12")
	if result.code != exitGraphQL {
		t.Fatalf("expected exit %d, got %d stderr=%s", exitGraphQL, result.code, result.stderr)
	}
	if !strings.Contains(result.stderr, "Field 'nope' doesn't exist") {
		t.Fatalf("expected graphql message, got %q", result.stderr)
	}
}

func TestInvalidIDFailsBeforeRequest(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) {
		t.Errorf("no request expected")
		return http.StatusOK, `{}`
	})

	result := fake.run(t, nil, "account", "abc")
	if result.code != exitFailure || !strings.Contains(result.stderr, "invalid account ID") {
		t.Fatalf("expected invalid id failure, got %d %q", result.code, result.stderr)
	}
}

func TestAsyncReportPollsAndRecordsLedger(t *testing.T) {
	var mu sync.Mutex
	checks := 0
	fake := newFakeQuantcast(t, func(query string) (int, string) {
		switch {
		case strings.Contains(query, "query AsyncMetricsReport("):
			return http.StatusOK, `{"data":{"asyncMetricsReport":{"status":"IN_PROGRESS","reportRequestId":555}}}`
		case strings.Contains(query, "GetAsyncMetricsReportDownloadURL"):
			mu.Lock()
			defer mu.Unlock()
			checks++
			if checks < 2 {
				return http.StatusOK, `{"data":{"asyncMetricsReportDownloadURL":{"status":"IN_PROGRESS","downloadUrl":""}}}`
			}
			return http.StatusOK, `{"data":{"asyncMetricsReportDownloadURL":{"status":"COMPLETED","downloadUrl":"https://example.com/r.csv"}}}`
		default:
			t.Errorf("unexpected query %q", query)
			return http.StatusOK, `{"data":{}}`
		}
	})
	ledger := filepath.Join(t.TempDir(), "ledger.db")

	result := fake.run(t, nil, "--ledger", ledger, "async-report", "12", "--poll-interval", "2s", "--poll-attempts", "5")
	if result.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", result.code, result.stderr)
	}
	if !strings.Contains(result.stderr, "Check 1: Status is IN_PROGRESS") || !strings.Contains(result.stderr, "Check 2: Status is COMPLETED") {
		t.Fatalf("expected poll progress, got %q", result.stderr)
	}
	if len(result.sleeps) != 2 || result.sleeps[0] != 2*time.Second {
		t.Fatalf("expected two 2s poll waits, got %v", result.sleeps)
	}
	if !strings.Contains(result.stdout, "https://example.com/r.csv") {
		t.Fatalf("expected download url on stdout, got %q", result.stdout)
	}

	listed := fake.run(t, nil, "--ledger", ledger, "reports", "--entity", "12")
	if listed.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", listed.code, listed.stderr)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(listed.stdout), &entries); err != nil {
		t.Fatalf("decode ledger listing %q: %v", listed.stdout, err)
	}
	if len(entries) != 1 || entries[0]["status"] != "COMPLETED" || entries[0]["fileName"] != "Report_12_1711972800000" {
		t.Fatalf("unexpected ledger entries: %#v", entries)
	}
}

func TestAsyncReportFailedStatusExitsNonZero(t *testing.T) {
	fake := newFakeQuantcast(t, func(query string) (int, string) {
		if strings.Contains(query, "query AsyncMetricsReport(") {
			return http.StatusOK, `{"data":{"asyncMetricsReport":{"status":"IN_PROGRESS","reportRequestId":9}}}`
		}
		return http.StatusOK, `{"data":{"asyncMetricsReportDownloadURL":{"status":"FAILED","downloadUrl":""}}}`
	})

	result := fake.run(t, nil, "async-report", "12")
	if result.code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, result.code)
	}
	if !strings.Contains(result.stderr, "finished with status FAILED") {
		t.Fatalf("expected failure message, got %q", result.stderr)
	}
}

func TestReportsRequiresLedger(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) { return http.StatusOK, `{}` })

	result := fake.run(t, nil, "reports")
	if result.code != exitFailure || !strings.Contains(result.stderr, "report ledger is not configured") {
		t.Fatalf("expected ledger error, got %d %q", result.code, result.stderr)
	}
}

func TestReportExpandsAllMetrics(t *testing.T) {
	fake := newFakeQuantcast(t, func(query string) (int, string) {
		if strings.Contains(query, "AvailableBreakdownsAndMetrics") {
			return http.StatusOK, `{"data":{"availableBreakdownsAndMetrics":{"breakdowns":[{"name":"Campaign Name"}],"metrics":[{"name":"Impressions"},{"name":"Clicks"}]}}}`
		}
		return http.StatusOK, `{"data":{"accountMetricsReport":[{"breakdowns":[{"key":"Campaign Name","value":"Spring"}],"metrics":[{"key":"Impressions","value":10},{"key":"Clicks","value":2}]}]}}`
	})

	result := fake.run(t, nil, "report", "12", "--metrics", "ALL")
	if result.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", result.code, result.stderr)
	}
	if !strings.Contains(result.stderr, "Found 2 available metrics") {
		t.Fatalf("expected metric expansion, got %q", result.stderr)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(result.stdout), &rows); err != nil {
		t.Fatalf("decode rows %q: %v", result.stdout, err)
	}
	if len(rows) != 1 || rows[0]["Campaign Name"] != "Spring" || rows[0]["Clicks"] != float64(2) {
		t.Fatalf("unexpected rows: %#v", rows)
	}
	if queries := fake.recordedQueries(); len(queries) != 2 {
		t.Fatalf("expected 2 graphql requests, got %d", len(queries))
	}
}

func TestAuthInfoReportsToken(t *testing.T) {
	fake := newFakeQuantcast(t, func(string) (int, string) { return http.StatusOK, `{}` })

	result := fake.run(t, nil, "auth-info")
	if result.code != 0 {
		t.Fatalf("expected exit 0, got %d stderr=%s", result.code, result.stderr)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(result.stdout), &info); err != nil {
		t.Fatalf("decode auth info %q: %v", result.stdout, err)
	}
	if info["hasToken"] != true || info["isExpired"] != false {
		t.Fatalf("unexpected token info: %#v", info)
	}
	if strings.Contains(result.stdout, "cli-token") {
		t.Fatalf("token value must not be printed")
	}
}
