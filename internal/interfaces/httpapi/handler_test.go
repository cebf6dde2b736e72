package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-rewind/internal/domain/account"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	resolution account.Resolution
	err        error
}

func (f *fakeAccounts) Resolve(context.Context, string, string) (account.Resolution, error) {
	return f.resolution, f.err
}

type fakeRuns struct {
	got    []usecase.RunRequest
	err    error
	active []run.Marker
}

func (f *fakeRuns) Submit(_ context.Context, req usecase.RunRequest) (run.Descriptor, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return run.Descriptor{}, f.err
	}
	return run.Descriptor{ID: "run_1", Player: req.Player, Year: req.Year}, nil
}

func (f *fakeRuns) ListActive(context.Context) ([]run.Marker, error) {
	return f.active, nil
}

type fakeReports struct{}

func (fakeReports) GetSummary(_ context.Context, player string, year int) (summary.Document, error) {
	if player != "p1" {
		return summary.Document{}, usecase.ErrNotFound
	}
	return summary.Document{PlayerPUUID: player, Summary: summary.Summary{Global: summary.Global{TotalGames: year - 2000}}}, nil
}

func (fakeReports) GetFacts(context.Context, string, int) ([]facts.Fact, error) {
	return []facts.Fact{{Fact: "f", Choices: []string{"a"}, CorrectAnswer: "a"}}, nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(accounts AccountResolver, runs RunSubmitter) http.Handler {
	handler := NewHandler(accounts, runs, fakeReports{}, logging.NewNop())
	return NewRouter(handler, RouterConfig{CORSAllowedOrigins: []string{"*"}}, logging.NewNop())
}

func serve(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestStartRun_Accepted(t *testing.T) {
	runs := &fakeRuns{}
	router := newTestRouter(&fakeAccounts{}, runs)

	rec, body := serve(t, router, http.MethodPost, "/v1/runs",
		`{"puuid":"p1","year":2024,"routingValue":"americas","connectionId":"conn_1","summaryExists":true}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	require.Equal(t, "run_1", body.Data["runId"])
	require.Len(t, runs.got, 1)
	require.Equal(t, "conn_1", runs.got[0].Observer)
	require.NotNil(t, runs.got[0].SummaryExists)
	require.True(t, *runs.got[0].SummaryExists)
	require.Nil(t, runs.got[0].FinalExists)
}

func TestStartRun_Busy(t *testing.T) {
	router := newTestRouter(&fakeAccounts{}, &fakeRuns{err: usecase.ErrRunBusy})

	rec, body := serve(t, router, http.MethodPost, "/v1/runs", `{"puuid":"p1","year":2024,"routingValue":"europe"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusConflict)
	}
	require.NotNil(t, body.Error)
	require.Equal(t, "ABORTED", body.Error.Status)
}

func TestStartRun_Validation(t *testing.T) {
	runs := &fakeRuns{}
	router := newTestRouter(&fakeAccounts{}, runs)

	bodies := []string{
		`{"puuid":"p1","year":2024,"routingValue":"mars"}`,
		`{"puuid":"","year":2024,"routingValue":"asia"}`,
		`{"puuid":"p1","year":1999,"routingValue":"asia"}`,
		`{"puuid":"p1","year":2024,"routingValue":"asia","extra":1}`,
		`not json`,
	}
	for _, b := range bodies {
		rec, _ := serve(t, router, http.MethodPost, "/v1/runs", b)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: got=%d want=400", b, rec.Code)
		}
	}
	require.Empty(t, runs.got)
}

func TestLookupAccount(t *testing.T) {
	accounts := &fakeAccounts{resolution: account.Resolution{
		Account:      account.Account{PUUID: "p1", GameName: "Faker", TagLine: "KR1"},
		Region:       "kr",
		RoutingValue: "asia",
		Year:         2024,
	}}
	router := newTestRouter(accounts, &fakeRuns{})

	rec, body := serve(t, router, http.MethodPost, "/v1/accounts/lookup", `{"riotId":"Faker#KR1","region":"kr"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	require.Equal(t, "p1", body.Data["puuid"])
	require.Equal(t, "asia", body.Data["routingValue"])

	rec, _ = serve(t, router, http.MethodPost, "/v1/accounts/lookup", `{"riotId":"Faker","region":"kr"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryAndFacts(t *testing.T) {
	router := newTestRouter(&fakeAccounts{}, &fakeRuns{})

	rec, body := serve(t, router, http.MethodGet, "/v1/players/p1/summary/2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "p1", body.Data["playerPUUID"])

	rec, _ = serve(t, router, http.MethodGet, "/v1/players/p2/summary/2024", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, router, http.MethodGet, "/v1/players/p1/summary/last", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/players/p1/facts/2024", nil)
	frec := httptest.NewRecorder()
	router.ServeHTTP(frec, req)
	require.Equal(t, http.StatusOK, frec.Code)
	require.Contains(t, frec.Body.String(), `"correct_answer":"a"`)
}

func TestListActiveRuns(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	runs := &fakeRuns{active: []run.Marker{{Player: "p1", Year: 2024, RunID: "run_1", AcquiredAt: now, ExpiresAt: now.Add(time.Hour)}}}
	router := newTestRouter(&fakeAccounts{}, runs)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"runId":"run_1"`)
}
