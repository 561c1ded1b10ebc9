package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pageaudit/audit"
	"pageaudit/internal/store"
)

func sampleReport(t *testing.T) *audit.Report {
	t.Helper()

	report := audit.NewReport("https://example.com", time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))

	card := audit.NewCard("Metadata")
	category := audit.NewCategory("Title")
	category.AddFinding(audit.Pass, "The page has a title.")
	category.AddFinding(audit.Fail, "The title is too short.")
	card.AddCategory(category)
	card.AddTo(report, 1)

	return report
}

func okRunner(t *testing.T) Runner {
	t.Helper()

	return func(ctx context.Context, pageURL string) (*audit.Report, error) {
		return sampleReport(t), nil
	}
}

func newTestServer(t *testing.T, run Runner) (*Server, *store.Store) {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	return NewServer(run, st), st
}

func postAnalyze(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	return recorder
}

func TestAnalyzeSuccessPersistsReport(t *testing.T) {
	t.Parallel()

	server, st := newTestServer(t, okRunner(t))

	recorder := postAnalyze(t, server, `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response struct {
		ID     string          `json:"id"`
		Report json.RawMessage `json:"report"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotEmpty(t, response.ID)

	var report struct {
		OverallScore int `json:"overall_score"`
	}
	require.NoError(t, json.Unmarshal(response.Report, &report))
	require.Equal(t, 50, report.OverallScore)

	record, err := st.Get(context.Background(), response.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", record.URL)
	require.Equal(t, 50, record.OverallScore)
	require.Equal(t, 1, record.Improvements)
}

func TestAnalyzeRejectsBadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"url":`},
		{name: "missing url", body: `{}`},
		{name: "relative url", body: `{"url":"/page"}`},
		{name: "no scheme", body: `{"url":"example.com"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server, _ := newTestServer(t, okRunner(t))

			recorder := postAnalyze(t, server, tt.body)
			require.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestAnalyzeUnreachablePageIsGatewayError(t *testing.T) {
	t.Parallel()

	run := func(ctx context.Context, pageURL string) (*audit.Report, error) {
		return nil, errors.New("fetch page: connection refused")
	}
	server, _ := newTestServer(t, run)

	recorder := postAnalyze(t, server, `{"url":"https://down.example.com"}`)
	require.Equal(t, http.StatusBadGateway, recorder.Code)
	require.Contains(t, recorder.Body.String(), "fetch_failed")
}

func TestGetReport(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, okRunner(t))

	recorder := postAnalyze(t, server, `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	request := httptest.NewRequest(http.MethodGet, "/api/reports/"+created.ID, nil)
	getRecorder := httptest.NewRecorder()
	server.Router().ServeHTTP(getRecorder, request)

	require.Equal(t, http.StatusOK, getRecorder.Code)
	require.Contains(t, getRecorder.Body.String(), "https://example.com")
}

func TestGetReportMissing(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, okRunner(t))

	request := httptest.NewRequest(http.MethodGet, "/api/reports/nope", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListReports(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, okRunner(t))

	for i := 0; i < 2; i++ {
		recorder := postAnalyze(t, server, `{"url":"https://example.com"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	request := httptest.NewRequest(http.MethodGet, "/api/reports?limit=1", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response struct {
		Reports []store.Record `json:"reports"`
		Total   int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, 1, response.Total)
	require.Len(t, response.Reports, 1)
}

func TestListReportsBadLimit(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, okRunner(t))

	request := httptest.NewRequest(http.MethodGet, "/api/reports?limit=-1", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestArchiveDisabledWithoutStore(t *testing.T) {
	t.Parallel()

	server := NewServer(okRunner(t), nil)

	request := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}
