package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/storm-impact-report/internal/adapter/http"
	"github.com/couchcryptid/storm-impact-report/internal/pipeline"
)

type mockReport struct {
	readyErr error
	status   pipeline.Status
}

func (m *mockReport) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockReport) CurrentStatus() pipeline.Status         { return m.status }

func newTestServer(report *mockReport) *httpadapter.Server {
	return httpadapter.NewServer(":0", report, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockReport{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenDatasetLoaded(t *testing.T) {
	srv := newTestServer(&mockReport{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503BeforeLoad(t *testing.T) {
	srv := newTestServer(&mockReport{readyErr: fmt.Errorf("dataset has not been loaded yet")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "dataset has not been loaded yet", body["error"])
}

func TestStatuszReportsProgress(t *testing.T) {
	srv := newTestServer(&mockReport{status: pipeline.Status{RecordsLoaded: 902297, ChartsRendered: 1}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/statusz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var status pipeline.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, int64(902297), status.RecordsLoaded)
	assert.Equal(t, int64(1), status.ChartsRendered)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockReport{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
