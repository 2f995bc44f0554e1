package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sellwatch/pkg/domain"
)

type configMock struct {
	listen  string
	timeout time.Duration
}

func (c *configMock) GetServerConfig() (string, time.Duration) { return c.listen, c.timeout }

type statsMock struct {
	stats domain.Stats
}

func (s *statsMock) Stats() domain.Stats { return s.stats }

func testServer(t *testing.T, stats domain.Stats) *httptest.Server {
	t.Helper()
	srv := New(&configMock{listen: ":0", timeout: time.Second}, &statsMock{stats: stats}, "test", false)
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_Home(t *testing.T) {
	ts := testServer(t, domain.Stats{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, "sellwatch", body["service"])
}

func TestServer_Ping(t *testing.T) {
	ts := testServer(t, domain.Stats{})

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Status(t *testing.T) {
	stats := domain.Stats{
		CyclesCompleted: 12,
		CyclesFailed:    2,
		KnownItems:      48,
		NewItems:        7,
		LastCycle:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	ts := testServer(t, stats)

	resp, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status  string       `json:"status"`
		Version string       `json:"version"`
		Monitor domain.Stats `json:"monitor"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.Equal(t, int64(12), body.Monitor.CyclesCompleted)
	assert.Equal(t, int64(48), body.Monitor.KnownItems)
	assert.Equal(t, int64(7), body.Monitor.NewItems)
}

func TestServer_RunAndShutdown(t *testing.T) {
	srv := New(&configMock{listen: "127.0.0.1:0", timeout: time.Second}, &statsMock{}, "test", false)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := srv.Run(ctx)
	require.NoError(t, err, "shutdown on context cancellation is not an error")
}

func TestRenderJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	RenderJSON(w, req, http.StatusTeapot, map[string]string{"k": "v"})

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"k":"v"}`, w.Body.String())
}
