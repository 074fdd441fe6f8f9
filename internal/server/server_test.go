package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/hunt"
	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/models"
	"github.com/DerithAI/WOLF-AI/store"
)

const testKey = "moonlit-ridge"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	bridge, err := howl.NewBridge(dir)
	require.NoError(t, err)

	st := store.NewFileHuntStore()
	require.NoError(t, st.Initialize(map[string]string{"dataFile": filepath.Join(dir, "hunts.json")}))
	t.Cleanup(func() { _ = st.Close() })

	wolves, err := pack.New(dir, bridge)
	require.NoError(t, err)

	runner := hunt.NewDaemon(st, hunt.NewExecutor(st, bridge), 0, 0)

	srv, err := New(Config{Host: "127.0.0.1", Port: 0, APIKey: testKey}, st, bridge, wolves, runner)
	require.NoError(t, err)
	return srv
}

func perform(t *testing.T, srv *Server, method, path, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyMiddleware(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodGet, "/api/status", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(t, srv, http.MethodGet, "/api/status", "wrong-key", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = perform(t, srv, http.MethodGet, "/api/status", testKey, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// The root banner stays open.
	rec = perform(t, srv, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerRejectsEmptyKey(t *testing.T) {
	dir := t.TempDir()
	bridge, err := howl.NewBridge(dir)
	require.NoError(t, err)
	st := store.NewFileHuntStore()
	require.NoError(t, st.Initialize(map[string]string{"dataFile": filepath.Join(dir, "hunts.json")}))
	t.Cleanup(func() { _ = st.Close() })
	wolves, err := pack.New(dir, bridge)
	require.NoError(t, err)
	runner := hunt.NewDaemon(st, hunt.NewExecutor(st, bridge), 0, 0)

	_, err = New(Config{APIKey: ""}, st, bridge, wolves, runner)
	require.Error(t, err)
}

func TestHuntLifecycleOverAPI(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodPost, "/api/hunts", testKey,
		`{"directive": "note:scout the ridge", "priority": "high"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Hunt models.Hunt `json:"hunt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Hunt.ID)
	assert.Equal(t, models.StatusPending, created.Hunt.Status)
	assert.Equal(t, models.PriorityHigh, created.Hunt.Priority)
	assert.Equal(t, "hunter", created.Hunt.Assignee)

	rec = perform(t, srv, http.MethodGet, "/api/hunts/"+created.Hunt.ID, testKey, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = perform(t, srv, http.MethodGet, "/api/hunts?status=pending", testKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Count int           `json:"count"`
		Hunts []models.Hunt `json:"hunts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)

	rec = perform(t, srv, http.MethodPost, "/api/hunts/"+created.Hunt.ID+"/cancel", testKey, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cancelled struct {
		Hunt models.Hunt `json:"hunt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	assert.Equal(t, models.StatusCancelled, cancelled.Hunt.Status)
	assert.NotNil(t, cancelled.Hunt.CompletedAt)

	// Cancelling a settled hunt is a conflict, not a repeatable action.
	rec = perform(t, srv, http.MethodPost, "/api/hunts/"+created.Hunt.ID+"/cancel", testKey, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHuntErrorMapping(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodGet, "/api/hunts/hunt_9999_1", testKey, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = perform(t, srv, http.MethodPost, "/api/hunts", testKey,
		`{"directive": "note:x", "priority": "ludicrous"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, srv, http.MethodPost, "/api/hunts", testKey, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, srv, http.MethodGet, "/api/hunts?status=sleepy", testKey, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunNowEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodPost, "/api/hunts/run", testKey,
		`{"directive": "shell:echo howdy"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Hunt models.Hunt `json:"hunt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCompleted, resp.Hunt.Status)
	assert.Equal(t, models.PriorityCritical, resp.Hunt.Priority)
	assert.Contains(t, resp.Hunt.Result, "howdy")
}

func TestHowlEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodPost, "/api/howl", testKey,
		`{"message": "the moon is up", "frequency": "high"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sent struct {
		Howl howl.Howl `json:"howl"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sent))
	assert.Equal(t, "commander", sent.Howl.From)
	assert.Equal(t, "pack", sent.Howl.To)
	assert.Equal(t, howl.FreqHigh, sent.Howl.Frequency)

	rec = perform(t, srv, http.MethodGet, "/api/howls?limit=5", testKey, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Count int         `json:"count"`
		Howls []howl.Howl `json:"howls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Equal(t, 1, listed.Count)
	assert.Equal(t, "the moon is up", listed.Howls[0].Message)

	rec = perform(t, srv, http.MethodPost, "/api/howl", testKey,
		`{"message": "x", "frequency": "shriek"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, srv, http.MethodPost, "/api/howl", testKey, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, srv, http.MethodGet, "/api/howls?limit=zero", testKey, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAwakenAndStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := perform(t, srv, http.MethodPost, "/api/awaken", testKey, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = perform(t, srv, http.MethodGet, "/api/status", testKey, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, pack.PackActive, resp.Pack.Report.Status)
	assert.Len(t, resp.Pack.Wolves, 5)
	assert.Equal(t, 0, resp.Pack.ActiveHunts)
	assert.False(t, resp.Timestamp.IsZero())
}
