package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobflow-engine/internal/config"
	"jobflow-engine/internal/domain"
	"jobflow-engine/internal/events"
	"jobflow-engine/internal/importer"
	"jobflow-engine/internal/store"
)

type testAPI struct {
	srv      *httptest.Server
	depsDB   *store.DB
	reported *int32
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfgVal atomic.Value
	cfgVal.Store(config.Default())

	var status atomic.Value
	status.Store(ImportStatus{})

	var reported int32
	deps := Deps{
		DB:           db.Pool,
		Hub:          events.NewHub(),
		CfgVal:       &cfgVal,
		ImportStatus: &status,
		UserCfgPath:  filepath.Join(t.TempDir(), "config.yml"),
		LoadCfg:      func() (config.Config, error) { return config.Default(), nil },
		Importer:     importer.New(importer.NewFetcher(time.Second, "", nil)),
		ReportGhostJob: func(ctx context.Context, job domain.JobImport) bool {
			atomic.AddInt32(&reported, 1)
			return true
		},
	}

	handler := Chain(NewMux(deps), Recover, RequestID, AccessLog, Cors)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testAPI{srv: srv, depsDB: db, reported: &reported}
}

func (a *testAPI) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(a.srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestImportPreview_UnknownHost(t *testing.T) {
	api := newTestAPI(t)

	resp := api.postJSON(t, "/import", map[string]string{"url": "https://careers.myco.com/postings/42"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res importer.Result
	decodeInto(t, resp, &res)
	assert.Equal(t, "Myco", res.Record.Company)
	assert.Equal(t, "", res.Source)

	// Nothing was saved: preview is read-only.
	apps, err := store.ListApplications(context.Background(), api.depsDB.Pool, store.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestImportPreview_InvalidURL(t *testing.T) {
	api := newTestAPI(t)

	resp := api.postJSON(t, "/import", map[string]string{"url": ":::"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, "invalid_url", e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)
}

func TestImportSave_PersistsRow(t *testing.T) {
	api := newTestAPI(t)

	resp := api.postJSON(t, "/import/save", map[string]string{"url": "https://jobs.lever.co/stripe/abc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Application store.Application `json:"application"`
		Message     string            `json:"message"`
	}
	decodeInto(t, resp, &body)

	assert.Equal(t, "Stripe", body.Application.Company)
	assert.Equal(t, "https://jobs.lever.co/stripe/abc", body.Application.URL)
	assert.Contains(t, body.Message, "Stripe")

	apps, err := store.ListApplications(context.Background(), api.depsDB.Pool, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Applied", apps[0].Status)
}

func TestImportStatus_ReflectsLastRun(t *testing.T) {
	api := newTestAPI(t)

	resp := api.postJSON(t, "/import", map[string]string{"url": "https://careers.myco.com/x"})
	resp.Body.Close()

	resp, err := http.Get(api.srv.URL + "/import/status")
	require.NoError(t, err)

	var st ImportStatus
	decodeInto(t, resp, &st)
	assert.False(t, st.Running)
	assert.NotEmpty(t, st.LastRunAt)
	assert.NotEmpty(t, st.LastOkAt)
	assert.Empty(t, st.LastError)
}

func TestImportBatch_UnknownHosts(t *testing.T) {
	api := newTestAPI(t)

	resp := api.postJSON(t, "/import/batch", map[string]any{
		"urls": []string{"https://careers.alpha.com/1", ":::", "https://careers.beta.com/2"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []importer.BatchItem `json:"items"`
		Saved int                  `json:"saved"`
	}
	decodeInto(t, resp, &body)
	assert.Equal(t, 2, body.Saved)
	require.Len(t, body.Items, 3)
	assert.NotEmpty(t, body.Items[1].Error)

	apps, err := store.ListApplications(context.Background(), api.depsDB.Pool, store.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestApplicationsLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	id, err := store.InsertApplication(ctx, api.depsDB.Pool, domain.JobImport{
		Title:   "Engineer",
		Company: "Acme",
		URL:     "https://example.com/j/1",
		Status:  domain.StatusApplied,
	})
	require.NoError(t, err)
	idStr := "/applications/" + strconv.FormatInt(id, 10)

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(api.srv.URL + idStr)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var app store.Application
		decodeInto(t, resp, &app)
		assert.Equal(t, "Acme", app.Company)
	})

	t.Run("patch status", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPatch, api.srv.URL+idStr,
			bytes.NewReader([]byte(`{"status":"Interviewing"}`)))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		app, err := store.GetApplication(ctx, api.depsDB.Pool, id)
		require.NoError(t, err)
		assert.Equal(t, "Interviewing", app.Status)
	})

	t.Run("patch rejects unknown status", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPatch, api.srv.URL+idStr,
			bytes.NewReader([]byte(`{"status":"Ghosted"}`)))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("report", func(t *testing.T) {
		resp := api.postJSON(t, idStr+"/report", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Reported bool `json:"reported"`
		}
		decodeInto(t, resp, &body)
		assert.True(t, body.Reported)
		assert.Equal(t, int32(1), atomic.LoadInt32(api.reported))

		app, err := store.GetApplication(ctx, api.depsDB.Pool, id)
		require.NoError(t, err)
		assert.True(t, app.IsGhostJob)
	})

	t.Run("delete", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, api.srv.URL+idStr, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = http.Get(api.srv.URL + idStr)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestReport_MissingApplication(t *testing.T) {
	api := newTestAPI(t)
	resp := api.postJSON(t, "/applications/424242/report", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndLogo(t *testing.T) {
	api := newTestAPI(t)

	resp, err := http.Get(api.srv.URL + "/health")
	require.NoError(t, err)
	var h map[string]any
	decodeInto(t, resp, &h)
	assert.Equal(t, true, h["ok"])

	resp, err = http.Get(api.srv.URL + "/logo/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigGet(t *testing.T) {
	api := newTestAPI(t)

	resp, err := http.Get(api.srv.URL + "/config")
	require.NoError(t, err)

	var cfg config.Config
	decodeInto(t, resp, &cfg)
	assert.Equal(t, config.Default().App.Port, cfg.App.Port)
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	resp, err := http.Get(api.srv.URL + "/import")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
