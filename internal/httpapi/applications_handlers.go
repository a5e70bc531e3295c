package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"jobflow-engine/internal/config"
	"jobflow-engine/internal/domain"
	"jobflow-engine/internal/events"
	"jobflow-engine/internal/store"
)

type ApplicationsHandler struct {
	DB             *sql.DB
	Hub            *events.Hub
	CfgVal         *atomic.Value // config.Config
	ReportGhostJob func(ctx context.Context, job domain.JobImport) bool
}

func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	apps, err := store.ListApplications(r.Context(), h.DB, store.ListOpts{
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
		Limit:  limit,
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, apps)
}

// ByPath dispatches /applications/{id} and /applications/{id}/report.
func (h ApplicationsHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/applications/")
	idStr, tail, _ := strings.Cut(rest, "/")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	switch {
	case tail == "" && r.Method == http.MethodGet:
		h.get(w, r, id)
	case tail == "" && r.Method == http.MethodPatch:
		h.patchStatus(w, r, id)
	case tail == "" && r.Method == http.MethodDelete:
		h.delete(w, r, id)
	case tail == "report" && r.Method == http.MethodPost:
		h.report(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h ApplicationsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	app, err := store.GetApplication(r.Context(), h.DB, id)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such application")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, app)
}

func (h ApplicationsHandler) patchStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var body struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if !body.Status.Valid() {
		WriteError(w, r, http.StatusBadRequest, "invalid_status", "unknown status "+string(body.Status))
		return
	}

	if err := store.UpdateStatus(r.Context(), h.DB, id, body.Status); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationUpdated, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func (h ApplicationsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := store.DeleteApplication(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationDeleted, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

// report flags the row locally and, when reporting is enabled, forwards it
// to the community endpoint. The row is flagged even if the upstream POST
// fails; "reported" tells the UI which happened.
func (h ApplicationsHandler) report(w http.ResponseWriter, r *http.Request, id int64) {
	app, err := store.GetApplication(r.Context(), h.DB, id)
	if err == sql.ErrNoRows {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such application")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	if err := store.MarkGhostJob(r.Context(), h.DB, id); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	reported := false
	cfg := h.CfgVal.Load().(config.Config)
	if cfg.GhostJobs.Enabled && h.ReportGhostJob != nil {
		applied, _ := time.Parse(time.RFC3339, app.DateApplied)
		reported = h.ReportGhostJob(r.Context(), domain.JobImport{
			Title:       app.Title,
			Company:     app.Company,
			Location:    app.Location,
			Salary:      app.Salary,
			URL:         app.URL,
			DateApplied: applied,
		})
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationUpdated, 1, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id, "reported": reported})
}
