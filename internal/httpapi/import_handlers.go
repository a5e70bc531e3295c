package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"jobflow-engine/internal/config"
	"jobflow-engine/internal/events"
	"jobflow-engine/internal/importer"
	"jobflow-engine/internal/store"
)

type ImportHandler struct {
	DB                *sql.DB
	Hub               *events.Hub
	CfgVal            *atomic.Value // config.Config
	ImportStatus      *atomic.Value // httpapi.ImportStatus
	Importer          *importer.Importer
	EnrichApplication func(ctx context.Context, db *sql.DB, id int64, company string)
}

type importRequest struct {
	URL string `json:"url"`
}

type batchRequest struct {
	URLs []string `json:"urls"`
}

func (h ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.ImportStatus.Load().(ImportStatus)
	writeJSON(w, st)
}

// Preview runs the full import pipeline and returns the record without
// saving it. The UI shows it in the form for the user to finish.
func (h ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	h.begin(req.URL)
	res, err := h.Importer.ImportFromURL(r.Context(), req.URL)
	h.finish(err)

	if err != nil {
		if errors.Is(err, importer.ErrInvalidURL) {
			WriteError(w, r, http.StatusBadRequest, "invalid_url", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "import_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeImportCompleted, 1, map[string]any{"url": req.URL}))
	writeJSON(w, res)
}

// Save runs the no-fetch path and persists the row immediately.
func (h ImportHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	h.begin(req.URL)
	res, err := h.Importer.SaveURL(r.Context(), req.URL)
	h.finish(err)

	if err != nil {
		if errors.Is(err, importer.ErrInvalidURL) {
			WriteError(w, r, http.StatusBadRequest, "invalid_url", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "import_failed", err.Error())
		return
	}

	id, err := store.InsertApplication(r.Context(), h.DB, res.Record)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}

	h.afterInsert(r, id, res.Record.Company)

	app, err := store.GetApplication(r.Context(), h.DB, id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"application": app, "message": res.Message})
}

// Batch imports several URLs concurrently and saves every successful one.
func (h ImportHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(req.URLs) == 0 {
		WriteError(w, r, http.StatusBadRequest, "empty_batch", "no urls given")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)

	h.begin("")
	items := h.Importer.ImportAll(r.Context(), req.URLs, cfg.Importer.BatchWorkers)

	saved := 0
	for _, it := range items {
		if it.Result == nil {
			continue
		}
		id, err := store.InsertApplication(r.Context(), h.DB, it.Result.Record)
		if err != nil {
			continue
		}
		h.afterInsert(r, id, it.Result.Record.Company)
		saved++
	}
	h.finish(nil)

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeImportCompleted, 1, map[string]any{"saved": saved}))
	writeJSON(w, map[string]any{"items": items, "saved": saved})
}

func (h ImportHandler) afterInsert(r *http.Request, id int64, company string) {
	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeApplicationCreated, 1, map[string]any{"id": id}))

	if h.EnrichApplication != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			h.EnrichApplication(ctx, h.DB, id, company)
		}()
	}
}

func (h ImportHandler) begin(url string) {
	prev := h.ImportStatus.Load().(ImportStatus)
	h.ImportStatus.Store(ImportStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		LastOkAt:  prev.LastOkAt,
		LastURL:   url,
		Running:   true,
	})
}

func (h ImportHandler) finish(err error) {
	now := time.Now().Format(time.RFC3339)
	next := h.ImportStatus.Load().(ImportStatus)
	next.Running = false
	next.LastRunAt = now
	if err != nil {
		next.LastError = err.Error()
	} else {
		next.LastError = ""
		next.LastOkAt = now
	}
	h.ImportStatus.Store(next)
}
