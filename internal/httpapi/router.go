package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Imports
	ih := ImportHandler{
		DB:                d.DB,
		Hub:               d.Hub,
		CfgVal:            d.CfgVal,
		ImportStatus:      d.ImportStatus,
		Importer:          d.Importer,
		EnrichApplication: d.EnrichApplication,
	}
	mux.HandleFunc("/import", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Preview,
	}))
	mux.HandleFunc("/import/save", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Save,
	}))
	mux.HandleFunc("/import/batch", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ih.Batch,
	}))
	mux.HandleFunc("/import/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.Status,
	}))

	// Applications
	ah := ApplicationsHandler{DB: d.DB, Hub: d.Hub, CfgVal: d.CfgVal, ReportGhostJob: d.ReportGhostJob}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	}))
	mux.HandleFunc("/applications/", ah.ByPath) // /applications/{id}[/report]

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Logos
	lh := LogosHandler{DB: d.DB}
	mux.HandleFunc("/logo/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.GetByPath,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", hh.Health)

	return mux
}
