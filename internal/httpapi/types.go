package httpapi

// ImportStatus describes the most recent import attempt. It is stored in an
// atomic.Value; concurrent imports each write the whole struct, last write
// wins.
type ImportStatus struct {
	LastRunAt string `json:"last_run_at"`
	LastOkAt  string `json:"last_ok_at"`
	LastURL   string `json:"last_url"`
	LastError string `json:"last_error"`
	Running   bool   `json:"running"`
}
