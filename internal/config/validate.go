package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills gaps with defaults and reports anything a user
// would want fixed before saving.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	def := Default()

	if out.App.Port == 0 {
		out.App.Port = def.App.Port
	}
	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Importer.TimeoutSeconds == 0 {
		out.Importer.TimeoutSeconds = def.Importer.TimeoutSeconds
	}
	if out.Importer.TimeoutSeconds < 0 {
		res.addErr("importer.timeout_seconds must be > 0")
	} else if out.Importer.TimeoutSeconds > 120 {
		res.addWarn("importer.timeout_seconds is very high (%d); imports will feel stuck.", out.Importer.TimeoutSeconds)
	}

	if out.Importer.HostRPS == 0 {
		out.Importer.HostRPS = def.Importer.HostRPS
	}
	if out.Importer.HostRPS < 0 {
		res.addErr("importer.host_rps must be > 0")
	}
	if out.Importer.HostBurst == 0 {
		out.Importer.HostBurst = def.Importer.HostBurst
	}
	if out.Importer.HostBurst < 0 {
		res.addErr("importer.host_burst must be > 0")
	}
	if out.Importer.BatchWorkers == 0 {
		out.Importer.BatchWorkers = def.Importer.BatchWorkers
	}
	if out.Importer.BatchWorkers < 0 {
		res.addErr("importer.batch_workers must be > 0")
	} else if out.Importer.BatchWorkers > 16 {
		res.addWarn("importer.batch_workers is high (%d); boards may rate limit you.", out.Importer.BatchWorkers)
	}

	out.Importer.UserAgent = strings.TrimSpace(out.Importer.UserAgent)

	out.GhostJobs.Endpoint = strings.TrimSpace(out.GhostJobs.Endpoint)
	if out.GhostJobs.Enabled && out.GhostJobs.Endpoint == "" {
		out.GhostJobs.Endpoint = def.GhostJobs.Endpoint
	}
	if out.GhostJobs.Enabled && !strings.HasPrefix(out.GhostJobs.Endpoint, "http") {
		res.addErr("ghost_jobs.endpoint must be an http(s) URL when ghost_jobs.enabled=true")
	}

	if out.Enrich.RefreshMinutes == 0 {
		out.Enrich.RefreshMinutes = def.Enrich.RefreshMinutes
	}
	if out.Enrich.RefreshMinutes < 0 {
		res.addErr("enrich.refresh_minutes must be > 0")
	} else if out.Enrich.Logos && out.Enrich.RefreshMinutes < 5 {
		res.addWarn("enrich.refresh_minutes is very low (%d) and may hammer favicon lookups.", out.Enrich.RefreshMinutes)
	}

	return out, res
}
