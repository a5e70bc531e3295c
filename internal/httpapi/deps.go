package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"jobflow-engine/internal/config"
	"jobflow-engine/internal/domain"
	"jobflow-engine/internal/events"
	"jobflow-engine/internal/importer"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ImportStatus *atomic.Value // stores httpapi.ImportStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Importer *importer.Importer

	// Ghost-job reporting (inject for testability)
	ReportGhostJob func(ctx context.Context, job domain.JobImport) bool

	// Logo backfill for a freshly saved row; nil disables enrichment.
	EnrichApplication func(ctx context.Context, db *sql.DB, id int64, company string)
}
