package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"jobflow-engine/internal/config"
	"jobflow-engine/internal/enrich"
	"jobflow-engine/internal/events"
	"jobflow-engine/internal/ghostjob"
	"jobflow-engine/internal/httpapi"
	"jobflow-engine/internal/importer"
	"jobflow-engine/internal/scheduler"
	"jobflow-engine/internal/store"

	"github.com/gofrs/flock"
)

func main() {
	// Engine data dir: use env if provided (the desktop shell passes one),
	// else local folder.
	dataDir := os.Getenv("JOBFLOW_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. A second instance would race on the db and
	// bind a second port the UI never finds.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock failed: %v", err)
	}
	if !locked {
		log.Fatalf("another engine is already running for %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, wmsg := range vr.Warnings {
			log.Printf("[config] warning: %s", wmsg)
		}
		if !vr.OK() {
			for _, emsg := range vr.Errors {
				log.Printf("[config] error: %s", emsg)
			}
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobflow.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	limiter := importer.NewHostLimiter(cfg.Importer.HostRPS, cfg.Importer.HostBurst)
	fetcher := importer.NewFetcher(
		time.Duration(cfg.Importer.TimeoutSeconds)*time.Second,
		cfg.Importer.UserAgent,
		limiter,
	)
	imp := importer.New(fetcher)
	reporter := ghostjob.New(cfg.GhostJobs.Endpoint)

	var importStatus atomic.Value
	importStatus.Store(httpapi.ImportStatus{})

	deps := httpapi.Deps{
		DB:             db.Pool,
		Hub:            hub,
		CfgVal:         &cfgVal,
		ImportStatus:   &importStatus,
		UserCfgPath:    userCfgPath,
		LoadCfg:        loadCfg,
		Importer:       imp,
		ReportGhostJob: reporter.Report,
	}
	if cfg.Enrich.Logos {
		deps.EnrichApplication = enrich.EnrichApplication
	}

	mux := httpapi.NewMux(deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Enrich.Logos && cfg.Enrich.RefreshMinutes > 0 {
		go scheduler.Every(ctx, time.Duration(cfg.Enrich.RefreshMinutes)*time.Minute, "enrich",
			func(ctx context.Context) error {
				enrich.SweepLogos(ctx, db.Pool, 50)
				return nil
			})
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.Recover,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shutdown endpoint is token-guarded; the shell reads the token file.
	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	tokenPath := filepath.Join(dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		log.Fatal(err)
	}
	defer os.Remove(tokenPath)
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}
