package enrich

import (
	"context"
	"database/sql"
	"jobflow-engine/internal/store"
	"log"
)

// SweepLogos backfills logo keys for applications saved without one.
// Lookups are cached per sweep so a company appearing on several rows
// costs one search and one favicon fetch.
func SweepLogos(ctx context.Context, db *sql.DB, limit int) (updated int) {
	pending, err := store.PendingLogoRows(ctx, db, limit)
	if err != nil {
		log.Printf("[enrich] pending query error: %v", err)
		return 0
	}
	if len(pending) == 0 {
		return 0
	}

	// Run-local caches (reset every sweep)
	domainCache := make(map[string]string) // company -> domain
	logoCache := make(map[string]string)   // domain -> logo_key

	for id, company := range pending {
		if ctx.Err() != nil {
			return updated
		}
		if company == "" {
			continue
		}

		dom, ok := domainCache[company]
		if !ok {
			found, derr := GetOrFindCompanyDomain(ctx, db, company)
			if derr != nil {
				log.Printf("[enrich] domain lookup err company=%q err=%v", company, derr)
			}
			dom = found
			domainCache[company] = dom // cache even if empty
		}
		if dom == "" {
			log.Printf("[enrich] no domain company=%q", company)
			continue
		}

		key, ok := logoCache[dom]
		if !ok {
			if k, _ := store.CacheFaviconForDomain(ctx, db, dom); k != "" {
				key = k
			}
			logoCache[dom] = key // cache empty to avoid retry storms
		}
		if key == "" {
			continue
		}

		if err := store.SetLogoKey(ctx, db, id, key); err != nil {
			log.Printf("[enrich] logo backfill err id=%d err=%v", id, err)
			continue
		}
		log.Printf("[enrich] logo set id=%d company=%q dom=%q key=%q", id, company, dom, key)
		updated++
	}

	return updated
}

// EnrichApplication resolves and caches the logo for a single row,
// right after it is saved. Errors are logged and swallowed.
func EnrichApplication(ctx context.Context, db *sql.DB, id int64, company string) {
	if company == "" {
		return
	}
	dom, err := GetOrFindCompanyDomain(ctx, db, company)
	if err != nil || dom == "" {
		return
	}
	key, err := store.CacheFaviconForDomain(ctx, db, dom)
	if err != nil || key == "" {
		return
	}
	if err := store.SetLogoKey(ctx, db, id, key); err != nil {
		log.Printf("[enrich] logo backfill err id=%d err=%v", id, err)
	}
}
