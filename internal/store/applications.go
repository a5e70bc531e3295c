package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobflow-engine/internal/domain"
)

// Application is a persisted job application row. Date fields travel as
// RFC3339 TEXT; the JSON shape matches what the desktop UI binds to.
type Application struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Salary         string `json:"salary"`
	Description    string `json:"description"`
	Notes          string `json:"notes"`
	URL            string `json:"url"`
	DateApplied    string `json:"dateApplied"`
	Status         string `json:"status"`
	IsGhostJob     bool   `json:"isGhostJob"`
	LogoKey        string `json:"logoKey"`
	CompanyLogoURL string `json:"companyLogoURL"`
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS applications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  date_applied TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'Applied',
  is_ghost_job INTEGER NOT NULL DEFAULT 0,
  logo_key TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS logos (
  key TEXT PRIMARY KEY,
  content_type TEXT NOT NULL,
  bytes BLOB NOT NULL,
  fetched_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS company_domains (
  company TEXT PRIMARY KEY,
  domain TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applications_date_applied
ON applications(date_applied DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_applications_status
ON applications(status);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

type ListOpts struct {
	Status string // filter to one status, "" for all
	Sort   string // date | company | title | status
	Limit  int
}

func ListApplications(ctx context.Context, db *sql.DB, opts ListOpts) ([]Application, error) {
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	// whitelist sort columns (prevents SQL injection)
	sortCol := map[string]string{
		"date":    "date_applied",
		"company": "company",
		"title":   "title",
		"status":  "status",
	}[opts.Sort]
	order := "ASC"
	if sortCol == "" || sortCol == "date_applied" {
		sortCol = "date_applied"
		order = "DESC"
	}

	where := ""
	args := []any{}
	if s := strings.TrimSpace(opts.Status); s != "" {
		where = "WHERE status = ?"
		args = append(args, s)
	}
	args = append(args, opts.Limit)

	query := fmt.Sprintf(`
SELECT id, title, company, location, salary, description, notes, url,
       date_applied, status, is_ghost_job, logo_key
FROM applications
%s
ORDER BY %s %s
LIMIT ?;
`, where, sortCol, order)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func GetApplication(ctx context.Context, db *sql.DB, id int64) (Application, error) {
	row := db.QueryRowContext(ctx, `
SELECT id, title, company, location, salary, description, notes, url,
       date_applied, status, is_ghost_job, logo_key
FROM applications
WHERE id = ?
LIMIT 1;`, id)
	return scanApplication(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(r rowScanner) (Application, error) {
	var a Application
	var ghost int
	if err := r.Scan(
		&a.ID, &a.Title, &a.Company, &a.Location, &a.Salary,
		&a.Description, &a.Notes, &a.URL, &a.DateApplied,
		&a.Status, &ghost, &a.LogoKey,
	); err != nil {
		return Application{}, err
	}
	a.IsGhostJob = ghost != 0
	if a.LogoKey != "" {
		a.CompanyLogoURL = "/logo/" + a.LogoKey
	}
	return a, nil
}

// InsertApplication persists an imported record and returns its row id.
func InsertApplication(ctx context.Context, db *sql.DB, j domain.JobImport) (int64, error) {
	status := string(j.Status)
	if status == "" {
		status = string(domain.StatusApplied)
	}
	date := j.DateApplied
	if date.IsZero() {
		date = time.Now()
	}

	ghost := 0
	if j.IsGhostJob {
		ghost = 1
	}

	res, err := db.ExecContext(ctx, `
INSERT INTO applications(title, company, location, salary, description, notes, url, date_applied, status, is_ghost_job)
VALUES(?,?,?,?,?,?,?,?,?,?);`,
		j.Title, j.Company, j.Location, j.Salary, j.Description,
		j.Notes, j.URL, date.UTC().Format(time.RFC3339), status, ghost,
	)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	return res.LastInsertId()
}

func UpdateStatus(ctx context.Context, db *sql.DB, id int64, status domain.Status) error {
	_, err := db.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?;`, string(status), id)
	return err
}

// MarkGhostJob flags a row; the reporting call happens at the API layer.
func MarkGhostJob(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE applications SET is_ghost_job = 1 WHERE id = ?;`, id)
	return err
}

func DeleteApplication(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?;`, id)
	return err
}

// SetLogoKey backfills logo_key on rows that do not have one yet.
func SetLogoKey(ctx context.Context, db *sql.DB, id int64, key string) error {
	_, err := db.ExecContext(ctx, `
UPDATE applications
SET logo_key = ?
WHERE id = ?
  AND (logo_key = '' OR logo_key IS NULL);`, key, id)
	return err
}

// PendingLogoRows lists applications with a company but no cached logo, for
// the periodic enrichment sweep.
func PendingLogoRows(ctx context.Context, db *sql.DB, limit int) (map[int64]string, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, company
FROM applications
WHERE company != '' AND logo_key = ''
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var company string
		if err := rows.Scan(&id, &company); err != nil {
			return nil, err
		}
		out[id] = company
	}
	return out, rows.Err()
}
