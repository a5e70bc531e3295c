package importer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobflow-engine/internal/boards"
	"jobflow-engine/internal/domain"
)

// ErrInvalidURL is the only failure that suppresses a record entirely. A
// fetch failure or an extraction miss still yields a record with empty
// fields, because the user completes the form by hand either way.
var ErrInvalidURL = errors.New("invalid URL format")

// Result is the outcome of one import call.
type Result struct {
	Record  domain.JobImport `json:"record"`
	Source  string           `json:"source,omitempty"` // board display name, "" when the host is unknown
	Message string           `json:"message"`          // user-facing success/info hint
}

type Importer struct {
	fetch func(ctx context.Context, rawURL string) string
	now   func() time.Time
}

func New(f *Fetcher) *Importer {
	return &Importer{fetch: f.FetchHTML, now: time.Now}
}

// ImportFromURL runs the full pipeline: classify the host, fetch the page,
// extract fields, normalize. Known boards get one page fetch; unknown hosts
// skip straight to URL-derived fields.
func (im *Importer) ImportFromURL(ctx context.Context, raw string) (Result, error) {
	u, err := parseJobURL(raw)
	if err != nil {
		return Result{}, err
	}

	rec := im.newRecord(raw)
	site, known := boards.Classify(raw)

	var f Fields
	if known {
		html := im.fetch(ctx, raw)
		f = extract(html, u)
	} else {
		f = Fields{Company: companyFromDomain(u)}
	}

	rec.Title = f.Title
	rec.Company = f.Company
	rec.Location = f.Location
	rec.Salary = f.Salary
	rec.Description = f.Description
	rec.Notes = "Imported from: " + raw
	if f.Notes != "" {
		rec.Notes += "\n" + f.Notes
	}

	res := Result{Record: rec, Source: site.DisplayName}
	switch {
	case rec.Company != "" && rec.Title != "":
		res.Message = fmt.Sprintf("Imported %q at %s", rec.Title, rec.Company)
	case rec.Company != "":
		res.Message = fmt.Sprintf("Imported posting at %s; fill in the remaining details", rec.Company)
	default:
		res.Message = "Imported URL only; fill in the details manually"
	}
	return res, nil
}

// SaveURL is the lightweight path: no fetch, just classification plus the
// URL-structure company rules, with a next-steps checklist in the notes.
// The stored URL is the caller's string, verbatim.
func (im *Importer) SaveURL(ctx context.Context, raw string) (Result, error) {
	u, err := parseJobURL(raw)
	if err != nil {
		return Result{}, err
	}

	rec := im.newRecord(raw)
	site, known := boards.Classify(raw)
	rec.Company = CompanyFromURL(u)
	rec.Notes = saveNotes(raw, site, known)

	res := Result{Record: rec, Source: site.DisplayName}
	if rec.Company != "" {
		res.Message = fmt.Sprintf("Saved posting at %s", rec.Company)
	} else {
		res.Message = "Saved URL; company could not be detected"
	}
	return res, nil
}

// CompanyFromURL derives a company name from URL structure alone. ATS hosts
// get their slug rule; everything else falls back to the domain heuristic.
// Pure: no network, no state.
func CompanyFromURL(u *url.URL) string {
	host := strings.ToLower(u.Host)
	for _, s := range strategies {
		if !s.match(host) {
			continue
		}
		if s.fromURL != nil {
			if f := s.fromURL(u); f.Company != "" {
				return f.Company
			}
		}
		break
	}
	return companyFromDomain(u)
}

func (im *Importer) newRecord(raw string) domain.JobImport {
	return domain.JobImport{
		URL:         raw,
		DateApplied: im.now(),
		Status:      domain.StatusApplied,
	}
}

func parseJobURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func saveNotes(raw string, site boards.Site, known bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported from: %s\n", raw)
	if known {
		fmt.Fprintf(&b, "Source: %s\n", site.DisplayName)
	}
	b.WriteString("\nNext steps:\n")
	b.WriteString("- [ ] Confirm job title and company\n")
	b.WriteString("- [ ] Copy in the role description\n")
	b.WriteString("- [ ] Add salary range and location\n")
	b.WriteString("- [ ] Set a follow-up reminder\n")
	return b.String()
}
