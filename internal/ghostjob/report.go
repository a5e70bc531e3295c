package ghostjob

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"jobflow-engine/internal/domain"
)

// DefaultEndpoint is the public ghost-job reporting service.
const DefaultEndpoint = "https://ghostjobs.io/api/report"

type Reporter struct {
	hc       *http.Client
	endpoint string
}

func New(endpoint string) *Reporter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Reporter{
		hc:       &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
	}
}

type payload struct {
	JobTitle   string `json:"jobTitle"`
	Company    string `json:"company"`
	URL        string `json:"url"`
	DatePosted string `json:"datePosted"`
	Location   string `json:"location"`
	Salary     string `json:"salary"`
}

// Report sends one best-effort report, no auth, no retries. True means the
// service answered 200 or 201; any other status or transport error is false.
func (r *Reporter) Report(ctx context.Context, job domain.JobImport) bool {
	body, err := json.Marshal(payload{
		JobTitle:   job.Title,
		Company:    job.Company,
		URL:        job.URL,
		DatePosted: job.DateApplied.UTC().Format(time.RFC3339),
		Location:   job.Location,
		Salary:     job.Salary,
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.hc.Do(req)
	if err != nil {
		log.Printf("[ghostjob] report error url=%s err=%v", job.URL, err)
		return false
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK || res.StatusCode == http.StatusCreated
}
