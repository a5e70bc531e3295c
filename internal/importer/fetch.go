package importer

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultUserAgent = "JobFlow/1.0 (+local)"

// Fetcher performs the single best-effort GET behind every full import.
type Fetcher struct {
	hc      *http.Client
	ua      string
	limiter *HostLimiter
}

func NewFetcher(timeout time.Duration, userAgent string, limiter *HostLimiter) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetcher{
		hc:      &http.Client{Timeout: timeout},
		ua:      userAgent,
		limiter: limiter,
	}
}

// FetchHTML returns the page body as text, or "" on any failure. The caller
// treats "" as "continue with degraded extraction", so no error surfaces
// past this point. One GET, no retries.
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", f.ua)

	if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
		return ""
	}

	res, err := f.hc.Do(req)
	if err != nil {
		log.Printf("[importer] fetch error url=%s err=%v", rawURL, err)
		return ""
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		log.Printf("[importer] fetch status url=%s status=%d", rawURL, res.StatusCode)
		return ""
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return ""
	}
	return string(b)
}
