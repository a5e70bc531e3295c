package importer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchItem holds one URL's outcome inside a batch import. Either Result or
// Error is set, never both.
type BatchItem struct {
	URL    string  `json:"url"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ImportAll imports every URL independently with at most workers in flight.
// A bad URL fails its own slot only; siblings keep running.
func (im *Importer) ImportAll(ctx context.Context, urls []string, workers int) []BatchItem {
	if workers <= 0 {
		workers = 4
	}

	items := make([]BatchItem, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, raw := range urls {
		i, raw := i, raw
		g.Go(func() error {
			items[i].URL = raw
			res, err := im.ImportFromURL(gctx, raw)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Result = &res
			return nil
		})
	}

	_ = g.Wait()
	return items
}
