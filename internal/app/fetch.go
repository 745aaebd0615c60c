package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/courier/internal/endpoint"
	"github.com/five82/courier/internal/state"
)

// Report is the outcome of one target in a FetchOnce pass.
type Report struct {
	Target   string              `json:"target"`
	Endpoint string              `json:"endpoint"`
	Path     endpoint.PathKey    `json:"path"`
	URL      string              `json:"url"`
	Data     any                 `json:"data,omitempty"`
	Error    *endpoint.ErrorInfo `json:"error,omitempty"`
	Duration time.Duration       `json:"duration"`
}

// Failed reports whether the target's request failed.
func (r Report) Failed() bool {
	return r.Error != nil
}

// FetchOnce requests every target once, concurrently, and waits for all of
// them to settle. Request failures are carried in the reports; the error is
// non-nil only when ctx ends first or a dispatch goes wrong.
func FetchOnce(ctx context.Context, store *state.Store, targets []state.Target) ([]Report, error) {
	reports := make([]Report, len(targets))
	g, gctx := errgroup.WithContext(ctx)

	for i, target := range targets {
		g.Go(func() error {
			start := time.Now()
			flight, err := target.Request(store)
			if err != nil {
				return err
			}
			ingest, err := flight.Wait(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", target.Label(), err)
			}

			r := Report{
				Target:   target.Label(),
				Endpoint: target.Endpoint.Name(),
				Path:     ingest.Meta.Path,
				URL:      ingest.Meta.URL,
				Duration: time.Since(start),
			}
			if ingest.Error {
				err, _ := ingest.Payload.(error)
				if err == nil {
					err = endpoint.Fail(nil).Err
				}
				r.Error = endpoint.NormalizeError(err)
			} else {
				r.Data = ingest.Payload
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
