// Package search coordinates multi-query search batches: per-query retries
// with full session rebuilds, blocked-domain filtering, and deterministic
// formatting of the aggregated results.
package search

import (
	"context"
	"fmt"

	"github.com/entrhq/searchbridge/pkg/browser"
	"github.com/entrhq/searchbridge/pkg/logging"
)

// DefaultMaxAttempts is the per-query retry bound.
const DefaultMaxAttempts = 3

// Searcher is the session client contract the orchestrator drives.
type Searcher interface {
	Initialize() error
	Search(query string) (*browser.Response, error)
	Close() error
}

// Orchestrator runs a batch of queries against one shared session,
// rebuilding the session between failed attempts. A query that exhausts
// its attempts fails the whole batch: callers never see partial results.
type Orchestrator struct {
	client      Searcher
	maxAttempts int
	filter      *DomainFilter
	log         *logging.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithMaxAttempts sets the per-query retry bound.
func WithMaxAttempts(attempts int) OrchestratorOption {
	return func(o *Orchestrator) {
		if attempts > 0 {
			o.maxAttempts = attempts
		}
	}
}

// WithFilter installs a blocked-domain filter applied to every response.
func WithFilter(filter *DomainFilter) OrchestratorOption {
	return func(o *Orchestrator) {
		o.filter = filter
	}
}

// WithLogger sets the component logger.
func WithLogger(log *logging.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// NewOrchestrator creates an Orchestrator around the given session client.
func NewOrchestrator(client Searcher, opts ...OrchestratorOption) *Orchestrator {
	orchestrator := &Orchestrator{
		client:      client,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(orchestrator)
	}
	if orchestrator.log == nil {
		orchestrator.log, _ = logging.NewLogger("orchestrator")
	}
	return orchestrator
}

// Run executes every query in order and returns one response per query,
// positionally aligned with the input. Any failure that survives the retry
// bound, or any fatal error, aborts the batch with no partial results.
func (o *Orchestrator) Run(ctx context.Context, queries []string) ([]*browser.Response, error) {
	if len(queries) == 0 {
		return nil, browser.NewFatal("run", fmt.Errorf("search called with no queries"))
	}

	if err := o.client.Initialize(); err != nil {
		return nil, err
	}

	responses := make([]*browser.Response, 0, len(queries))
	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		response, err := o.runQuery(query)
		if err != nil {
			return nil, err
		}

		if o.filter != nil {
			response = o.filter.Apply(response)
		}
		responses = append(responses, response)
	}

	return responses, nil
}

// runQuery tries one query up to the retry bound. Browser and page state
// can wedge after a failed navigation, so every retry is preceded by a full
// session teardown and reinitialize rather than partial recovery.
func (o *Orchestrator) runQuery(query string) (*browser.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		o.log.Infof("Attempting search for %q, attempt %d/%d", query, attempt, o.maxAttempts)

		response, err := o.client.Search(query)
		if err == nil {
			return response, nil
		}
		lastErr = err
		o.log.Errorf("Search attempt %d for %q failed: %v", attempt, query, err)

		if browser.IsFatal(err) {
			return nil, err
		}
		if attempt == o.maxAttempts {
			break
		}

		if closeErr := o.client.Close(); closeErr != nil {
			o.log.Warnf("Session close before retry failed: %v", closeErr)
		}
		if initErr := o.client.Initialize(); initErr != nil {
			if browser.IsFatal(initErr) {
				return nil, initErr
			}
			o.log.Errorf("Session rebuild failed: %v", initErr)
			lastErr = initErr
		}
	}

	return nil, fmt.Errorf("search for %q failed after %d attempts: %w", query, o.maxAttempts, lastErr)
}
