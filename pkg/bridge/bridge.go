// Package bridge wires the search orchestrator to the MCP tool surface.
// It owns the process-wide browser session handle, guards its lazy
// construction, and converts every failure into the plain-text error
// channel the tool contract demands.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/searchbridge/pkg/browser"
	"github.com/entrhq/searchbridge/pkg/config"
	"github.com/entrhq/searchbridge/pkg/logging"
	"github.com/entrhq/searchbridge/pkg/runloop"
	"github.com/entrhq/searchbridge/pkg/search"
)

// sessionClient is the full lifecycle contract of the shared browser
// session: the orchestrator's Searcher plus final teardown.
type sessionClient interface {
	search.Searcher
	Shutdown() error
}

// Bridge holds the process-wide session handle and the run loop all
// browser work is funneled through.
type Bridge struct {
	cfg    *config.Config
	loop   *runloop.Loop
	log    *logging.Logger
	filter *search.DomainFilter

	// mu guards lazy construction of the shared session client so two
	// calls racing on first use cannot build two browsers
	mu     sync.Mutex
	client sessionClient

	// newClient is swappable in tests
	newClient func(authURL string) (sessionClient, error)

	shutdownOnce sync.Once
}

// New creates a Bridge. The browser session itself is not created until
// the first search call.
func New(cfg *config.Config, loop *runloop.Loop) (*Bridge, error) {
	filter, err := search.NewDomainFilter(cfg.BlockedDomains)
	if err != nil {
		return nil, err
	}

	log, _ := logging.NewLogger("bridge")

	b := &Bridge{
		cfg:    cfg,
		loop:   loop,
		log:    log,
		filter: filter,
	}
	b.newClient = func(authURL string) (sessionClient, error) {
		return browser.NewClient(authURL,
			browser.WithHeadless(cfg.Headless),
			browser.WithNavigationTimeout(cfg.NavigationTimeout),
		)
	}
	return b, nil
}

// ensureClient returns the shared session client, constructing it on first
// use from the configured authentication endpoint.
func (b *Bridge) ensureClient() (sessionClient, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return b.client, nil
	}

	authURL, err := b.cfg.ResolveAuthURL()
	if err != nil {
		return nil, browser.NewFatal("configure", err)
	}

	client, err := b.newClient(authURL)
	if err != nil {
		return nil, err
	}

	b.client = client
	return client, nil
}

// Search runs the batch and always returns plain text: either the
// formatted result block or an "Error: <message>" string. Failures never
// escape as errors past this boundary.
func (b *Bridge) Search(ctx context.Context, queries []string) string {
	if err := validateQueries(queries); err != nil {
		b.log.Errorf("Rejected search input: %v", err)
		return errorText(err)
	}

	b.log.Infof("Search tool called with %d queries", len(queries))

	client, err := b.ensureClient()
	if err != nil {
		b.log.Errorf("Failed to create search client: %v", err)
		return errorText(err)
	}

	result, err := b.loop.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		orchestrator := search.NewOrchestrator(client,
			search.WithMaxAttempts(b.cfg.MaxAttempts),
			search.WithFilter(b.filter),
			search.WithLogger(b.log),
		)
		return orchestrator.Run(ctx, queries)
	})
	if err != nil {
		b.log.Errorf("Search batch failed: %v", err)
		return errorText(err)
	}

	responses, ok := result.([]*browser.Response)
	if !ok {
		return errorText(fmt.Errorf("unexpected orchestrator result %T", result))
	}

	return search.FormatResults(queries, responses)
}

// validateQueries rejects empty batches and blank queries before anything
// touches the browser.
func validateQueries(queries []string) error {
	if len(queries) == 0 {
		return fmt.Errorf("search called with no queries")
	}
	for i, query := range queries {
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("query %d is empty", i+1)
		}
	}
	return nil
}

func errorText(err error) string {
	return fmt.Sprintf("Error: %v", err)
}
