package search

import (
	"fmt"
	"net/url"

	"github.com/gobwas/glob"

	"github.com/entrhq/searchbridge/pkg/browser"
)

// DomainFilter drops results whose URL host matches a configured glob
// pattern (e.g. "*.content-farm.example").
type DomainFilter struct {
	patterns []glob.Glob
	sources  []string
}

// NewDomainFilter compiles the given patterns. Patterns are matched
// against the result URL's host, so "*.example.com" matches any subdomain
// depth but not "example.com" itself.
func NewDomainFilter(patterns []string) (*DomainFilter, error) {
	filter := &DomainFilter{}
	for _, pattern := range patterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked-domain pattern %q: %w", pattern, err)
		}
		filter.patterns = append(filter.patterns, compiled)
		filter.sources = append(filter.sources, pattern)
	}
	return filter, nil
}

// Blocked reports whether rawURL's host matches any pattern. URLs that do
// not parse, or have no host, are never blocked.
func (f *DomainFilter) Blocked(rawURL string) bool {
	if len(f.patterns) == 0 {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	for _, pattern := range f.patterns {
		if pattern.Match(parsed.Hostname()) {
			return true
		}
	}
	return false
}

// Apply returns a response with blocked results removed, preserving order.
func (f *DomainFilter) Apply(response *browser.Response) *browser.Response {
	if response == nil || len(f.patterns) == 0 {
		return response
	}

	filtered := make([]browser.Result, 0, len(response.Data))
	for _, result := range response.Data {
		if !f.Blocked(result.URL) {
			filtered = append(filtered, result)
		}
	}
	return &browser.Response{Data: filtered}
}
