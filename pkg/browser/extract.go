package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns a rendered results document into structured records.
// Implementations are best-effort: zero records is a valid outcome, not an
// error.
type Extractor interface {
	Extract(html string) ([]Result, error)
}

// Requirement names the acceptance rule a strategy applies to each
// candidate record.
type Requirement int

const (
	// RequireTitle accepts records with a title plus either a snippet or a URL
	RequireTitle Requirement = iota

	// RequireBody accepts records with a snippet plus either a title or a URL
	RequireBody

	// RequireLink accepts records with a title and a URL
	RequireLink
)

// Strategy is a selector/field mapping table for one markup variant. New
// site layouts are added as tables, not as control flow.
type Strategy struct {
	// Name identifies the strategy in logs
	Name string

	// Kind tags every record this strategy produces
	Kind Kind

	// Container selects candidate result elements
	Container string

	// Title selects the title anchor within a container; empty means the
	// container's own text is the title
	Title string

	// TitleFallback selects a non-anchor heading when Title matches nothing
	TitleFallback string

	// URL selects a dedicated URL element; the record falls back to the
	// title anchor's href, then to Link
	URL string

	// Link selects any anchor to take an href from as a last resort
	Link string

	// Snippet selects the description text
	Snippet string

	// Published selects the publish-date element; absence yields an empty
	// field, never a failure
	Published string

	// Require is the acceptance rule for candidate records
	Require Requirement
}

// SelectorExtractor applies an ordered list of organic strategies (first
// non-empty pass wins) and appends records from every related strategy.
type SelectorExtractor struct {
	Organic []Strategy
	Related []Strategy
}

// NewDefaultExtractor returns the extractor preloaded with the known
// results-page layouts: the primary structural selectors, a loose
// article/result heuristic fallback, and the related-searches block.
func NewDefaultExtractor() *SelectorExtractor {
	return &SelectorExtractor{
		Organic: []Strategy{
			{
				Name:      "primary",
				Kind:      KindResult,
				Container: `div.search-result, div._0_result-item`,
				Title:     `.heading a, ._0_result-title a`,
				URL:       `.url, .__sri-url`,
				Snippet:   `.snippet, ._0_DESC, .__sri-desc div`,
				Published: `.published`,
				Require:   RequireTitle,
			},
			{
				Name:          "loose",
				Kind:          KindResult,
				Container:     `article, ._ext_a, div[class*="result"]`,
				Title:         `h3 a, h2 a, a[class*="title"]`,
				TitleFallback: `h3, h2`,
				Link:          `a[href]`,
				Snippet:       `p, div[class*="desc"], div[class*="content"]`,
				Require:       RequireBody,
			},
		},
		Related: []Strategy{
			{
				Name:      "related-searches",
				Kind:      KindRelated,
				Container: `div._0_related_searches a, .related-searches a`,
				Require:   RequireLink,
			},
		},
	}
}

// Extract parses html and runs the strategy tables against it.
func (e *SelectorExtractor) Extract(html string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var results []Result
	for _, strategy := range e.Organic {
		results = strategy.apply(doc)
		if len(results) > 0 {
			break
		}
	}

	for _, strategy := range e.Related {
		results = append(results, strategy.apply(doc)...)
	}

	return results, nil
}

// apply runs one selector table over the document.
func (s Strategy) apply(doc *goquery.Document) []Result {
	var results []Result

	doc.Find(s.Container).Each(func(_ int, container *goquery.Selection) {
		result := Result{Kind: s.Kind}

		titleSel := container
		if s.Title != "" {
			titleSel = container.Find(s.Title).First()
		}
		result.Title = strings.TrimSpace(titleSel.Text())
		if result.Title == "" && s.TitleFallback != "" {
			result.Title = strings.TrimSpace(container.Find(s.TitleFallback).First().Text())
		}

		result.URL = s.extractURL(container, titleSel)

		if s.Snippet != "" {
			result.Snippet = strings.TrimSpace(container.Find(s.Snippet).First().Text())
		}

		if s.Published != "" {
			result.Published = strings.TrimSpace(container.Find(s.Published).First().Text())
		}

		if s.accept(result) {
			if result.Title == "" {
				result.Title = "No title"
			}
			results = append(results, result)
		}
	})

	return results
}

// extractURL picks the record URL: a dedicated URL element first, then the
// title anchor's href, then any anchor named by Link.
func (s Strategy) extractURL(container, titleSel *goquery.Selection) string {
	if s.URL != "" {
		urlSel := container.Find(s.URL).First()
		if href, ok := urlSel.Attr("href"); ok && href != "" {
			return href
		}
		if text := strings.TrimSpace(urlSel.Text()); text != "" {
			return text
		}
	}

	if href, ok := titleSel.Attr("href"); ok && href != "" {
		return href
	}

	if s.Link != "" {
		if href, ok := container.Find(s.Link).First().Attr("href"); ok && href != "" {
			return href
		}
	}

	return ""
}

func (s Strategy) accept(result Result) bool {
	switch s.Require {
	case RequireTitle:
		return result.Title != "" && (result.Snippet != "" || result.URL != "")
	case RequireBody:
		return result.Snippet != "" && (result.Title != "" || result.URL != "")
	case RequireLink:
		return result.Title != "" && result.URL != ""
	default:
		return false
	}
}
