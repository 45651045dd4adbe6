package search

import (
	"fmt"
	"strings"

	"github.com/entrhq/searchbridge/pkg/browser"
)

// notAvailable is the sentinel rendered for results without a publish date.
const notAvailable = "Not Available"

// FormatResults renders the aggregated result set as one text block meant
// for both LLM and human parsing. Only organic results are surfaced. The
// result counter runs across the whole call: result 1 of the second query
// continues from the last index of the first, so a reader can refer to any
// result by a single number.
func FormatResults(queries []string, responses []*browser.Response) string {
	count := len(queries)
	if len(responses) < count {
		count = len(responses)
	}

	blocks := make([]string, 0, count)
	index := 1

	for i := 0; i < count; i++ {
		organic := responses[i].Organic()

		records := make([]string, 0, len(organic))
		for _, result := range organic {
			records = append(records, formatRecord(index, result))
			index++
		}

		block := fmt.Sprintf("-----\nResults for search query %q:\n-----\n%s",
			queries[i], strings.Join(records, "\n\n"))
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n")
}

// formatRecord renders one result as a fixed four-line record.
func formatRecord(index int, result browser.Result) string {
	published := result.Published
	if published == "" {
		published = notAvailable
	}

	return fmt.Sprintf("%d: %s\n%s\nPublished Date: %s\n%s",
		index, result.Title, result.URL, published, result.Snippet)
}
