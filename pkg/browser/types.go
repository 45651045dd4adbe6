package browser

// Kind distinguishes organic search hits from related-search suggestions.
type Kind string

const (
	// KindResult marks an organic search result
	KindResult Kind = "result"

	// KindRelated marks a related-search suggestion
	KindRelated Kind = "related"
)

// Result is one record extracted from a rendered results page.
type Result struct {
	// Kind tags the record; only KindResult entries are surfaced to callers
	Kind Kind `json:"kind"`

	// Title is the result heading text
	Title string `json:"title"`

	// URL is the target link
	URL string `json:"url"`

	// Snippet is the body/description text
	Snippet string `json:"snippet"`

	// Published is the publish date as shown on the page; empty when the
	// page carries no date element
	Published string `json:"published,omitempty"`
}

// Response is the structured output of one search navigation.
type Response struct {
	Data []Result `json:"data"`
}

// Organic returns only the KindResult entries, in page order.
func (r *Response) Organic() []Result {
	var organic []Result
	for _, result := range r.Data {
		if result.Kind == KindResult {
			organic = append(organic, result)
		}
	}
	return organic
}

// Default values for browser operations
const (
	// DefaultNavigationTimeout is the navigation timeout in milliseconds
	DefaultNavigationTimeout = 30000.0

	// DefaultViewportWidth and DefaultViewportHeight size the browser context
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)
