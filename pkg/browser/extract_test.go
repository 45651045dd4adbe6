package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryLayoutHTML = `
<html><body>
  <div class="search-result">
    <div class="heading"><a href="https://example.com/one">First Result</a></div>
    <a class="url" href="https://example.com/one">example.com/one</a>
    <div class="snippet">First snippet text.</div>
    <span class="published">2024-03-01</span>
  </div>
  <div class="_0_result-item">
    <div class="_0_result-title"><a href="https://example.com/two">Second Result</a></div>
    <div class="_0_DESC">Second snippet text.</div>
  </div>
  <div class="search-result">
    <div class="heading"><a></a></div>
  </div>
</body></html>`

const looseLayoutHTML = `
<html><body>
  <article>
    <h3><a href="https://example.com/a">Article A</a></h3>
    <p>Body of article A.</p>
  </article>
  <div class="web-result-block">
    <h2>Heading Only</h2>
    <a href="https://example.com/b">link</a>
    <div class="desc-text">Body of block B.</div>
  </div>
  <article>
    <p></p>
  </article>
</body></html>`

const relatedLayoutHTML = `
<html><body>
  <div class="search-result">
    <div class="heading"><a href="https://example.com/hit">Hit</a></div>
    <div class="snippet">A snippet.</div>
  </div>
  <div class="_0_related_searches">
    <a href="/search?q=related+one">related one</a>
    <a href="/search?q=related+two">related two</a>
  </div>
</body></html>`

func TestExtractPrimaryLayout(t *testing.T) {
	extractor := NewDefaultExtractor()

	results, err := extractor.Extract(primaryLayoutHTML)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, KindResult, results[0].Kind)
	assert.Equal(t, "First Result", results[0].Title)
	assert.Equal(t, "https://example.com/one", results[0].URL)
	assert.Equal(t, "First snippet text.", results[0].Snippet)
	assert.Equal(t, "2024-03-01", results[0].Published)

	assert.Equal(t, "Second Result", results[1].Title)
	assert.Equal(t, "https://example.com/two", results[1].URL)
	assert.Equal(t, "Second snippet text.", results[1].Snippet)
	assert.Empty(t, results[1].Published, "missing publish date must yield an empty field, not a failure")
}

func TestExtractFallsBackToLooseLayout(t *testing.T) {
	extractor := NewDefaultExtractor()

	results, err := extractor.Extract(looseLayoutHTML)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Article A", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "Body of article A.", results[0].Snippet)

	// Heading without an anchor: title comes from the fallback selector,
	// URL from the loose link selector
	assert.Equal(t, "Heading Only", results[1].Title)
	assert.Equal(t, "https://example.com/b", results[1].URL)
}

func TestExtractPrimaryWinsOverLoose(t *testing.T) {
	extractor := NewDefaultExtractor()

	// primaryLayoutHTML containers also match div[class*="result"]; the
	// primary pass must win so records are not duplicated
	results, err := extractor.Extract(primaryLayoutHTML)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestExtractRelatedSearches(t *testing.T) {
	extractor := NewDefaultExtractor()

	results, err := extractor.Extract(relatedLayoutHTML)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, KindResult, results[0].Kind)

	assert.Equal(t, KindRelated, results[1].Kind)
	assert.Equal(t, "related one", results[1].Title)
	assert.Equal(t, "/search?q=related+one", results[1].URL)
	assert.Equal(t, KindRelated, results[2].Kind)
}

func TestExtractEmptyDocument(t *testing.T) {
	extractor := NewDefaultExtractor()

	results, err := extractor.Extract("<html><body><p>nothing here</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, results, "zero records is a valid outcome")
}

func TestResponseOrganic(t *testing.T) {
	response := &Response{Data: []Result{
		{Kind: KindResult, Title: "a"},
		{Kind: KindRelated, Title: "b"},
		{Kind: KindResult, Title: "c"},
	}}

	organic := response.Organic()
	require.Len(t, organic, 2)
	assert.Equal(t, "a", organic[0].Title)
	assert.Equal(t, "c", organic[1].Title)
}
