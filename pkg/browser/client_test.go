package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidURL(t *testing.T) {
	client, err := NewClient("https://kagi.com/search?token=abc")
	require.NoError(t, err)
	assert.Equal(t, "https://kagi.com/search?token=abc", client.authURL)
	assert.False(t, client.Active())
}

func TestNewClientEmptyURL(t *testing.T) {
	tests := []string{"", "   "}
	for _, raw := range tests {
		_, err := NewClient(raw)
		require.Error(t, err)
		assert.True(t, IsFatal(err), "configuration errors must be fatal, not retried")
	}
}

func TestNewClientObjectURL(t *testing.T) {
	// Callers have been seen handing over a serialized object instead of
	// the URL string; a "url" field is unwrapped
	client, err := NewClient(`{"url": "https://kagi.com/search?token=xyz"}`)
	require.NoError(t, err)
	assert.Equal(t, "https://kagi.com/search?token=xyz", client.authURL)
}

func TestNewClientObjectURLWithoutField(t *testing.T) {
	_, err := NewClient(`{"token": "xyz"}`)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestNewClientMalformedObject(t *testing.T) {
	_, err := NewClient(`{not json`)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestCloseNeverInitialized(t *testing.T) {
	client, err := NewClient("https://kagi.com/search?token=abc")
	require.NoError(t, err)

	assert.NoError(t, client.Close())
	assert.NoError(t, client.Close()) // twice in a row must not fail
	assert.NoError(t, client.Shutdown())
}

func TestClientOptions(t *testing.T) {
	extractor := &SelectorExtractor{}
	client, err := NewClient("https://kagi.com/search?token=abc",
		WithHeadless(false),
		WithNavigationTimeout(5000),
		WithExtractor(extractor),
	)
	require.NoError(t, err)

	assert.False(t, client.headless)
	assert.Equal(t, 5000.0, client.navTimeout)
	assert.Same(t, extractor, client.extractor.(*SelectorExtractor))
}

func TestClientOptionIgnoresNonPositiveTimeout(t *testing.T) {
	client, err := NewClient("https://kagi.com/search?token=abc",
		WithNavigationTimeout(0),
	)
	require.NoError(t, err)
	assert.Equal(t, DefaultNavigationTimeout, client.navTimeout)
}

func TestErrorClassification(t *testing.T) {
	fatal := NewFatal("configure", assert.AnError)
	retryable := NewRetryable("search", assert.AnError)

	assert.True(t, IsFatal(fatal))
	assert.False(t, IsRetryable(fatal))
	assert.True(t, IsRetryable(retryable))
	assert.False(t, IsFatal(retryable))

	// Unclassified errors get one more attempt rather than aborting
	assert.True(t, IsRetryable(assert.AnError))
	assert.False(t, IsRetryable(nil))

	assert.ErrorIs(t, fatal, assert.AnError)
	assert.Contains(t, retryable.Error(), "search")
}
