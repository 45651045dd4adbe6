// Package browser owns the headless browser session used to run searches
// against the search engine's web UI. One Client holds one browser process
// and one browsing context; authentication cookies set by the initial
// navigation persist in the context for every subsequent search page.
package browser

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/searchbridge/pkg/logging"
)

// Client drives one authenticated browser session. Not safe for concurrent
// use: callers serialize access through the run loop.
type Client struct {
	authURL    string
	headless   bool
	navTimeout float64
	extractor  Extractor
	log        *logging.Logger

	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
}

// Option configures a Client.
type Option func(*Client)

// WithHeadless controls whether the browser runs without a visible window.
func WithHeadless(headless bool) Option {
	return func(c *Client) {
		c.headless = headless
	}
}

// WithNavigationTimeout sets the per-navigation timeout in milliseconds.
func WithNavigationTimeout(timeout float64) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.navTimeout = timeout
		}
	}
}

// WithExtractor swaps the page extractor.
func WithExtractor(extractor Extractor) Option {
	return func(c *Client) {
		c.extractor = extractor
	}
}

// WithLogger sets the component logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the given authentication endpoint. The
// endpoint must be a non-empty URL string; a JSON object value containing
// a "url" field is accepted after extraction, anything else is a fatal
// configuration error.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	authURL, err := resolveAuthURL(rawURL)
	if err != nil {
		return nil, NewFatal("configure", err)
	}

	client := &Client{
		authURL:    authURL,
		headless:   true,
		navTimeout: DefaultNavigationTimeout,
		extractor:  NewDefaultExtractor(),
	}
	for _, opt := range opts {
		opt(client)
	}

	if client.log == nil {
		client.log, _ = logging.NewLogger("browser")
	}

	client.log.Infof("Created browser search client for endpoint host %s", hostOf(authURL))
	return client, nil
}

// resolveAuthURL validates the endpoint value. Upstream callers have been
// seen handing over a serialized object instead of the URL string, so a
// JSON object with a "url" field is unwrapped before giving up.
func resolveAuthURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("authentication URL must not be empty")
	}

	if strings.HasPrefix(raw, "{") {
		var wrapper map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
			return "", fmt.Errorf("authentication URL is not a string or URL-bearing object: %w", err)
		}
		embedded, ok := wrapper["url"].(string)
		if !ok || strings.TrimSpace(embedded) == "" {
			return "", fmt.Errorf("authentication URL object has no usable %q field", "url")
		}
		return strings.TrimSpace(embedded), nil
	}

	return raw, nil
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}

// Active reports whether the session holds a live browser and context.
func (c *Client) Active() bool {
	return c.browser != nil && c.browserCtx != nil
}

// Initialize launches the browser, opens one context, and performs the
// authentication navigation so cookies persist for later searches. Calling
// Initialize on an active session is a no-op.
func (c *Client) Initialize() error {
	if c.Active() {
		return nil
	}

	c.log.Infof("Initializing browser and context")

	if c.pw == nil {
		pw, err := playwright.Run(&playwright.RunOptions{
			Verbose: false,
			Stdout:  io.Discard,
			Stderr:  io.Discard,
		})
		if err != nil {
			return NewRetryable("initialize", fmt.Errorf("failed to start playwright: %w", err))
		}
		c.pw = pw
	}

	browser, err := c.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &c.headless,
	})
	if err != nil {
		return NewRetryable("initialize", fmt.Errorf("failed to launch browser: %w", err))
	}

	browserCtx, err := browser.NewContext()
	if err != nil {
		browser.Close()
		return NewRetryable("initialize", fmt.Errorf("failed to create context: %w", err))
	}

	if err := c.authenticate(browserCtx); err != nil {
		browserCtx.Close()
		browser.Close()
		return err
	}

	c.browser = browser
	c.browserCtx = browserCtx
	return nil
}

// authenticate visits the auth URL on a transient page so the context picks
// up session cookies. The page is closed whether or not navigation settles.
func (c *Client) authenticate(browserCtx playwright.BrowserContext) error {
	page, err := browserCtx.NewPage()
	if err != nil {
		return NewRetryable("authenticate", fmt.Errorf("failed to open page: %w", err))
	}
	defer page.Close()

	c.log.Infof("Navigating to authentication URL on host %s", hostOf(c.authURL))

	waitUntil := playwright.WaitUntilState("networkidle")
	if _, err := page.Goto(c.authURL, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   &c.navTimeout,
	}); err != nil {
		c.log.Errorf("Authentication navigation failed: %v", err)
		return NewRetryable("authenticate", fmt.Errorf("authentication navigation failed: %w", err))
	}

	return nil
}

// Search navigates a fresh page to the query URL, waits for the network to
// go idle, and runs the extractor over the rendered document. The page is
// closed even when extraction fails. An inactive session is initialized
// lazily first.
func (c *Client) Search(query string) (*Response, error) {
	if !c.Active() {
		if err := c.Initialize(); err != nil {
			return nil, err
		}
	}

	page, err := c.browserCtx.NewPage()
	if err != nil {
		return nil, NewRetryable("search", fmt.Errorf("failed to open page: %w", err))
	}
	defer page.Close()

	searchURL := fmt.Sprintf("%s&q=%s", c.authURL, url.QueryEscape(query))
	c.log.Infof("Searching with query: %q", query)

	waitUntil := playwright.WaitUntilState("networkidle")
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   &c.navTimeout,
	}); err != nil {
		c.log.Errorf("Search navigation failed for %q: %v", query, err)
		return nil, NewRetryable("search", fmt.Errorf("search navigation failed: %w", err))
	}

	html, err := page.Content()
	if err != nil {
		return nil, NewRetryable("search", fmt.Errorf("failed to read page content: %w", err))
	}

	results, err := c.extractor.Extract(html)
	if err != nil {
		return nil, NewRetryable("search", fmt.Errorf("extraction failed: %w", err))
	}

	c.log.Infof("Extracted %d records for query %q", len(results), query)
	return &Response{Data: results}, nil
}

// Close tears down the context and browser. Safe to call on a session that
// was never initialized or is already closed; the session can be
// re-initialized afterwards.
func (c *Client) Close() error {
	var errs []string

	if c.browserCtx != nil {
		if err := c.browserCtx.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("context: %v", err))
		}
		c.browserCtx = nil
	}

	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("browser: %v", err))
		}
		c.browser = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing session: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Shutdown closes the session and stops the Playwright driver. After
// Shutdown the client cannot be reused.
func (c *Client) Shutdown() error {
	closeErr := c.Close()

	if c.pw != nil {
		if err := c.pw.Stop(); err != nil {
			c.log.Warnf("Failed to stop playwright: %v", err)
		}
		c.pw = nil
	}

	return closeErr
}
