// Package wikipedia looks up articles on Japanese Wikipedia.
//
// Two endpoints are used as-is: the MediaWiki search API for candidate
// titles and the REST page-summary API for the lead extract. Each lookup is
// exactly one GET; failures are returned to the caller without retrying.
// Missing data is not a failure: an absent search list yields no hits and an
// absent extract yields [NotFound].
package wikipedia

import (
	"errors"
	"log/slog"
	"net/http"
)

const (
	// DefaultSearchURL is the MediaWiki action API endpoint.
	DefaultSearchURL = "https://ja.wikipedia.org/w/api.php"

	// DefaultSummaryURL is the REST page-summary prefix; the escaped title is appended.
	DefaultSummaryURL = "https://ja.wikipedia.org/api/rest_v1/page/summary/"

	// DefaultLanguage is sent as Accept-Language on summary requests.
	DefaultLanguage = "ja"

	// DefaultUserAgent identifies the client per the Wikimedia API etiquette.
	DefaultUserAgent = "wikiseek/1.0 (https://github.com/petasbytes/wikiseek)"

	// MaxSearchResults caps the hits returned by Search.
	MaxSearchResults = 5

	// NotFound is returned by Summary when the page has no extract.
	NotFound = "該当ページが見つかりません"
)

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("wikipedia: empty search query")

// Option configures a Client built by New.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is still wrapped to
// set the User-Agent header.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSearchURL overrides the search endpoint.
func WithSearchURL(u string) Option {
	return func(c *Client) { c.searchURL = u }
}

// WithSummaryURL overrides the summary endpoint prefix.
func WithSummaryURL(u string) Option {
	return func(c *Client) { c.summaryURL = u }
}

// WithLanguage overrides the Accept-Language value.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client performs Wikipedia lookups. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	searchURL  string
	summaryURL string
	language   string
	userAgent  string
	logger     *slog.Logger
}

// New creates a Client with the Japanese Wikipedia defaults. No request
// timeout is set; the transport defaults apply.
func New(opts ...Option) *Client {
	c := &Client{
		searchURL:  DefaultSearchURL,
		summaryURL: DefaultSummaryURL,
		language:   DefaultLanguage,
		userAgent:  DefaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	hc := &http.Client{}
	if c.httpClient != nil {
		*hc = *c.httpClient
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &userAgentTransport{base: base, ua: c.userAgent}
	c.httpClient = hc
	return c
}

// userAgentTransport injects the User-Agent header on every request
// unless one is already set.
type userAgentTransport struct {
	base http.RoundTripper
	ua   string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		// RoundTrippers must not modify the caller's request.
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.ua)
	}
	return t.base.RoundTrip(req)
}
