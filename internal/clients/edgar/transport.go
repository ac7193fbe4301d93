package edgar

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL     = "https://data.sec.gov"
	defaultArchivesURL = "https://www.sec.gov/Archives/edgar/data"

	// SEC EDGAR allows at most 10 requests/second. 150ms between requests
	// keeps us comfortably under the ceiling even with clock jitter.
	defaultMinFetchGap = 150 * time.Millisecond

	defaultRequestTimeout = 20 * time.Second
)

// Client fetches 13F filings from SEC EDGAR.
//
// All outbound requests funnel through a single delay gate: no two requests
// leave this process closer together than the configured minimum gap,
// regardless of which fund they are for. Every request carries the
// contact-bearing User-Agent that EDGAR's acceptable-use policy requires.
type Client struct {
	httpClient  *http.Client
	clock       clock.Clock
	userAgent   string
	baseURL     string
	archivesURL string
	formType    string

	mu        sync.Mutex // serializes the delay gate
	minGap    time.Duration
	lastFetch time.Time

	log zerolog.Logger
}

// Options configures optional client behavior. Zero values fall back to
// production defaults.
type Options struct {
	BaseURL        string
	ArchivesURL    string
	MinFetchGap    time.Duration
	RequestTimeout time.Duration
	FormType       string
	Clock          clock.Clock
}

// NewClient creates an EDGAR client. userAgent must identify the application
// and a contact point; EDGAR rejects requests without it.
func NewClient(userAgent string, log zerolog.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.ArchivesURL == "" {
		opts.ArchivesURL = defaultArchivesURL
	}
	if opts.MinFetchGap == 0 {
		opts.MinFetchGap = defaultMinFetchGap
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.FormType == "" {
		opts.FormType = "13F-HR"
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.RequestTimeout},
		clock:       opts.Clock,
		userAgent:   userAgent,
		baseURL:     opts.BaseURL,
		archivesURL: opts.ArchivesURL,
		formType:    opts.FormType,
		minGap:      opts.MinFetchGap,
		log:         log.With().Str("client", "edgar").Logger(),
	}
}

// Fetch performs a rate-limited GET and returns the response body.
// Non-2xx responses and network failures surface as *TransportError.
func (c *Client) Fetch(url string) ([]byte, error) {
	c.throttle()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	// Accept-Encoding is left to the transport: setting it by hand would
	// disable net/http's transparent gzip decompression and hand compressed
	// bytes to the decoders.
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	c.log.Debug().Str("url", url).Int("bytes", len(body)).Msg("Fetched")
	return body, nil
}

// throttle blocks until at least minGap has elapsed since the previous
// request issued by this process. The gate is global, not per-host.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if !c.lastFetch.IsZero() {
		if wait := c.minGap - now.Sub(c.lastFetch); wait > 0 {
			c.clock.Sleep(wait)
		}
	}
	c.lastFetch = c.clock.Now()
}
