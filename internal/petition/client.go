package petition

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public petitions site.
const DefaultBaseURL = "https://petition.parliament.uk"

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "petitionmap/1.0"

// maxBodyBytes caps a single response body. The largest petitions carry
// ~650 constituency records, well under this.
const maxBodyBytes = 8 << 20

// ErrNotFound is returned when the petitions site has no petition with the id.
var ErrNotFound = errors.New("petition not found")

// HTTPClient matches the Do method of *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient defaults to an *http.Client with Timeout.
	HTTPClient HTTPClient
	Timeout    time.Duration
	UserAgent  string
}

// Client fetches petition and listing documents.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	userAgent  string
}

// NewClient creates a Client from cfg, filling defaults.
func NewClient(cfg ClientConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Client{baseURL: base, httpClient: hc, userAgent: ua}
}

// PetitionURL is the JSON document URL for id. id must already be validated.
func (c *Client) PetitionURL(id string) string {
	return fmt.Sprintf("%s/petitions/%s.json", c.baseURL, id)
}

// ListingURL is the JSON listing feed URL.
func (c *Client) ListingURL() string {
	return c.baseURL + "/petitions.json"
}

// FetchPetition retrieves petition id.
func (c *Client) FetchPetition(ctx context.Context, id string) (*Petition, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	body, err := c.get(ctx, c.PetitionURL(id))
	if err != nil {
		return nil, fmt.Errorf("fetching petition %s: %w", id, err)
	}
	p, err := ParsePetition(body)
	if err != nil {
		return nil, fmt.Errorf("petition %s: %w", id, err)
	}
	return p, nil
}

// FetchListing retrieves the open petitions listing.
func (c *Client) FetchListing(ctx context.Context) (*Listing, error) {
	body, err := c.get(ctx, c.ListingURL())
	if err != nil {
		return nil, fmt.Errorf("fetching petition listing: %w", err)
	}
	return ParseListing(body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return body, nil
}
