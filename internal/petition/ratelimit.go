package petition

import (
	"net/http"
	"sync"
	"time"
)

// RateLimitedClient wraps an HTTPClient with a token bucket so refresh loops
// and batch renders stay polite to the petitions site.
type RateLimitedClient struct {
	client   HTTPClient
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
	now      func() time.Time
}

// NewRateLimitedClient wraps client so it sends at most rpm requests per
// minute. rpm <= 0 returns client unchanged.
func NewRateLimitedClient(client HTTPClient, rpm int) HTTPClient {
	if rpm <= 0 {
		return client
	}
	return &RateLimitedClient{
		client:   client,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
		now:      time.Now,
	}
}

// Do waits for a token, honouring the request context, then sends req.
func (r *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	if err := r.wait(req); err != nil {
		return nil, err
	}
	return r.client.Do(req)
}

func (r *RateLimitedClient) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	refill := int(now.Sub(r.lastFill).Seconds() * float64(r.rpm) / 60.0)
	if refill > 0 {
		r.tokens += refill
		if r.tokens > r.rpm {
			r.tokens = r.rpm
		}
		r.lastFill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

func (r *RateLimitedClient) wait(req *http.Request) error {
	ctx := req.Context()
	for !r.take() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return nil
}
