package snapshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
)

// RemoteSource reads the hex grid from a file or URL and petitions from the
// petitions site. The grid is static, so it is read once and reused.
type RemoteSource struct {
	client       *petition.Client
	geometryPath string
	httpClient   petition.HTTPClient

	mu      sync.Mutex
	geo     *hexjson.Geometry
	geoRead bool
}

// NewRemoteSource creates a RemoteSource. geometryPath may be a local path
// or an http(s) URL.
func NewRemoteSource(client *petition.Client, geometryPath string, httpClient petition.HTTPClient) *RemoteSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoteSource{client: client, geometryPath: geometryPath, httpClient: httpClient}
}

// Geometry returns the hex grid. A failed read is retried on the next call.
func (s *RemoteSource) Geometry(ctx context.Context) (*hexjson.Geometry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.geoRead {
		return s.geo, nil
	}

	var (
		geo *hexjson.Geometry
		err error
	)
	if isURL(s.geometryPath) {
		geo, err = s.fetchGeometry(ctx)
	} else {
		geo, err = hexjson.Load(s.geometryPath)
	}
	if err != nil {
		return nil, err
	}
	s.geo, s.geoRead = geo, true
	return geo, nil
}

func (s *RemoteSource) fetchGeometry(ctx context.Context) (*hexjson.Geometry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.geometryPath, nil)
	if err != nil {
		return nil, fmt.Errorf("creating geometry request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching geometry: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geometry %s returned status %d", s.geometryPath, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading geometry: %w", err)
	}
	return hexjson.Parse(data)
}

// Petition fetches petition id.
func (s *RemoteSource) Petition(ctx context.Context, id string) (*petition.Petition, error) {
	return s.client.FetchPetition(ctx, id)
}

// Listing fetches the petitions listing.
func (s *RemoteSource) Listing(ctx context.Context) (*petition.Listing, error) {
	return s.client.FetchListing(ctx)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
