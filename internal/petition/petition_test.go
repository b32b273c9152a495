package petition

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const samplePetition = `{
  "links": {"self": "https://petition.parliament.uk/petitions/241584.json"},
  "data": {
    "id": 241584,
    "attributes": {
      "action": "Revoke Article 50",
      "background": "The government repeatedly claims...",
      "signature_count": 200,
      "signatures_by_constituency": [
        {"name": "A", "ons_code": "E1", "mp": "X", "signature_count": 100},
        {"name": "B", "ons_code": "E2", "mp": "Y", "signature_count": 100}
      ]
    }
  }
}`

const sampleListing = `{"data": [
  {"id": 1, "attributes": {"action": "First"}},
  {"id": 2, "attributes": {"action": "Second"}}
]}`

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

func TestParsePetition(t *testing.T) {
	p, err := ParsePetition([]byte(samplePetition))
	if err != nil {
		t.Fatalf("ParsePetition() error: %v", err)
	}
	if p.Data.Attributes.Action != "Revoke Article 50" {
		t.Errorf("Action = %q", p.Data.Attributes.Action)
	}
	recs := p.Records()
	if len(recs) != 2 || recs[0].ONSCode != "E1" || recs[1].SignatureCount != 100 {
		t.Errorf("Records() = %+v", recs)
	}
	if got := p.SignURL(); got != "https://petition.parliament.uk/petitions/241584" {
		t.Errorf("SignURL() = %q", got)
	}
}

func TestSignURLWithoutSuffix(t *testing.T) {
	var p Petition
	p.Links.Self = "https://example.org/petitions/1"
	if got := p.SignURL(); got != "https://example.org/petitions/1" {
		t.Errorf("SignURL() = %q", got)
	}
}

func TestFetchPetition(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePetition))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	p, err := c.FetchPetition(context.Background(), "241584")
	if err != nil {
		t.Fatalf("FetchPetition() error: %v", err)
	}
	if gotPath != "/petitions/241584.json" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if p.Data.ID != 241584 {
		t.Errorf("ID = %d", p.Data.ID)
	}
}

func TestFetchPetitionRejectsInvalidID(t *testing.T) {
	called := false
	c := NewClient(ClientConfig{HTTPClient: &mockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unreachable")
	}}})

	_, err := c.FetchPetition(context.Background(), "../admin")
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	if called {
		t.Error("no request should be sent for an invalid id")
	}
}

func TestFetchPetitionStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(ClientConfig{HTTPClient: &mockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: tt.status, Body: io.NopCloser(strings.NewReader("nope"))}, nil
			}}})
			_, err := c.FetchPetition(context.Background(), "1")
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNotFound) != tt.notFound {
				t.Errorf("errors.Is(err, ErrNotFound) = %v, want %v (err=%v)", !tt.notFound, tt.notFound, err)
			}
		})
	}
}

func TestFetchPetitionNetworkError(t *testing.T) {
	c := NewClient(ClientConfig{HTTPClient: &mockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}})
	if _, err := c.FetchPetition(context.Background(), "1"); err == nil {
		t.Error("expected error")
	}
}

func TestFetchListing(t *testing.T) {
	c := NewClient(ClientConfig{HTTPClient: &mockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != DefaultBaseURL+"/petitions.json" {
			t.Errorf("unexpected URL %s", req.URL)
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(sampleListing))}, nil
	}}})
	l, err := c.FetchListing(context.Background())
	if err != nil {
		t.Fatalf("FetchListing() error: %v", err)
	}
	if len(l.Data) != 2 || l.Data[1].Attributes.Action != "Second" {
		t.Errorf("listing = %+v", l.Data)
	}
}

func TestSelectedID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", DefaultID},
		{"   ", DefaultID},
		{"12345", "12345"},
		{"?12345", "12345"},
		{" 12345 ", "12345"},
		{"%2012345", "12345"},
		{"abc", DefaultID},
		{"123/../admin", DefaultID},
		{"id=5", DefaultID},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := SelectedID(tt.raw, DefaultID); got != tt.want {
				t.Errorf("SelectedID(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
