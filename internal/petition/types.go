// Package petition fetches petition data from the UK Parliament petitions
// site and decodes its JSON documents.
package petition

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureRecord is the signature count for one constituency.
type SignatureRecord struct {
	ONSCode        string `json:"ons_code"`
	Name           string `json:"name,omitempty"`
	MP             string `json:"mp"`
	SignatureCount int    `json:"signature_count"`
}

// Attributes is the attributes block of a petition document.
type Attributes struct {
	Action                   string            `json:"action"`
	Background               string            `json:"background"`
	AdditionalDetails        string            `json:"additional_details,omitempty"`
	State                    string            `json:"state,omitempty"`
	SignatureCount           int               `json:"signature_count"`
	SignaturesByConstituency []SignatureRecord `json:"signatures_by_constituency"`
}

// Petition is a single petition document (petitions/<id>.json).
type Petition struct {
	Data struct {
		ID         int        `json:"id"`
		Attributes Attributes `json:"attributes"`
	} `json:"data"`
	Links struct {
		Self string `json:"self"`
	} `json:"links"`
}

// Records returns the per-constituency signature records in document order.
func (p *Petition) Records() []SignatureRecord {
	return p.Data.Attributes.SignaturesByConstituency
}

// SignURL is the human-facing petition page: the self link without ".json".
func (p *Petition) SignURL() string {
	self := p.Links.Self
	if strings.HasSuffix(strings.ToLower(self), ".json") {
		return self[:len(self)-len(".json")]
	}
	return self
}

// Summary is one entry of the petitions listing feed.
type Summary struct {
	ID         int `json:"id"`
	Attributes struct {
		Action         string `json:"action"`
		SignatureCount int    `json:"signature_count,omitempty"`
	} `json:"attributes"`
}

// Listing is the petitions listing document (petitions.json).
type Listing struct {
	Data []Summary `json:"data"`
}

// ParsePetition decodes a petition document.
func ParsePetition(data []byte) (*Petition, error) {
	var p Petition
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding petition: %w", err)
	}
	return &p, nil
}

// ParseListing decodes a petitions listing document.
func ParseListing(data []byte) (*Listing, error) {
	var l Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding petition listing: %w", err)
	}
	return &l, nil
}
