// Package ranking joins petition signatures onto the constituency grid and
// ranks constituencies by signatures per head of electorate.
package ranking

import (
	"errors"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
)

// ErrUnknownConstituency is returned by Lookup for a code not in the grid.
var ErrUnknownConstituency = errors.New("unknown constituency")

// Joined is a signature record matched to its constituency.
type Joined struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	MP             string  `json:"mp"`
	Population     int     `json:"population"`
	SignatureCount int     `json:"signature_count"`
	Ratio          float64 `json:"ratio"`
	// Index is the record's position in the petition document.
	Index int `json:"-"`
}

// Ratio is signatures over population, 0 when population is not positive.
func Ratio(signatures, population int) float64 {
	if population <= 0 {
		return 0
	}
	return float64(signatures) / float64(population)
}

// Join matches records to constituencies in record order. Codes with no
// constituency are skipped and returned in unmatched.
func Join(geo *hexjson.Geometry, records []petition.SignatureRecord) (joined []Joined, unmatched []string) {
	joined = make([]Joined, 0, len(records))
	for i, rec := range records {
		var hex hexjson.Hex
		ok := false
		if geo != nil {
			hex, ok = geo.Hexes[rec.ONSCode]
		}
		if !ok {
			unmatched = append(unmatched, rec.ONSCode)
			continue
		}
		mp := rec.MP
		if mp == "" {
			mp = hex.MP
		}
		joined = append(joined, Joined{
			Code:           rec.ONSCode,
			Name:           hex.Name,
			MP:             mp,
			Population:     hex.Population,
			SignatureCount: rec.SignatureCount,
			Ratio:          Ratio(rec.SignatureCount, hex.Population),
			Index:          i,
		})
	}
	return joined, unmatched
}

// Detail answers a hover query for one constituency.
type Detail struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	MP             string  `json:"mp"`
	Population     int     `json:"population"`
	SignatureCount int     `json:"signature_count"`
	Ratio          float64 `json:"ratio"`
	// HasData is false when the petition has no record for the code.
	HasData bool `json:"has_data"`
}

// Index maps constituency code to its signature record.
type Index map[string]petition.SignatureRecord

// NewIndex builds an Index. A repeated code keeps the later record.
func NewIndex(records []petition.SignatureRecord) Index {
	idx := make(Index, len(records))
	for _, rec := range records {
		idx[rec.ONSCode] = rec
	}
	return idx
}

// Lookup returns the detail for code. Constituencies with no signature
// record come back with HasData false and zero counts.
func Lookup(geo *hexjson.Geometry, idx Index, code string) (Detail, error) {
	if geo == nil {
		return Detail{}, ErrUnknownConstituency
	}
	hex, ok := geo.Hexes[code]
	if !ok {
		return Detail{}, ErrUnknownConstituency
	}
	d := Detail{
		Code:       code,
		Name:       hex.Name,
		MP:         hex.MP,
		Population: hex.Population,
	}
	rec, ok := idx[code]
	if !ok {
		return d, nil
	}
	d.HasData = true
	d.SignatureCount = rec.SignatureCount
	d.Ratio = Ratio(rec.SignatureCount, hex.Population)
	if rec.MP != "" {
		d.MP = rec.MP
	}
	return d, nil
}
