package ranking

import (
	"sort"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
)

// DefaultK is the number of constituencies shown in the bar chart.
const DefaultK = 100

// Options controls selection.
type Options struct {
	// K is the total bar count; K <= 0 means DefaultK. Each end gets ceil(K/2).
	K int
	// Dedupe drops bottom entries already in the top slice from Selected.
	Dedupe bool
}

// Result is one ranking pass. Everything is derived; nothing is cached
// between passes.
type Result struct {
	// Sorted holds every matched record, highest ratio first.
	Sorted []Joined `json:"sorted"`
	// Top and Bottom are the two ends of Sorted and may overlap.
	Top    []Joined `json:"top"`
	Bottom []Joined `json:"bottom"`
	// Selected is Top followed by Bottom, deduplicated when requested.
	Selected      []Joined `json:"selected"`
	MaxSignatures int      `json:"max_signatures"`
	MaxPopulation int      `json:"max_population"`
	MaxRatio      float64  `json:"max_ratio"`
	// TopRatio is the color domain ceiling.
	TopRatio  float64  `json:"top_ratio"`
	Unmatched []string `json:"unmatched,omitempty"`

	byCode map[string]Joined
}

// Rank joins records onto geo, sorts by ratio descending (ties keep record
// order) and selects both ends of the ordering.
func Rank(geo *hexjson.Geometry, records []petition.SignatureRecord, opts Options) *Result {
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}

	joined, unmatched := Join(geo, records)
	sort.SliceStable(joined, func(i, j int) bool {
		return joined[i].Ratio > joined[j].Ratio
	})

	half := (k + 1) / 2
	if half > len(joined) {
		half = len(joined)
	}

	res := &Result{
		Sorted:    joined,
		Top:       joined[:half],
		Bottom:    joined[len(joined)-half:],
		Unmatched: unmatched,
		byCode:    make(map[string]Joined, len(joined)),
	}
	res.Selected = selectEnds(res.Top, res.Bottom, opts.Dedupe)

	for _, rec := range records {
		if rec.SignatureCount > res.MaxSignatures {
			res.MaxSignatures = rec.SignatureCount
		}
	}
	if geo != nil {
		res.MaxPopulation = geo.MaxPopulation()
	}
	if len(joined) > 0 {
		res.MaxRatio = joined[0].Ratio
	}
	res.TopRatio = TopRatio(res.MaxSignatures, res.MaxPopulation)

	for _, j := range joined {
		if _, seen := res.byCode[j.Code]; !seen {
			res.byCode[j.Code] = j
		}
	}
	return res
}

// RatioFor is the ratio used to color code on the map, 0 when the petition
// has no signatures there.
func (r *Result) RatioFor(code string) float64 {
	return r.byCode[code].Ratio
}

// TopRatio is maxSignatures/maxPopulation rounded up to the next 0.01.
// Integer arithmetic keeps exact multiples (e.g. 100/2000) from drifting up.
func TopRatio(maxSignatures, maxPopulation int) float64 {
	if maxPopulation <= 0 || maxSignatures <= 0 {
		return 0
	}
	n := int64(maxSignatures) * 100
	d := int64(maxPopulation)
	hundredths := (n + d - 1) / d
	return float64(hundredths) / 100
}

func selectEnds(top, bottom []Joined, dedupe bool) []Joined {
	out := make([]Joined, 0, len(top)+len(bottom))
	out = append(out, top...)
	if !dedupe {
		return append(out, bottom...)
	}
	seen := make(map[int]bool, len(top))
	for _, j := range top {
		seen[j.Index] = true
	}
	for _, j := range bottom {
		if !seen[j.Index] {
			out = append(out, j)
		}
	}
	return out
}
