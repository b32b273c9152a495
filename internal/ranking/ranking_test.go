package ranking

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/petition"
)

func twoSeatGeo() *hexjson.Geometry {
	return &hexjson.Geometry{
		Layout: hexjson.LayoutOddR,
		Hexes: map[string]hexjson.Hex{
			"E1": {Name: "A", Population: 1000, MP: "X"},
			"E2": {Name: "B", Population: 2000, MP: "Y", Q: 1},
		},
	}
}

func rec(code string, count int) petition.SignatureRecord {
	return petition.SignatureRecord{ONSCode: code, MP: "mp-" + code, SignatureCount: count}
}

// syntheticGeo builds n constituencies C000..C(n-1) with populations 1000+i.
func syntheticGeo(n int) *hexjson.Geometry {
	g := &hexjson.Geometry{Layout: hexjson.LayoutOddR, Hexes: map[string]hexjson.Hex{}}
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("C%03d", i)
		g.Hexes[code] = hexjson.Hex{Q: i % 20, R: i / 20, Name: code, Population: 1000 + i}
	}
	return g
}

func TestRatio(t *testing.T) {
	tests := []struct {
		sigs, pop int
		want      float64
	}{
		{100, 1000, 0.1},
		{0, 1000, 0},
		{100, 0, 0},
		{100, -5, 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.sigs, tt.pop); got != tt.want {
			t.Errorf("Ratio(%d, %d) = %v, want %v", tt.sigs, tt.pop, got, tt.want)
		}
	}
}

func TestRankTwoSeatScenario(t *testing.T) {
	res := Rank(twoSeatGeo(), []petition.SignatureRecord{
		{ONSCode: "E1", MP: "X", SignatureCount: 100},
		{ONSCode: "E2", MP: "Y", SignatureCount: 100},
	}, Options{})

	if len(res.Sorted) != 2 || res.Sorted[0].Code != "E1" || res.Sorted[1].Code != "E2" {
		t.Fatalf("Sorted = %+v, want [E1 E2]", res.Sorted)
	}
	if res.Sorted[0].Ratio != 0.1 || res.Sorted[1].Ratio != 0.05 {
		t.Errorf("ratios = %v, %v; want 0.1, 0.05", res.Sorted[0].Ratio, res.Sorted[1].Ratio)
	}
	if res.MaxSignatures != 100 {
		t.Errorf("MaxSignatures = %d, want 100", res.MaxSignatures)
	}
	if res.MaxPopulation != 2000 {
		t.Errorf("MaxPopulation = %d, want 2000", res.MaxPopulation)
	}
	if res.TopRatio != 0.05 {
		t.Errorf("TopRatio = %v, want 0.05", res.TopRatio)
	}
	if res.MaxRatio != 0.1 {
		t.Errorf("MaxRatio = %v, want 0.1", res.MaxRatio)
	}
	if len(res.Unmatched) != 0 {
		t.Errorf("Unmatched = %v", res.Unmatched)
	}
}

func TestRankSkipsUnmatchedCode(t *testing.T) {
	res := Rank(twoSeatGeo(), []petition.SignatureRecord{
		rec("E1", 10), rec("E9", 500), rec("E2", 10),
	}, Options{})

	if len(res.Sorted) != 2 {
		t.Fatalf("expected 2 ranked records, got %d", len(res.Sorted))
	}
	for _, j := range res.Sorted {
		if j.Code == "E9" {
			t.Error("E9 must not be ranked")
		}
	}
	if !reflect.DeepEqual(res.Unmatched, []string{"E9"}) {
		t.Errorf("Unmatched = %v, want [E9]", res.Unmatched)
	}
	// Maxima are taken over the full record set.
	if res.MaxSignatures != 500 {
		t.Errorf("MaxSignatures = %d, want 500", res.MaxSignatures)
	}
}

func TestRankEmptySignatures(t *testing.T) {
	res := Rank(twoSeatGeo(), nil, Options{})
	if res.MaxSignatures != 0 {
		t.Errorf("MaxSignatures = %d, want 0", res.MaxSignatures)
	}
	if res.TopRatio != 0 {
		t.Errorf("TopRatio = %v, want 0", res.TopRatio)
	}
	if len(res.Selected) != 0 || len(res.Top) != 0 || len(res.Bottom) != 0 {
		t.Errorf("expected empty selection, got %+v", res.Selected)
	}
	for _, code := range []string{"E1", "E2"} {
		if r := res.RatioFor(code); r != 0 {
			t.Errorf("RatioFor(%s) = %v, want 0", code, r)
		}
	}
}

func TestRankDegenerateInputs(t *testing.T) {
	empty := &hexjson.Geometry{Hexes: map[string]hexjson.Hex{}}
	res := Rank(empty, []petition.SignatureRecord{rec("E1", 5)}, Options{})
	if res.TopRatio != 0 || len(res.Sorted) != 0 {
		t.Errorf("empty geometry: %+v", res)
	}

	zeroPop := &hexjson.Geometry{Hexes: map[string]hexjson.Hex{"E1": {Population: 0}}}
	res = Rank(zeroPop, []petition.SignatureRecord{rec("E1", 5)}, Options{})
	if len(res.Sorted) != 1 || res.Sorted[0].Ratio != 0 {
		t.Errorf("zero population: %+v", res.Sorted)
	}
	if res.TopRatio != 0 {
		t.Errorf("TopRatio = %v, want 0", res.TopRatio)
	}

	res = Rank(nil, []petition.SignatureRecord{rec("E1", 5)}, Options{})
	if len(res.Sorted) != 0 || len(res.Unmatched) != 1 {
		t.Errorf("nil geometry: %+v", res)
	}
}

func TestRankStableTies(t *testing.T) {
	geo := &hexjson.Geometry{Hexes: map[string]hexjson.Hex{}}
	var recs []petition.SignatureRecord
	for i := 0; i < 10; i++ {
		code := fmt.Sprintf("T%d", i)
		geo.Hexes[code] = hexjson.Hex{Population: 100}
		recs = append(recs, rec(code, 5))
	}

	first := Rank(geo, recs, Options{K: 4})
	for i, j := range first.Sorted {
		if j.Code != fmt.Sprintf("T%d", i) {
			t.Fatalf("tie order broken at %d: %s", i, j.Code)
		}
	}
	for run := 0; run < 5; run++ {
		again := Rank(geo, recs, Options{K: 4})
		if !reflect.DeepEqual(codes(first.Selected), codes(again.Selected)) {
			t.Fatalf("run %d: selection differs: %v vs %v", run, codes(first.Selected), codes(again.Selected))
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	recs := []petition.SignatureRecord{rec("E2", 1), rec("E1", 100)}
	Rank(twoSeatGeo(), recs, Options{})
	if recs[0].ONSCode != "E2" || recs[1].ONSCode != "E1" {
		t.Errorf("input reordered: %+v", recs)
	}
}

func TestRankSelectionEnds(t *testing.T) {
	geo := syntheticGeo(300)
	var recs []petition.SignatureRecord
	for i := 0; i < 300; i++ {
		recs = append(recs, rec(fmt.Sprintf("C%03d", i), (i*37)%211+1))
	}

	res := Rank(geo, recs, Options{})
	if len(res.Top) != 50 || len(res.Bottom) != 50 || len(res.Selected) != 100 {
		t.Fatalf("sizes: top=%d bottom=%d selected=%d", len(res.Top), len(res.Bottom), len(res.Selected))
	}

	maxR, minR := math.Inf(-1), math.Inf(1)
	for _, j := range res.Sorted {
		maxR = math.Max(maxR, j.Ratio)
		minR = math.Min(minR, j.Ratio)
	}
	if res.Top[0].Ratio != maxR {
		t.Errorf("first top ratio %v, want max %v", res.Top[0].Ratio, maxR)
	}
	if res.Bottom[len(res.Bottom)-1].Ratio != minR {
		t.Errorf("last bottom ratio %v, want min %v", res.Bottom[len(res.Bottom)-1].Ratio, minR)
	}
	for i := 1; i < len(res.Sorted); i++ {
		if res.Sorted[i].Ratio > res.Sorted[i-1].Ratio {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
}

func TestRankSelectionIsSubsetOfInput(t *testing.T) {
	geo := syntheticGeo(40)
	var recs []petition.SignatureRecord
	for i := 0; i < 40; i += 2 {
		recs = append(recs, rec(fmt.Sprintf("C%03d", i), i+1))
	}
	recs = append(recs, rec("NOPE", 3))

	for _, k := range []int{1, 2, 7, 10, 100} {
		res := Rank(geo, recs, Options{K: k})
		if len(res.Sorted) > len(recs) {
			t.Errorf("K=%d: more ranked records than input", k)
		}
		input := map[string]int{}
		for _, r := range recs {
			input[r.ONSCode] = r.SignatureCount
		}
		for _, j := range res.Selected {
			count, ok := input[j.Code]
			if !ok || count != j.SignatureCount {
				t.Errorf("K=%d: fabricated record %+v", k, j)
			}
		}
	}
}

func TestRankOverlapAndDedupe(t *testing.T) {
	res := Rank(twoSeatGeo(), []petition.SignatureRecord{rec("E1", 100), rec("E2", 100)}, Options{K: 100})
	if len(res.Top) != 2 || len(res.Bottom) != 2 {
		t.Fatalf("K/2 should clamp to 2, got top=%d bottom=%d", len(res.Top), len(res.Bottom))
	}
	if got := codes(res.Selected); !reflect.DeepEqual(got, []string{"E1", "E2", "E1", "E2"}) {
		t.Errorf("overlapping Selected = %v", got)
	}

	deduped := Rank(twoSeatGeo(), []petition.SignatureRecord{rec("E1", 100), rec("E2", 100)}, Options{K: 100, Dedupe: true})
	if got := codes(deduped.Selected); !reflect.DeepEqual(got, []string{"E1", "E2"}) {
		t.Errorf("deduped Selected = %v", got)
	}
}

func TestRankOddK(t *testing.T) {
	geo := syntheticGeo(10)
	var recs []petition.SignatureRecord
	for i := 0; i < 10; i++ {
		recs = append(recs, rec(fmt.Sprintf("C%03d", i), 10*i+1))
	}
	res := Rank(geo, recs, Options{K: 5})
	if len(res.Top) != 3 || len(res.Bottom) != 3 {
		t.Errorf("K=5: top=%d bottom=%d, want 3 each", len(res.Top), len(res.Bottom))
	}
}

func TestTopRatio(t *testing.T) {
	tests := []struct {
		sigs, pop int
		want      float64
	}{
		{100, 2000, 0.05},
		{101, 2000, 0.06},
		{1, 100000, 0.01},
		{0, 100000, 0},
		{10, 0, 0},
		{3, 3, 1},
		{7, 100, 0.07},
		{29, 100, 0.29},
	}
	for _, tt := range tests {
		got := TopRatio(tt.sigs, tt.pop)
		if got != tt.want {
			t.Errorf("TopRatio(%d, %d) = %v, want %v", tt.sigs, tt.pop, got, tt.want)
		}
		// Always a ceiling of the raw ratio and a whole number of hundredths.
		if raw := Ratio(tt.sigs, tt.pop); got < raw {
			t.Errorf("TopRatio(%d, %d) = %v below raw ratio %v", tt.sigs, tt.pop, got, raw)
		}
		if h := got * 100; math.Abs(h-math.Round(h)) > 1e-9 {
			t.Errorf("TopRatio(%d, %d) = %v is not a multiple of 0.01", tt.sigs, tt.pop, got)
		}
	}
}

func TestJoinAndLookup(t *testing.T) {
	geo := twoSeatGeo()
	recs := []petition.SignatureRecord{{ONSCode: "E1", MP: "", SignatureCount: 250}}

	joined, unmatched := Join(geo, recs)
	if len(joined) != 1 || len(unmatched) != 0 {
		t.Fatalf("Join() = %+v, %v", joined, unmatched)
	}
	if joined[0].MP != "X" {
		t.Errorf("empty record MP should fall back to grid MP, got %q", joined[0].MP)
	}

	idx := NewIndex(recs)
	d, err := Lookup(geo, idx, "E1")
	if err != nil {
		t.Fatalf("Lookup(E1) error: %v", err)
	}
	if !d.HasData || d.SignatureCount != 250 || d.Ratio != 0.25 || d.Population != 1000 || d.Name != "A" {
		t.Errorf("Lookup(E1) = %+v", d)
	}

	d, err = Lookup(geo, idx, "E2")
	if err != nil {
		t.Fatalf("Lookup(E2) error: %v", err)
	}
	if d.HasData || d.SignatureCount != 0 || d.Ratio != 0 || d.MP != "Y" {
		t.Errorf("Lookup(E2) = %+v, want no-data sentinel", d)
	}

	if _, err := Lookup(geo, idx, "E9"); !errors.Is(err, ErrUnknownConstituency) {
		t.Errorf("Lookup(E9) error = %v, want ErrUnknownConstituency", err)
	}
}

func codes(js []Joined) []string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.Code
	}
	return out
}
