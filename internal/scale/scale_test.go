package scale

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSequentialBounds(t *testing.T) {
	s := NewSequential(0, 0.05, Viridis)

	if got := s.Color(0); got != "#440154" {
		t.Errorf("Color(0) = %s, want #440154", got)
	}
	if got := s.Color(0.05); got != "#fde725" {
		t.Errorf("Color(top) = %s, want #fde725", got)
	}
	// Values past the ceiling clamp to the last stop.
	if got := s.Color(0.1); got != "#fde725" {
		t.Errorf("Color(0.1) = %s, want clamp to #fde725", got)
	}
	if got := s.Color(-1); got != "#440154" {
		t.Errorf("Color(-1) = %s, want clamp to #440154", got)
	}
	if got := s.Color(math.NaN()); got != "#440154" {
		t.Errorf("Color(NaN) = %s", got)
	}
	lo, hi := s.Domain()
	if lo != 0 || hi != 0.05 {
		t.Errorf("Domain() = %v, %v", lo, hi)
	}
}

func TestSequentialMonotonicLuma(t *testing.T) {
	s := NewSequential(0, 1, Viridis)
	prev := -1.0
	for i := 0; i <= 1000; i++ {
		l := s.RGB(float64(i) / 1000).Luma()
		if l < prev-1.0 {
			t.Fatalf("luma drops at %d: %.2f -> %.2f", i, prev, l)
		}
		prev = math.Max(prev, l)
	}
}

func TestSequentialDeterministic(t *testing.T) {
	a := NewSequential(0, 0.3, Viridis)
	b := NewSequential(0, 0.3, Viridis)
	for _, v := range []float64{0, 0.01, 0.123, 0.29, 0.3} {
		if a.Color(v) != b.Color(v) {
			t.Errorf("Color(%v) differs between identical scales", v)
		}
	}
}

func TestSequentialDegenerateDomain(t *testing.T) {
	s := NewSequential(0, 0, Viridis)
	for _, v := range []float64{0, 0.5, 10} {
		if got := s.Color(v); got != "#440154" {
			t.Errorf("Color(%v) = %s on zero domain", v, got)
		}
	}
}

func TestSequentialTicks(t *testing.T) {
	ticks := NewSequential(0, 0.05, Viridis).Ticks(5)
	if len(ticks) != 6 {
		t.Fatalf("len(Ticks) = %d", len(ticks))
	}
	if ticks[0] != 0 || !approx(ticks[5], 0.05) || !approx(ticks[1], 0.01) {
		t.Errorf("Ticks = %v", ticks)
	}
}

func TestPaletteAt(t *testing.T) {
	mid := Viridis.At(0.05)
	a, b := Viridis[0], Viridis[1]
	if mid.R < min(a.R, b.R) || mid.R > max(a.R, b.R) {
		t.Errorf("At(0.05) = %+v not between stops", mid)
	}
	if (Palette{}).At(0.5) != (RGB{}) {
		t.Error("empty palette should give zero color")
	}
}

func TestBand(t *testing.T) {
	b := NewBand([]string{"a", "b", "c", "d"}, 0, 170, DefaultPadding)

	// step = 170 / (4 + 0.1) ; bandwidth = 0.9 * step
	step := 170 / 4.1
	if !approx(b.Step(), step) {
		t.Errorf("Step() = %v, want %v", b.Step(), step)
	}
	if !approx(b.Bandwidth(), step*0.9) {
		t.Errorf("Bandwidth() = %v, want %v", b.Bandwidth(), step*0.9)
	}

	first, ok := b.Position("a")
	if !ok || !approx(first, step*0.1) {
		t.Errorf("Position(a) = %v, %v; want %v", first, ok, step*0.1)
	}
	last, _ := b.Position("d")
	if end := last + b.Bandwidth(); !approx(170-end, step*0.1) {
		t.Errorf("outer padding on right = %v, want %v", 170-end, step*0.1)
	}

	if _, ok := b.Position("zzz"); ok {
		t.Error("unknown key should not have a position")
	}
}

func TestBandOffsetRangeAndDuplicates(t *testing.T) {
	b := NewBand([]string{"x", "y", "x"}, 170, 340, DefaultPadding)
	if len(b.Domain()) != 2 {
		t.Fatalf("Domain() = %v, want 2 distinct keys", b.Domain())
	}
	x, _ := b.Position("x")
	y, _ := b.Position("y")
	if x < 170 || y+b.Bandwidth() > 340+1e-9 {
		t.Errorf("bands escape [170, 340]: x=%v y=%v", x, y)
	}
	if !approx(y-x, b.Step()) {
		t.Errorf("adjacent bands %v apart, want %v", y-x, b.Step())
	}
}

func TestBandEmpty(t *testing.T) {
	b := NewBand(nil, 0, 100, DefaultPadding)
	if len(b.Domain()) != 0 {
		t.Error("expected empty domain")
	}
	if _, ok := b.Position("a"); ok {
		t.Error("expected no position")
	}
}

func TestLinear(t *testing.T) {
	y := NewLinear(0, 100, 200, 0)
	tests := []struct{ in, want float64 }{
		{0, 200},
		{100, 0},
		{50, 100},
		{25, 150},
	}
	for _, tt := range tests {
		if got := y.Map(tt.in); !approx(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	flat := NewLinear(0, 0, 200, 0)
	if got := flat.Map(0); got != 200 {
		t.Errorf("zero domain Map(0) = %v, want 200", got)
	}
}
