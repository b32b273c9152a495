package scale

import "math"

// DefaultPadding is the gap between bars as a fraction of the step.
const DefaultPadding = 0.1

// Band divides a pixel range into equal bands, one per domain key, with
// inner and outer padding equal to padding and the bands centred.
type Band struct {
	index     map[string]int
	keys      []string
	start     float64
	step      float64
	bandwidth float64
}

// NewBand builds a band scale. Repeated keys keep their first position.
func NewBand(domain []string, start, stop, padding float64) Band {
	padding = math.Max(0, math.Min(1, padding))

	b := Band{index: make(map[string]int, len(domain))}
	for _, k := range domain {
		if _, dup := b.index[k]; dup {
			continue
		}
		b.index[k] = len(b.keys)
		b.keys = append(b.keys, k)
	}

	n := float64(len(b.keys))
	span := stop - start
	b.step = span / math.Max(1, n-padding+2*padding)
	b.start = start + (span-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Position returns the left edge of key's band.
func (b Band) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth is the width of every band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Domain returns the distinct keys in order.
func (b Band) Domain() []string { return b.keys }
