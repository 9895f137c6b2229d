package fcn

import (
	"fmt"
	"math"
)

// Percent is a level relative to an entry price: 100 means unchanged, a
// knock-in barrier at 60 is hit once the price falls to 60% of entry.
type Percent float64

// NewPerformance returns current relative to entry. A missing or invalid entry
// price makes the underlying flat.
func NewPerformance(current, entry float64) Percent {
	if entry <= 0 || !finite(entry) {
		return 100
	}
	return Percent(current / entry * 100)
}

// Equal reports whether p and q agree to display precision.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

// Level returns the price at p of entry, as barrier prices are derived.
func (p Percent) Level(entry float64) float64 {
	return entry * float64(p) / 100
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}
