// Package power estimates the electrical draw of a build and the PSU
// capacity it needs.
package power

import (
	"math"

	"github.com/HerbHall/rigplanner/internal/specs"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// DrawKeys are the attribute names consulted for a part's power draw,
// in priority order.
var DrawKeys = []string{"TDP", "Power Draw", "Power Consumption", "TBP"}

// Fallback draws in watts for parts whose draw attribute is absent.
const (
	MotherboardWatts = 45
	RAMWatts         = 10
	StorageWatts     = 8
	CoolerWatts      = 10
)

// PSUHeadroom is the multiplier applied to the estimated draw before rounding.
const PSUHeadroom = 1.25

// PSUStep is the granularity recommendations are rounded up to.
const PSUStep = 50

var fallbacks = map[models.SlotKind]float64{
	models.SlotMotherboard: MotherboardWatts,
	models.SlotRAM:         RAMWatts,
	models.SlotStorage:     StorageWatts,
	models.SlotCooler:      CoolerWatts,
}

// Draw returns the estimated draw of c in slot kind. The second value
// reports whether a fallback constant was used.
func Draw(kind models.SlotKind, c *models.Component) (float64, bool) {
	if c == nil {
		return 0, false
	}
	switch kind {
	case models.SlotPSU, models.SlotCase:
		return 0, false
	}

	w := math.Max(specs.Number(c, DrawKeys...), 0)
	if w == 0 {
		if fb, ok := fallbacks[kind]; ok {
			return fb, true
		}
	}
	return w, false
}

// EstimateWatts sums the draw of every occupied slot. The result is never
// negative.
func EstimateWatts(build models.BuildSlotMap) float64 {
	var total float64
	for _, kind := range models.SlotKinds() {
		w, _ := Draw(kind, build.Get(kind))
		total += w
	}
	return total
}

// RecommendedPSU returns the PSU capacity for a draw of w watts: w plus 25%
// headroom, rounded up to the next multiple of 50. Zero or negative draw
// yields 0.
func RecommendedPSU(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return math.Ceil(w*PSUHeadroom/PSUStep) * PSUStep
}
