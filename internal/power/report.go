package power

import (
	"math"

	"github.com/HerbHall/rigplanner/pkg/models"
)

// Line is one slot's contribution to the power estimate.
type Line struct {
	Slot     models.SlotKind `json:"slot"`
	Label    string          `json:"label"`
	Part     string          `json:"part,omitempty"`
	Watts    float64         `json:"watts"`
	Fallback bool            `json:"fallback,omitempty"`
}

// Report is the itemised power breakdown shown next to a build.
type Report struct {
	Lines          []Line  `json:"lines"`
	Total          float64 `json:"total"`
	RecommendedPSU float64 `json:"recommended_psu"`
	Headroom       float64 `json:"headroom"`
	UsageRatio     float64 `json:"usage_ratio"`
}

// NewReport builds the per-slot breakdown for build. Lines follow slot
// order and cover occupied slots only.
func NewReport(build models.BuildSlotMap) Report {
	var r Report
	for _, kind := range models.SlotKinds() {
		c := build.Get(kind)
		if c == nil {
			continue
		}
		w, fb := Draw(kind, c)
		r.Lines = append(r.Lines, Line{
			Slot:     kind,
			Label:    kind.Label(),
			Part:     c.Name,
			Watts:    w,
			Fallback: fb,
		})
		r.Total += w
	}

	r.RecommendedPSU = RecommendedPSU(r.Total)
	r.Headroom = r.RecommendedPSU - r.Total
	if r.RecommendedPSU > 0 {
		r.UsageRatio = math.Min(r.Total/r.RecommendedPSU, 1)
	}
	return r
}
