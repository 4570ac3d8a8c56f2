package layout

import (
	"sort"

	"github.com/Nixie-Tech-LLC/marquee/internal/model"
)

const (
	// spanHeightThreshold is the stored height at or below which the
	// spanning zone is stretched to the full screen height.
	spanHeightThreshold = 55.0
	// columnTolerance widens the spanning column when matching x.
	columnTolerance = 5.0
	boundsTolerance = 0.5
)

// Placement is one zone's final geometry in custom-position mode.
type Placement struct {
	ZoneID int        `json:"zone_id"`
	Index  int        `json:"index"`
	Rect   model.Rect `json:"rect"`
	// Forced is set when the span heuristic overrode the stored height.
	Forced bool `json:"forced,omitempty"`
	// Fallback is set when the zone had no usable geometry and got its
	// grid slot instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Review flags geometry the span heuristic could not vouch for.
type Review struct {
	ZoneID int    `json:"zone_id"`
	Reason string `json:"reason"`
}

// HasCustomPositions reports whether any zone carries valid explicit
// geometry. If one does, the whole screen renders in custom mode.
func HasCustomPositions(zones []model.Zone) bool {
	for _, z := range zones {
		if _, ok := z.Rect(); ok {
			return true
		}
	}
	return false
}

// SortZones orders zones by zone index, then id.
func SortZones(zones []model.Zone) []model.Zone {
	out := make([]model.Zone, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ZoneIndex == out[j].ZoneIndex {
			return out[i].ID < out[j].ID
		}
		return out[i].ZoneIndex < out[j].ZoneIndex
	})
	return out
}

// spanColumn is the x range of the column a spanning zone occupies for the
// counts whose grid fallback has a row span.
var spanColumn = map[int]struct {
	index int
	minX  float64
}{
	3: {index: 2, minX: 50},
	5: {index: 2, minX: 100.0 * 2 / 3},
}

// PlaceCustom lays out zones with their stored percentages. Zones must
// already be sorted (see SortZones).
func PlaceCustom(zones []model.Zone) ([]Placement, []Review) {
	grid := Resolve(len(zones))
	out := make([]Placement, len(zones))
	var reviews []Review

	span, hasSpan := spanColumn[len(zones)]

	for i, z := range zones {
		p := Placement{ZoneID: z.ID, Index: i}
		r, ok := z.Rect()
		if !ok {
			p.Rect = grid.Rect(grid.Cells[i])
			p.Fallback = true
			reviews = append(reviews, Review{ZoneID: z.ID, Reason: "no usable geometry, using grid slot"})
			out[i] = p
			continue
		}

		if hasSpan && i == span.index && r.Height <= spanHeightThreshold {
			if r.X >= span.minX-columnTolerance {
				r.Y = 0
				r.Height = 100
				p.Forced = true
			} else {
				reviews = append(reviews, Review{ZoneID: z.ID, Reason: "spanning zone is short but outside the spanning column"})
			}
		}
		if r.X+r.Width > 100+boundsTolerance || r.Y+r.Height > 100+boundsTolerance {
			reviews = append(reviews, Review{ZoneID: z.ID, Reason: "rectangle exceeds screen bounds"})
		}
		p.Rect = r
		out[i] = p
	}
	return out, reviews
}
