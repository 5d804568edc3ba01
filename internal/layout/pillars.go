package layout

import (
	"sort"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
)

// Pillar is a decorative post at a wall corner or interval. Positions are
// the pixel point on the wall line; the renderer centers its sprite there.
type Pillar struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	IsCorner   bool `json:"isCorner"`
	IsExternal bool `json:"isExternal"`
}

// Interior pillar fractions by wall length, counted in two-tile (256px)
// segments. Internal (shared) walls never get interior pillars.
func interiorFractions(edgeLen int) []float64 {
	segments := edgeLen / (2 * geometry.TilePx)
	switch {
	case segments >= 5:
		return []float64{0.25, 0.5, 0.75}
	case segments >= 3:
		return []float64{0.5}
	default:
		return nil
	}
}

type pillarPoint struct {
	x, y int
}

// Pillars derives every pillar for the current room set: one corner pillar
// per edge endpoint plus interior pillars on external edges. A pillar whose
// position lies within a door span (inclusive of both boundaries) is
// suppressed under whichever door model is active, except on single-tile
// edges where the door deliberately renders under the corner pillars.
func Pillars(rooms []geometry.Room, prov door.Provider) []Pillar {
	byID := make(map[string]geometry.Room, len(rooms))
	for _, rm := range rooms {
		byID[rm.ID] = rm
	}
	external, internal := geometry.ExtractEdges(rooms)

	type pillarInfo struct {
		isCorner   bool
		isExternal bool
		suppressed bool
	}
	merged := make(map[pillarPoint]*pillarInfo)
	record := func(pt pillarPoint, corner, externalEdge, suppressed bool) {
		info, ok := merged[pt]
		if !ok {
			info = &pillarInfo{isCorner: corner}
			merged[pt] = info
		}
		info.isCorner = info.isCorner || corner
		info.isExternal = info.isExternal || externalEdge
		info.suppressed = info.suppressed || suppressed
	}

	process := func(e geometry.PerimeterEdge, externalEdge bool) {
		edgeID := door.EdgeID(e, byID)
		spans := prov.Spans(edgeID, e.Length())
		suppressedAt := func(alongPx int) bool {
			if e.Length() == geometry.TilePx {
				return false
			}
			for _, s := range spans {
				if alongPx >= s.StartPx && alongPx <= s.EndPx {
					return true
				}
			}
			return false
		}
		point := func(alongAbs int) pillarPoint {
			if e.Orientation == geometry.Horizontal {
				return pillarPoint{x: alongAbs, y: e.Position}
			}
			return pillarPoint{x: e.Position, y: alongAbs}
		}

		record(point(e.RangeStart), true, externalEdge, suppressedAt(0))
		record(point(e.RangeEnd), true, externalEdge, suppressedAt(e.Length()))

		if externalEdge {
			for _, f := range interiorFractions(e.Length()) {
				along := int(float64(e.Length()) * f)
				record(point(e.RangeStart+along), false, true, suppressedAt(along))
			}
		}
	}

	for _, e := range external {
		process(e, true)
	}
	for _, e := range internal {
		process(e, false)
	}

	pillars := make([]Pillar, 0, len(merged))
	for pt, info := range merged {
		if info.suppressed {
			continue
		}
		pillars = append(pillars, Pillar{X: pt.x, Y: pt.y, IsCorner: info.isCorner, IsExternal: info.isExternal})
	}
	sort.Slice(pillars, func(i, j int) bool {
		if pillars[i].Y != pillars[j].Y {
			return pillars[i].Y < pillars[j].Y
		}
		return pillars[i].X < pillars[j].X
	})
	return pillars
}
