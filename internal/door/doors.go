package door

import (
	"sort"

	"github.com/roomforge/roomforge/internal/geometry"
)

// Source records whether a human placed the door or the engine did.
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

// EdgeDoor is a free-placement door on an edge. OffsetPx is the door start
// measured from the edge's range start, snapped to the 64px grid; the
// rendered door is always 128px wide.
type EdgeDoor struct {
	OffsetPx int    `json:"offsetPx"`
	Source   Source `json:"source"`
}

// EdgeDoorMap stores doors keyed by stable edge id. Values are kept sorted
// by offset. The map is treated as an immutable snapshot: every operation
// returns a new map.
type EdgeDoorMap map[string][]EdgeDoor

func (m EdgeDoorMap) clone() EdgeDoorMap {
	out := make(EdgeDoorMap, len(m))
	for id, ds := range m {
		out[id] = append([]EdgeDoor(nil), ds...)
	}
	return out
}

// legalBand returns the allowed door-start range on an edge, honoring the
// 64px corner margins. Single-tile (128px) edges are the one exception: the
// door starts at 0 and renders under the corner pillars.
func legalBand(edgeLen int) (lo, hi int, ok bool) {
	if edgeLen == geometry.DoorWidthPx {
		return 0, 0, true
	}
	lo = geometry.DoorMarginPx
	hi = edgeLen - geometry.DoorMarginPx - geometry.DoorWidthPx
	if hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// offsetValid reports whether a stored door still satisfies the margin rule.
func offsetValid(edgeLen, offset int) bool {
	lo, hi, ok := legalBand(edgeLen)
	return ok && offset >= lo && offset <= hi
}

func overlapsAny(doors []EdgeDoor, offset int) bool {
	for _, d := range doors {
		if offset < d.OffsetPx+geometry.DoorWidthPx && d.OffsetPx < offset+geometry.DoorWidthPx {
			return true
		}
	}
	return false
}

// Click applies one door-tool click at clickOffsetPx along the edge.
// Clicking inside an existing door removes it; otherwise the click snaps to
// the 64px grid, is clamped into the legal margin band, and a new manual
// door is appended unless it would overlap. Every rejection leaves the map
// unchanged (same map returned, changed=false).
func Click(doors EdgeDoorMap, edgeID string, edgeLen, clickOffsetPx int) (EdgeDoorMap, bool) {
	existing := doors[edgeID]

	for i, d := range existing {
		if clickOffsetPx >= d.OffsetPx && clickOffsetPx < d.OffsetPx+geometry.DoorWidthPx {
			out := doors.clone()
			out[edgeID] = append(append([]EdgeDoor(nil), existing[:i]...), existing[i+1:]...)
			if len(out[edgeID]) == 0 {
				delete(out, edgeID)
			}
			return out, true
		}
	}

	lo, hi, ok := legalBand(edgeLen)
	if !ok {
		return doors, false
	}
	offset := (clickOffsetPx / geometry.DoorGridPx) * geometry.DoorGridPx
	if offset < lo {
		offset = lo
	}
	if offset > hi {
		offset = hi
	}
	if overlapsAny(existing, offset) {
		return doors, false
	}

	out := doors.clone()
	out[edgeID] = insertSorted(out[edgeID], EdgeDoor{OffsetPx: offset, Source: SourceManual})
	return out, true
}

// AutoOffset returns the centered, grid-snapped offset for an automatic
// door, or ok=false when the edge cannot legally hold one.
func AutoOffset(edgeLen int) (int, bool) {
	lo, hi, ok := legalBand(edgeLen)
	if !ok {
		return 0, false
	}
	offset := ((edgeLen - geometry.DoorWidthPx) / 2 / geometry.DoorGridPx) * geometry.DoorGridPx
	if offset < lo {
		offset = lo
	}
	if offset > hi {
		offset = hi
	}
	return offset, true
}

// AddAuto places an automatic centered door on the edge unless it already
// holds one or cannot fit one.
func AddAuto(doors EdgeDoorMap, edgeID string, edgeLen int) (EdgeDoorMap, bool) {
	if len(doors[edgeID]) > 0 {
		return doors, false
	}
	offset, ok := AutoOffset(edgeLen)
	if !ok {
		return doors, false
	}
	out := doors.clone()
	out[edgeID] = []EdgeDoor{{OffsetPx: offset, Source: SourceAuto}}
	return out, true
}

// CleanupForGeometry drops every stored door whose edge no longer exists in
// the current room set or whose offset violates the margin rule after the
// edge changed length. This is garbage collection, not an error path.
func CleanupForGeometry(doors EdgeDoorMap, rooms []geometry.Room) EdgeDoorMap {
	idx := EdgeIndex(rooms)
	out := make(EdgeDoorMap, len(doors))
	for id, ds := range doors {
		edge, ok := idx[id]
		if !ok {
			continue
		}
		var kept []EdgeDoor
		for _, d := range ds {
			if offsetValid(edge.Length(), d.OffsetPx) {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			out[id] = kept
		}
	}
	return out
}

func insertSorted(doors []EdgeDoor, d EdgeDoor) []EdgeDoor {
	out := append(doors, d)
	sort.Slice(out, func(i, j int) bool { return out[i].OffsetPx < out[j].OffsetPx })
	return out
}
