package door

import (
	"fmt"
	"strings"

	"github.com/roomforge/roomforge/internal/geometry"
)

// Side labels a room wall in room-local terms.
type Side string

const (
	SideNorth Side = "N"
	SideSouth Side = "S"
	SideEast  Side = "E"
	SideWest  Side = "W"
)

// ExternalEdgeRef is the parsed form of an external edge id. Offset and
// length are relative to the owning room's top-left corner, which makes the
// id invariant to moving the room.
type ExternalEdgeRef struct {
	Orientation geometry.Orientation
	RoomID      string
	Side        Side
	OffsetPx    int
	LengthPx    int
}

// ID renders the canonical external edge id string.
func (r ExternalEdgeRef) ID() string {
	return fmt.Sprintf("%s|%s|%s:%d+%d", r.Orientation, r.RoomID, r.Side, r.OffsetPx, r.LengthPx)
}

// EdgeID computes the stable identity for a derived edge. External edges are
// keyed room-locally (they survive translation); internal edges are keyed by
// the sorted room pair plus absolute geometry and only live while the two
// rooms stay adjacent there. Identities are recomputed from current geometry
// on every query and never stored on the edge.
func EdgeID(e geometry.PerimeterEdge, roomsByID map[string]geometry.Room) string {
	if e.IsInternal {
		a, b := e.RoomA, e.RoomB
		if b < a {
			a, b = b, a
		}
		return fmt.Sprintf("%s|%s+%s|%d:%d-%d", e.Orientation, a, b, e.Position, e.RangeStart, e.RangeEnd)
	}

	rm, ok := roomsByID[e.RoomA]
	if !ok {
		// Orphan edge; fall back to absolute geometry so the id is at least unique.
		return fmt.Sprintf("%s|%s|?:%d-%d@%d", e.Orientation, e.RoomA, e.RangeStart, e.RangeEnd, e.Position)
	}
	rect := rm.PixelRect()

	var side Side
	var offset int
	if e.Orientation == geometry.Horizontal {
		side = SideSouth
		if e.Position == rect.Y {
			side = SideNorth
		}
		offset = e.RangeStart - rect.X
	} else {
		side = SideEast
		if e.Position == rect.X {
			side = SideWest
		}
		offset = e.RangeStart - rect.Y
	}

	ref := ExternalEdgeRef{
		Orientation: e.Orientation,
		RoomID:      e.RoomA,
		Side:        side,
		OffsetPx:    offset,
		LengthPx:    e.Length(),
	}
	return ref.ID()
}

// ParseExternalID decodes an id produced by ExternalEdgeRef.ID. Internal and
// malformed ids return ok=false.
func ParseExternalID(id string) (ExternalEdgeRef, bool) {
	parts := strings.Split(id, "|")
	if len(parts) != 3 || strings.Contains(parts[1], "+") {
		return ExternalEdgeRef{}, false
	}
	o := geometry.Orientation(parts[0])
	if o != geometry.Horizontal && o != geometry.Vertical {
		return ExternalEdgeRef{}, false
	}

	var side string
	var offset, length int
	if _, err := fmt.Sscanf(parts[2], "%1s:%d+%d", &side, &offset, &length); err != nil {
		return ExternalEdgeRef{}, false
	}
	s := Side(side)
	switch s {
	case SideNorth, SideSouth, SideEast, SideWest:
	default:
		return ExternalEdgeRef{}, false
	}

	return ExternalEdgeRef{
		Orientation: o,
		RoomID:      parts[1],
		Side:        s,
		OffsetPx:    offset,
		LengthPx:    length,
	}, true
}

// EdgeIndex maps every current edge id to its edge, recomputed fresh from
// the room set.
func EdgeIndex(rooms []geometry.Room) map[string]geometry.PerimeterEdge {
	byID := make(map[string]geometry.Room, len(rooms))
	for _, rm := range rooms {
		byID[rm.ID] = rm
	}
	external, internal := geometry.ExtractEdges(rooms)
	idx := make(map[string]geometry.PerimeterEdge, len(external)+len(internal))
	for _, e := range external {
		idx[EdgeID(e, byID)] = e
	}
	for _, e := range internal {
		idx[EdgeID(e, byID)] = e
	}
	return idx
}
