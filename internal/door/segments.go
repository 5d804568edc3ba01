package door

import (
	"fmt"

	"github.com/roomforge/roomforge/internal/geometry"
)

// SegmentWidthPx is the width of one legacy wall chunk.
const SegmentWidthPx = 256

// SegmentPattern is the fixed composition of one 256px wall chunk in the
// legacy door model.
type SegmentPattern string

const (
	PatternSolid      SegmentPattern = "SOLID_256"
	PatternDoorLeft   SegmentPattern = "DOOR_LEFT"
	PatternDoorRight  SegmentPattern = "DOOR_RIGHT"
	PatternDoorBoth   SegmentPattern = "DOOR_BOTH"
	PatternDoorCenter SegmentPattern = "DOOR_CENTER"
)

// SegmentState is the stored state of one wall segment group. A manual
// state is never overridden by automatic behavior.
type SegmentState struct {
	Pattern SegmentPattern `json:"pattern"`
	Source  Source         `json:"source"`
}

// SegmentStateMap stores legacy segment states keyed by segment group id.
// Treated as an immutable snapshot like EdgeDoorMap.
type SegmentStateMap map[string]SegmentState

func (m SegmentStateMap) clone() SegmentStateMap {
	out := make(SegmentStateMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SegmentGroupID names one 256px chunk of an edge. The chunk index is
// counted from the edge's range start, so the id is as stable as the edge id
// itself.
func SegmentGroupID(edgeID string, index int) string {
	return fmt.Sprintf("%s#%d", edgeID, index)
}

// SegmentCount returns how many full 256px chunks fit on an edge. A 128px
// remainder is rendered as plain wall and carries no state.
func SegmentCount(edgeLen int) int {
	return edgeLen / SegmentWidthPx
}

// SegmentPieces expands a pattern into its fixed piece composition, offsets
// relative to the chunk start.
func SegmentPieces(p SegmentPattern) []EdgePiece {
	switch p {
	case PatternDoorLeft:
		return []EdgePiece{
			{Kind: PieceDoor, OffsetPx: 0, LengthPx: geometry.DoorWidthPx},
			{Kind: PieceWall, OffsetPx: 128, LengthPx: 128},
		}
	case PatternDoorRight:
		return []EdgePiece{
			{Kind: PieceWall, OffsetPx: 0, LengthPx: 128},
			{Kind: PieceDoor, OffsetPx: 128, LengthPx: geometry.DoorWidthPx},
		}
	case PatternDoorBoth:
		return []EdgePiece{
			{Kind: PieceDoor, OffsetPx: 0, LengthPx: geometry.DoorWidthPx},
			{Kind: PieceDoor, OffsetPx: 128, LengthPx: geometry.DoorWidthPx},
		}
	case PatternDoorCenter:
		return []EdgePiece{
			{Kind: PieceWall, OffsetPx: 0, LengthPx: 64},
			{Kind: PieceDoor, OffsetPx: 64, LengthPx: geometry.DoorWidthPx},
			{Kind: PieceWall, OffsetPx: 192, LengthPx: 64},
		}
	default:
		return []EdgePiece{
			{Kind: PieceWall, OffsetPx: 0, LengthPx: 128},
			{Kind: PieceWall, OffsetPx: 128, LengthPx: 128},
		}
	}
}

// ToggleSegment runs the per-side click state machine on one segment.
// A left click toggles the left half, a right click the right half:
// SOLID ↔ single-side door ↔ BOTH. Segments sitting at a perimeter corner
// toggle SOLID ↔ DOOR_CENTER instead, keeping the door clear of the corner
// pillar. The result is always a manual state.
func ToggleSegment(states SegmentStateMap, segmentID string, rightClick, atCorner bool) SegmentStateMap {
	current := PatternSolid
	if st, ok := states[segmentID]; ok {
		current = st.Pattern
	}

	var next SegmentPattern
	if atCorner {
		if current == PatternDoorCenter {
			next = PatternSolid
		} else {
			next = PatternDoorCenter
		}
	} else if rightClick {
		switch current {
		case PatternSolid:
			next = PatternDoorRight
		case PatternDoorRight:
			next = PatternSolid
		case PatternDoorLeft:
			next = PatternDoorBoth
		case PatternDoorBoth:
			next = PatternDoorLeft
		default:
			next = PatternDoorRight
		}
	} else {
		switch current {
		case PatternSolid:
			next = PatternDoorLeft
		case PatternDoorLeft:
			next = PatternSolid
		case PatternDoorRight:
			next = PatternDoorBoth
		case PatternDoorBoth:
			next = PatternDoorRight
		default:
			next = PatternDoorLeft
		}
	}

	// A manual SOLID is stored rather than deleted so automatic behavior can
	// never resurrect a door the user explicitly removed.
	out := states.clone()
	out[segmentID] = SegmentState{Pattern: next, Source: SourceManual}
	return out
}

// ApplyAutoSegment sets an automatic pattern on a segment unless a human
// already set one manually.
func ApplyAutoSegment(states SegmentStateMap, segmentID string, p SegmentPattern) SegmentStateMap {
	if st, ok := states[segmentID]; ok && st.Source == SourceManual {
		return states
	}
	out := states.clone()
	out[segmentID] = SegmentState{Pattern: p, Source: SourceAuto}
	return out
}

// CleanupSegmentsForGeometry drops segment states whose edge chunk no longer
// exists in the current room set.
func CleanupSegmentsForGeometry(states SegmentStateMap, rooms []geometry.Room) SegmentStateMap {
	idx := EdgeIndex(rooms)
	out := make(SegmentStateMap, len(states))
	for id, st := range states {
		edgeID, chunk, ok := splitSegmentID(id)
		if !ok {
			continue
		}
		edge, exists := idx[edgeID]
		if !exists || chunk >= SegmentCount(edge.Length()) {
			continue
		}
		out[id] = st
	}
	return out
}

// ParseSegmentGroupID splits a segment group id back into its edge id and
// chunk index.
func ParseSegmentGroupID(id string) (edgeID string, index int, ok bool) {
	return splitSegmentID(id)
}

func splitSegmentID(id string) (edgeID string, index int, ok bool) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '#' {
			if _, err := fmt.Sscanf(id[i+1:], "%d", &index); err != nil {
				return "", 0, false
			}
			return id[:i], index, true
		}
	}
	return "", 0, false
}
