package door

import "github.com/roomforge/roomforge/internal/geometry"

// Side remapping for a 90° rotation. Offsets along a wall either keep their
// corner of reference or lose it, depending on which corner of the rotated
// wall lands on the old wall's zero-offset corner; the mapping is explicit
// per side and direction rather than derived.
var (
	clockwiseSide = map[Side]Side{
		SideNorth: SideEast,
		SideEast:  SideSouth,
		SideSouth: SideWest,
		SideWest:  SideNorth,
	}
	clockwiseInvert = map[Side]bool{
		SideNorth: false,
		SideEast:  true,
		SideSouth: false,
		SideWest:  true,
	}

	counterClockwiseSide = map[Side]Side{
		SideNorth: SideWest,
		SideWest:  SideSouth,
		SideSouth: SideEast,
		SideEast:  SideNorth,
	}
	counterClockwiseInvert = map[Side]bool{
		SideNorth: true,
		SideWest:  false,
		SideSouth: true,
		SideEast:  false,
	}
)

func sideOrientation(s Side) geometry.Orientation {
	if s == SideNorth || s == SideSouth {
		return geometry.Horizontal
	}
	return geometry.Vertical
}

// RotateForRoom rewrites the external-edge door keys of room rm for one 90°
// step. rm must be the room state before the rotation. Each wall keeps its
// physical length across a rotation, so only the side label, the edge offset
// and (for inverting sides) the door offsets change. Doors keyed to other
// rooms or to internal edges pass through untouched; geometry cleanup deals
// with internal edges afterwards.
func RotateForRoom(doors EdgeDoorMap, rm geometry.Room, clockwise bool) EdgeDoorMap {
	sideMap := clockwiseSide
	invert := clockwiseInvert
	if !clockwise {
		sideMap = counterClockwiseSide
		invert = counterClockwiseInvert
	}

	rect := rm.PixelRect()
	out := make(EdgeDoorMap, len(doors))
	for id, ds := range doors {
		ref, ok := ParseExternalID(id)
		if !ok || ref.RoomID != rm.ID {
			out[id] = append([]EdgeDoor(nil), ds...)
			continue
		}

		wallLen := rect.W
		if ref.Side == SideEast || ref.Side == SideWest {
			wallLen = rect.H
		}

		moved := append([]EdgeDoor(nil), ds...)
		newRef := ExternalEdgeRef{
			RoomID:   ref.RoomID,
			Side:     sideMap[ref.Side],
			OffsetPx: ref.OffsetPx,
			LengthPx: ref.LengthPx,
		}
		newRef.Orientation = sideOrientation(newRef.Side)
		if invert[ref.Side] {
			newRef.OffsetPx = wallLen - ref.OffsetPx - ref.LengthPx
			for i := range moved {
				moved[i].OffsetPx = ref.LengthPx - moved[i].OffsetPx - geometry.DoorWidthPx
			}
		}
		out[newRef.ID()] = moved
	}
	return out
}

// RotatedRotation returns a room rotation stepped 90° in the given
// direction.
func RotatedRotation(rotation int, clockwise bool) int {
	if clockwise {
		return (rotation + 90) % 360
	}
	return (rotation + 270) % 360
}
