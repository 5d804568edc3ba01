package editor

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/layout"
	"github.com/roomforge/roomforge/internal/snap"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

// newRoomID is swappable for tests that need deterministic ids.
var newRoomID = uuid.NewString

// State is one immutable snapshot of the layout: the room list, the wall
// groups, and both door maps. Every operation returns a new State and leaves
// the receiver untouched, which is what makes repeated drag-preview
// simulation safe. Edges, pillars and render pieces are always derived on
// demand, never stored.
type State struct {
	Rooms         []geometry.Room
	Groups        []wallgroup.WallGroup
	EdgeDoors     door.EdgeDoorMap
	SegmentStates door.SegmentStateMap
}

// NewState returns an empty layout.
func NewState() State {
	return State{
		EdgeDoors:     door.EdgeDoorMap{},
		SegmentStates: door.SegmentStateMap{},
	}
}

func (s State) roomByID(id string) (geometry.Room, bool) {
	for _, rm := range s.Rooms {
		if rm.ID == id {
			return rm, true
		}
	}
	return geometry.Room{}, false
}

// Provider exposes the door state behind the model-agnostic surface.
func (s State) Provider() door.Provider {
	return door.Provider{Free: s.EdgeDoors, Legacy: s.SegmentStates}
}

// Edges returns the current edge index, keyed by stable edge id.
func (s State) Edges() map[string]geometry.PerimeterEdge {
	return door.EdgeIndex(s.Rooms)
}

// RenderPieces assembles the render-ready piece list for the presentation
// layer.
func (s State) RenderPieces() []layout.RenderPiece {
	return layout.Generate(s.Rooms, s.Provider())
}

// Pillars returns the current pillar set.
func (s State) Pillars() []layout.Pillar {
	return layout.Pillars(s.Rooms, s.Provider())
}

// PlaceRoom adds a new room at a tile-aligned pixel position, resolves wall
// groups, and drops an automatic door on every internal edge the placement
// created.
func (s State) PlaceRoom(tilesW, tilesH, x, y int, floorStyleID string) (State, geometry.Room, error) {
	rm := geometry.Room{
		ID:           newRoomID(),
		X:            x,
		Y:            y,
		TilesW:       tilesW,
		TilesH:       tilesH,
		FloorStyleID: floorStyleID,
	}
	if err := validateRoom(rm, s.Rooms); err != nil {
		return s, geometry.Room{}, err
	}

	before := s.Edges()
	rooms := append(append([]geometry.Room(nil), s.Rooms...), rm)
	rooms, groups := wallgroup.ResolveAfterAdd(rooms, s.Groups, rm.ID)

	out := s.withStructure(rooms, groups, before)
	placed, _ := out.roomByID(rm.ID)
	return out, placed, nil
}

// MoveRoom relocates a room, splitting its old group and merging into the
// groups at the destination as needed.
func (s State) MoveRoom(id string, x, y int) (State, error) {
	rm, ok := s.roomByID(id)
	if !ok {
		return s, opErrorf(ErrRoomNotFound, "room %s does not exist", id)
	}
	moved := rm
	moved.X = x
	moved.Y = y
	if err := validateRoom(moved, s.Rooms); err != nil {
		return s, err
	}

	before := s.Edges()
	rooms, groups := s.departAndRejoin(moved)

	return s.withStructure(rooms, groups, before), nil
}

// RotateRoom steps a room's rotation by 90°, carrying its external-edge
// doors through the side/offset transform. The rotation is rejected if the
// swapped footprint would overlap a neighbor.
func (s State) RotateRoom(id string, clockwise bool) (State, error) {
	rm, ok := s.roomByID(id)
	if !ok {
		return s, opErrorf(ErrRoomNotFound, "room %s does not exist", id)
	}
	rotated := rm
	rotated.Rotation = door.RotatedRotation(rm.Rotation, clockwise)
	if err := validateRoom(rotated, s.Rooms); err != nil {
		return s, err
	}

	before := s.Edges()
	rooms, groups := s.departAndRejoin(rotated)

	out := s
	out.EdgeDoors = door.RotateForRoom(s.EdgeDoors, rm, clockwise)
	return out.withStructure(rooms, groups, before), nil
}

// DeleteRoom removes a room; doors on its edges are garbage-collected and
// its group splits if the room was a bridge.
func (s State) DeleteRoom(id string) (State, error) {
	rm, ok := s.roomByID(id)
	if !ok {
		return s, opErrorf(ErrRoomNotFound, "room %s does not exist", id)
	}

	before := s.Edges()
	rooms := make([]geometry.Room, 0, len(s.Rooms)-1)
	for _, r := range s.Rooms {
		if r.ID != id {
			rooms = append(rooms, r)
		}
	}
	rooms, groups := wallgroup.ResolveAfterRemove(rooms, s.Groups, rm.WallGroupID)

	return s.withStructure(rooms, groups, before), nil
}

// DoorClick applies one door-tool click on the identified edge. An unknown
// edge id or a rejected placement is a silent no-op.
func (s State) DoorClick(edgeID string, offsetPx int) (State, bool) {
	edge, ok := s.Edges()[edgeID]
	if !ok {
		return s, false
	}
	doors, changed := door.Click(s.EdgeDoors, edgeID, edge.Length(), offsetPx)
	if !changed {
		return s, false
	}
	out := s
	out.EdgeDoors = doors
	return out, true
}

// SegmentClick toggles a legacy wall segment. Segments at either end of
// their edge sit on a perimeter corner and use the centered pattern.
func (s State) SegmentClick(segmentID string, rightClick bool) (State, bool) {
	edgeID, index, ok := door.ParseSegmentGroupID(segmentID)
	if !ok {
		return s, false
	}
	edge, exists := s.Edges()[edgeID]
	if !exists {
		return s, false
	}
	chunks := door.SegmentCount(edge.Length())
	if index < 0 || index >= chunks {
		return s, false
	}
	atCorner := index == 0 || index == chunks-1

	out := s
	out.SegmentStates = door.ToggleSegment(s.SegmentStates, segmentID, rightClick, atCorner)
	return out, true
}

// DragPreview resolves the magnetic snap position for a drag and simulates
// the drop there without committing anything.
func (s State) DragPreview(roomID string, cursorX, cursorY, thresholdPx int) (int, int, snap.DropPreview, error) {
	rm, ok := s.roomByID(roomID)
	if !ok {
		return 0, 0, snap.DropPreview{}, opErrorf(ErrRoomNotFound, "room %s does not exist", roomID)
	}
	others := make([]geometry.Room, 0, len(s.Rooms)-1)
	for _, r := range s.Rooms {
		if r.ID != roomID {
			others = append(others, r)
		}
	}
	x, y := snap.FindPosition(rm, cursorX, cursorY, others, thresholdPx)
	preview := snap.SimulateDrop(s.Rooms, s.Groups, s.EdgeDoors, roomID, x, y)
	return x, y, preview, nil
}

// withStructure finishes a structural change: door garbage collection
// against the new geometry, then automatic doors on internal edges that did
// not exist before the change.
func (s State) withStructure(rooms []geometry.Room, groups []wallgroup.WallGroup, beforeEdges map[string]geometry.PerimeterEdge) State {
	out := s
	out.Rooms = rooms
	out.Groups = groups
	out.EdgeDoors = door.CleanupForGeometry(out.EdgeDoors, rooms)
	out.SegmentStates = door.CleanupSegmentsForGeometry(out.SegmentStates, rooms)

	after := door.EdgeIndex(rooms)
	ids := make([]string, 0, len(after))
	for id := range after {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := after[id]
		if !e.IsInternal {
			continue
		}
		if _, existed := beforeEdges[id]; existed {
			continue
		}
		out.EdgeDoors, _ = door.AddAuto(out.EdgeDoors, id, e.Length())
	}
	return out
}

// departAndRejoin re-resolves groups around a room whose footprint changed.
// If the room was the only member of its group, the group id follows it so a
// solo room keeps its wall style across moves.
func (s State) departAndRejoin(changed geometry.Room) ([]geometry.Room, []wallgroup.WallGroup) {
	oldGroup := changed.WallGroupID
	alone := true
	for _, r := range s.Rooms {
		if r.ID != changed.ID && r.WallGroupID == oldGroup {
			alone = false
			break
		}
	}

	groups := s.Groups
	if !alone {
		changed.WallGroupID = ""
	}
	rooms := s.roomsReplacing(changed)
	if !alone {
		rooms, groups = wallgroup.ResolveAfterRemove(rooms, groups, oldGroup)
	}
	return wallgroup.ResolveAfterAdd(rooms, groups, changed.ID)
}

func (s State) roomsReplacing(rm geometry.Room) []geometry.Room {
	rooms := make([]geometry.Room, len(s.Rooms))
	for i, r := range s.Rooms {
		if r.ID == rm.ID {
			rooms[i] = rm
		} else {
			rooms[i] = r
		}
	}
	return rooms
}

func validateRoom(rm geometry.Room, existing []geometry.Room) error {
	if rm.TilesW <= 0 || rm.TilesH <= 0 {
		return opErrorf(ErrInvalidSize, "room footprint %dx%d tiles", rm.TilesW, rm.TilesH)
	}
	if rm.X%geometry.TilePx != 0 || rm.Y%geometry.TilePx != 0 {
		return opErrorf(ErrMisaligned, "position (%d,%d) is not tile-aligned", rm.X, rm.Y)
	}
	rect := rm.PixelRect()
	for _, other := range existing {
		if other.ID == rm.ID {
			continue
		}
		if rect.Overlaps(other.PixelRect()) {
			return opErrorf(ErrOverlap, "room %s would overlap room %s", rm.ID, other.ID)
		}
	}
	return nil
}

// CheckInvariants verifies the wall-group bookkeeping: every group's
// RoomCount matches the rooms referencing it, and the group partition equals
// the adjacency-derived connected components. A violation is a programming
// defect, not a runtime condition.
func (s State) CheckInvariants() error {
	counts := make(map[string]int)
	for _, rm := range s.Rooms {
		if rm.WallGroupID == "" {
			return fmt.Errorf("room %s has no wall group", rm.ID)
		}
		counts[rm.WallGroupID]++
	}
	known := make(map[string]bool, len(s.Groups))
	for _, g := range s.Groups {
		known[g.ID] = true
		if counts[g.ID] != g.RoomCount {
			return fmt.Errorf("group %s counts %d rooms but %d reference it", g.ID, g.RoomCount, counts[g.ID])
		}
	}
	for id := range counts {
		if !known[id] {
			return fmt.Errorf("rooms reference unknown group %s", id)
		}
	}

	for _, comp := range wallgroup.Components(s.Rooms) {
		want := ""
		for _, roomID := range comp {
			rm, _ := s.roomByID(roomID)
			if want == "" {
				want = rm.WallGroupID
			} else if rm.WallGroupID != want {
				return fmt.Errorf("component %v spans groups %s and %s", comp, want, rm.WallGroupID)
			}
		}
		if n := counts[want]; n != len(comp) {
			return fmt.Errorf("group %s holds %d rooms but its component has %d", want, n, len(comp))
		}
	}
	return nil
}
