package editor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/snap"
)

func withStubRoomIDs(t *testing.T) {
	t.Helper()
	orig := newRoomID
	n := 0
	newRoomID = func() string {
		n++
		return fmt.Sprintf("room-%d", n)
	}
	t.Cleanup(func() { newRoomID = orig })
}

func mustPlace(t *testing.T, st State, tilesW, tilesH, x, y int) (State, geometry.Room) {
	t.Helper()
	out, rm, err := st.PlaceRoom(tilesW, tilesH, x, y, "floor-default")
	if err != nil {
		t.Fatalf("PlaceRoom(%dx%d at %d,%d): %v", tilesW, tilesH, x, y, err)
	}
	if err := out.CheckInvariants(); err != nil {
		t.Fatalf("invariants after place: %v", err)
	}
	return out, rm
}

func groupOf(t *testing.T, st State, roomID string) string {
	t.Helper()
	rm, ok := st.roomByID(roomID)
	if !ok {
		t.Fatalf("room %s not found", roomID)
	}
	return rm.WallGroupID
}

func TestPlaceRoom_Rejections(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 4, 0, 0)

	cases := []struct {
		name       string
		w, h, x, y int
		code       string
	}{
		{"zero width", 0, 4, 1024, 0, ErrInvalidSize},
		{"misaligned x", 4, 4, 100, 0, ErrMisaligned},
		{"overlap", 4, 4, 128, 128, ErrOverlap},
	}
	for _, tc := range cases {
		_, _, err := st.PlaceRoom(tc.w, tc.h, tc.x, tc.y, "floor-default")
		var oe *OpError
		if !errors.As(err, &oe) {
			t.Fatalf("%s: want OpError, got %v", tc.name, err)
		}
		if oe.Code != tc.code {
			t.Fatalf("%s: code = %s, want %s", tc.name, oe.Code, tc.code)
		}
	}
	if len(st.Rooms) != 1 {
		t.Fatalf("rejections mutated the state: %d rooms", len(st.Rooms))
	}
}

func TestPlaceRoom_SideBySideMergesAndAutoDoors(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 4, 0, 0)
	st, _ = mustPlace(t, st, 4, 4, 512, 0)

	if len(st.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(st.Groups))
	}
	if st.Groups[0].RoomCount != 2 {
		t.Fatalf("RoomCount = %d, want 2", st.Groups[0].RoomCount)
	}
	if groupOf(t, st, "room-1") != groupOf(t, st, "room-2") {
		t.Fatalf("adjacent rooms in different groups")
	}

	edgeID := "vertical|room-1+room-2|512:0-512"
	doors := st.EdgeDoors[edgeID]
	if len(doors) != 1 {
		t.Fatalf("doors on %s = %v, want one auto door", edgeID, doors)
	}
	if doors[0].OffsetPx != 192 || doors[0].Source != door.SourceAuto {
		t.Fatalf("auto door = %+v, want offset 192 source auto", doors[0])
	}
}

func TestPlaceRoom_IsolatedGetsFreshGroup(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 2, 2, 0, 0)
	st, _ = mustPlace(t, st, 2, 2, 2048, 0)

	if len(st.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(st.Groups))
	}
	if groupOf(t, st, "room-1") == groupOf(t, st, "room-2") {
		t.Fatalf("distant rooms share a group")
	}
	if len(st.EdgeDoors) != 0 {
		t.Fatalf("doors on isolated rooms: %v", st.EdgeDoors)
	}
}

func TestMoveRoom_MergeIntoDominantGroup(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 4, 0, 0)
	st, _ = mustPlace(t, st, 4, 4, 512, 0)
	st, _ = mustPlace(t, st, 4, 4, 4096, 0)

	pairGroup := groupOf(t, st, "room-1")
	loneGroup := groupOf(t, st, "room-3")

	st, err := st.MoveRoom("room-3", 1024, 0)
	if err != nil {
		t.Fatalf("MoveRoom: %v", err)
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("invariants after move: %v", err)
	}
	if got := groupOf(t, st, "room-3"); got != pairGroup {
		t.Fatalf("moved room joined %s, want dominant %s", got, pairGroup)
	}
	if len(st.Groups) != 1 {
		t.Fatalf("groups = %d, want the lone group %s dissolved", len(st.Groups), loneGroup)
	}
	if st.Groups[0].RoomCount != 3 {
		t.Fatalf("RoomCount = %d, want 3", st.Groups[0].RoomCount)
	}

	newEdge := "vertical|room-2+room-3|1024:0-512"
	if len(st.EdgeDoors[newEdge]) != 1 {
		t.Fatalf("no auto door on the new internal edge %s", newEdge)
	}
}

func TestMoveRoom_SoloRoomKeepsGroupAndStyle(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 2, 2, 0, 0)
	st.Groups[0].WallStyleID = "wall-brick"
	id := st.Groups[0].ID

	st, err := st.MoveRoom("room-1", 1024, 1024)
	if err != nil {
		t.Fatalf("MoveRoom: %v", err)
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if len(st.Groups) != 1 || st.Groups[0].ID != id {
		t.Fatalf("solo move changed group identity: %+v", st.Groups)
	}
	if st.Groups[0].WallStyleID != "wall-brick" {
		t.Fatalf("wall style lost: %+v", st.Groups[0])
	}
}

func TestMoveRoom_PreviewMatchesCommitOnGroupTie(t *testing.T) {
	// Two solo rooms, two one-room groups. Dragging one against the other
	// is a room-count tie, so the winner is decided by group id; the
	// simulated preview must name the same winner the commit produces.
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 2, 2, 0, 0)
	st, _ = mustPlace(t, st, 2, 2, 1024, 0)

	moverGroup := groupOf(t, st, "room-1")
	targetGroup := groupOf(t, st, "room-2")

	preview := snap.SimulateDrop(st.Rooms, st.Groups, st.EdgeDoors, "room-1", 768, 0)
	if !preview.Valid {
		t.Fatalf("preview invalid")
	}

	st, err := st.MoveRoom("room-1", 768, 0)
	if err != nil {
		t.Fatalf("MoveRoom: %v", err)
	}
	winner := groupOf(t, st, "room-1")
	if winner != groupOf(t, st, "room-2") {
		t.Fatalf("commit left the rooms in different groups")
	}
	if preview.DominantGroupID != winner {
		t.Fatalf("preview dominant %s, commit kept %s", preview.DominantGroupID, winner)
	}
	loser := moverGroup
	if winner == moverGroup {
		loser = targetGroup
	}
	if len(preview.MergedGroupIDs) != 1 || preview.MergedGroupIDs[0] != loser {
		t.Fatalf("preview merged %v, want [%s]", preview.MergedGroupIDs, loser)
	}
}

func TestDeleteRoom_BridgeSplitsGroup(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 2, 2, 0, 0)
	st, _ = mustPlace(t, st, 2, 2, 256, 0)
	st, _ = mustPlace(t, st, 2, 2, 512, 0)

	orig := groupOf(t, st, "room-1")
	st.Groups[0].WallStyleID = "wall-stone"

	st, err := st.DeleteRoom("room-2")
	if err != nil {
		t.Fatalf("DeleteRoom: %v", err)
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("invariants after delete: %v", err)
	}

	gA := groupOf(t, st, "room-1")
	gC := groupOf(t, st, "room-3")
	if gA == gC {
		t.Fatalf("split halves share group %s", gA)
	}
	if gA != orig {
		t.Fatalf("room-1's half lost the original id: %s != %s", gA, orig)
	}
	for _, g := range st.Groups {
		if g.WallStyleID != "wall-stone" {
			t.Fatalf("split group %s lost the wall style: %+v", g.ID, g)
		}
		if g.RoomCount != 1 {
			t.Fatalf("group %s RoomCount = %d, want 1", g.ID, g.RoomCount)
		}
	}
	if len(st.EdgeDoors) != 0 {
		t.Fatalf("doors survived their edges: %v", st.EdgeDoors)
	}
}

func TestDoorClick_ToggleAndNoResurrection(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 4, 0, 0)
	st, _ = mustPlace(t, st, 4, 4, 512, 0)
	st, _ = mustPlace(t, st, 2, 2, 4096, 0)

	edgeID := "vertical|room-1+room-2|512:0-512"

	// A click inside the auto door's span removes it.
	st, changed := st.DoorClick(edgeID, 250)
	if !changed || len(st.EdgeDoors[edgeID]) != 0 {
		t.Fatalf("click did not remove the auto door: %v", st.EdgeDoors[edgeID])
	}

	// Moving an unrelated room must not bring the door back: the edge
	// existed before and after the change.
	st, err := st.MoveRoom("room-3", 4096, 512)
	if err != nil {
		t.Fatalf("MoveRoom: %v", err)
	}
	if len(st.EdgeDoors[edgeID]) != 0 {
		t.Fatalf("structural change resurrected a removed door: %v", st.EdgeDoors[edgeID])
	}

	// A fresh click places a manual door, snapped to the grid.
	st, changed = st.DoorClick(edgeID, 250)
	if !changed {
		t.Fatalf("click on empty edge did nothing")
	}
	ds := st.EdgeDoors[edgeID]
	if len(ds) != 1 || ds[0].OffsetPx != 192 || ds[0].Source != door.SourceManual {
		t.Fatalf("manual door = %v, want offset 192 source manual", ds)
	}

	if _, changed := st.DoorClick("vertical|nope+nope|0:0-0", 64); changed {
		t.Fatalf("unknown edge id was not a no-op")
	}
}

func TestSegmentClick_TogglesLegacyStates(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 6, 2, 0, 0)

	edgeID := "horizontal|room-1|N:0+768"

	mid := door.SegmentGroupID(edgeID, 1)
	st, changed := st.SegmentClick(mid, false)
	if !changed {
		t.Fatalf("segment click did nothing")
	}
	if got := st.SegmentStates[mid].Pattern; got != door.PatternDoorLeft {
		t.Fatalf("mid segment = %s, want %s", got, door.PatternDoorLeft)
	}

	corner := door.SegmentGroupID(edgeID, 0)
	st, _ = st.SegmentClick(corner, false)
	if got := st.SegmentStates[corner].Pattern; got != door.PatternDoorCenter {
		t.Fatalf("corner segment = %s, want %s", got, door.PatternDoorCenter)
	}

	if _, changed := st.SegmentClick(door.SegmentGroupID(edgeID, 9), false); changed {
		t.Fatalf("out-of-range segment index was not a no-op")
	}
	if _, changed := st.SegmentClick("garbage", false); changed {
		t.Fatalf("malformed segment id was not a no-op")
	}
}

func TestRotateRoom_CarriesDoorsAcrossSides(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 2, 0, 0)

	north := "horizontal|room-1|N:0+512"
	st, changed := st.DoorClick(north, 64)
	if !changed {
		t.Fatalf("placing the door failed")
	}

	st, err := st.RotateRoom("room-1", true)
	if err != nil {
		t.Fatalf("RotateRoom: %v", err)
	}
	if err := st.CheckInvariants(); err != nil {
		t.Fatalf("invariants after rotate: %v", err)
	}
	rm, _ := st.roomByID("room-1")
	if rm.Rotation != 90 {
		t.Fatalf("rotation = %d, want 90", rm.Rotation)
	}

	east := "vertical|room-1|E:0+512"
	ds := st.EdgeDoors[east]
	if len(ds) != 1 || ds[0].OffsetPx != 64 {
		t.Fatalf("door after clockwise rotate = %v, want offset 64 on %s", ds, east)
	}
	if _, left := st.EdgeDoors[north]; left {
		t.Fatalf("stale door key survived the rotation")
	}

	// Counter-clockwise brings it back.
	st, err = st.RotateRoom("room-1", false)
	if err != nil {
		t.Fatalf("RotateRoom back: %v", err)
	}
	ds = st.EdgeDoors[north]
	if len(ds) != 1 || ds[0].OffsetPx != 64 {
		t.Fatalf("door after round trip = %v, want offset 64 on %s", ds, north)
	}
}

func TestRotateRoom_RejectsOverlappingFootprint(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 2, 0, 0)
	st, _ = mustPlace(t, st, 1, 1, 0, 384)

	_, err := st.RotateRoom("room-1", true)
	var oe *OpError
	if !errors.As(err, &oe) || oe.Code != ErrOverlap {
		t.Fatalf("err = %v, want overlap rejection", err)
	}
	rm, _ := st.roomByID("room-1")
	if rm.Rotation != 0 {
		t.Fatalf("rejected rotation mutated the room: %+v", rm)
	}
}

func TestDragPreview_SnapsAndSimulates(t *testing.T) {
	withStubRoomIDs(t)
	st, _ := mustPlace(t, NewState(), 4, 4, 0, 0)
	st, _ = mustPlace(t, st, 4, 4, 4096, 0)

	targetGroup := groupOf(t, st, "room-1")
	moverGroup := groupOf(t, st, "room-2")

	// Both groups hold one room, so the id tie-break decides the winner.
	wantDominant := targetGroup
	if moverGroup < targetGroup {
		wantDominant = moverGroup
	}

	x, y, preview, err := st.DragPreview("room-2", 600, 50, 128)
	if err != nil {
		t.Fatalf("DragPreview: %v", err)
	}
	if x != 512 || y != 0 {
		t.Fatalf("snap position = (%d,%d), want (512,0)", x, y)
	}
	if !preview.Valid {
		t.Fatalf("preview invalid: %+v", preview)
	}
	if preview.DominantGroupID != wantDominant {
		t.Fatalf("dominant = %s, want %s", preview.DominantGroupID, wantDominant)
	}
	if len(preview.NewDoors) != 1 || preview.NewDoors[0].OffsetPx != 192 {
		t.Fatalf("NewDoors = %+v, want one centered door", preview.NewDoors)
	}

	// The preview must not touch the state.
	if got := groupOf(t, st, "room-2"); got == targetGroup {
		t.Fatalf("preview mutated group membership")
	}
	if len(st.EdgeDoors) != 0 {
		t.Fatalf("preview mutated doors: %v", st.EdgeDoors)
	}
}

func TestOperationSequenceHoldsInvariants(t *testing.T) {
	withStubRoomIDs(t)
	st := NewState()
	var err error

	steps := []func(State) (State, error){
		func(s State) (State, error) { s, _, err := s.PlaceRoom(4, 4, 0, 0, "floor-default"); return s, err },
		func(s State) (State, error) { s, _, err := s.PlaceRoom(4, 4, 512, 0, "floor-default"); return s, err },
		func(s State) (State, error) { s, _, err := s.PlaceRoom(2, 6, 1024, 0, "floor-default"); return s, err },
		func(s State) (State, error) { return s.MoveRoom("room-3", 0, 512) },
		func(s State) (State, error) { return s.RotateRoom("room-3", true) },
		func(s State) (State, error) { return s.RotateRoom("room-3", true) },
		func(s State) (State, error) { return s.DeleteRoom("room-1") },
		func(s State) (State, error) { return s.MoveRoom("room-2", 2048, 2048) },
	}
	for i, step := range steps {
		st, err = step(st)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := st.CheckInvariants(); err != nil {
			t.Fatalf("step %d broke invariants: %v", i, err)
		}
	}
}
