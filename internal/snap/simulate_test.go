package snap

import (
	"testing"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

func groupedRoom(id, groupID string, tileX, tileY, tilesW, tilesH int) geometry.Room {
	rm := room(id, tileX, tileY, tilesW, tilesH)
	rm.WallGroupID = groupID
	return rm
}

func TestSimulateDrop_PredictsMergeAndAutoDoor(t *testing.T) {
	rooms := []geometry.Room{
		groupedRoom("a", "g1", 0, 0, 4, 4),
		groupedRoom("b", "g1", 4, 0, 4, 4),
		groupedRoom("c", "g2", 12, 0, 4, 4),
	}
	groups := []wallgroup.WallGroup{
		{ID: "g1", WallStyleID: "stone", RoomCount: 2},
		{ID: "g2", WallStyleID: "brick", RoomCount: 1},
	}

	// Drop c flush against b: g1 dominates, one new internal edge, one auto door.
	preview := SimulateDrop(rooms, groups, door.EdgeDoorMap{}, "c", 8*geometry.TilePx, 0)
	if !preview.Valid {
		t.Fatalf("drop should be valid")
	}
	if preview.DominantGroupID != "g1" {
		t.Fatalf("dominant group %q, want g1", preview.DominantGroupID)
	}
	if len(preview.MergedGroupIDs) != 1 || preview.MergedGroupIDs[0] != "g2" {
		t.Fatalf("merged groups %v", preview.MergedGroupIDs)
	}
	if len(preview.NewDoors) != 1 {
		t.Fatalf("expected 1 previewed door, got %v", preview.NewDoors)
	}
	if preview.NewDoors[0].OffsetPx != 192 {
		t.Fatalf("previewed door must be centered, got %d", preview.NewDoors[0].OffsetPx)
	}
	if len(preview.RemovedDoorIDs) != 0 {
		t.Fatalf("no doors should be removed, got %v", preview.RemovedDoorIDs)
	}

	// The input state is untouched.
	if rooms[2].X != 12*geometry.TilePx {
		t.Fatalf("simulation mutated the room list")
	}
}

func TestSimulateDrop_SoloMoverGroupContendsForDominance(t *testing.T) {
	// A room that is the only member of its group keeps the group across a
	// move, so a tie on room count resolves to the lexicographically
	// smaller id even when that is the mover's own group.
	rooms := []geometry.Room{
		groupedRoom("a", "ga", 0, 0, 2, 2),
		groupedRoom("b", "gb", 8, 0, 2, 2),
	}
	groups := []wallgroup.WallGroup{
		{ID: "ga", WallStyleID: "stone", RoomCount: 1},
		{ID: "gb", WallStyleID: "brick", RoomCount: 1},
	}

	preview := SimulateDrop(rooms, groups, door.EdgeDoorMap{}, "a", 6*geometry.TilePx, 0)
	if !preview.Valid {
		t.Fatalf("drop should be valid")
	}
	if preview.DominantGroupID != "ga" {
		t.Fatalf("dominant group %q, want ga", preview.DominantGroupID)
	}
	if len(preview.MergedGroupIDs) != 1 || preview.MergedGroupIDs[0] != "gb" {
		t.Fatalf("merged groups %v, want [gb]", preview.MergedGroupIDs)
	}
}

func TestSimulateDrop_SoloMoverKeepsGroupWhenLandingAlone(t *testing.T) {
	rooms := []geometry.Room{
		groupedRoom("a", "ga", 0, 0, 2, 2),
		groupedRoom("b", "gb", 8, 0, 2, 2),
	}
	groups := []wallgroup.WallGroup{
		{ID: "ga", WallStyleID: "stone", RoomCount: 1},
		{ID: "gb", WallStyleID: "brick", RoomCount: 1},
	}

	// a moves but still touches nothing: its own group remains dominant
	// and nothing merges away.
	preview := SimulateDrop(rooms, groups, door.EdgeDoorMap{}, "a", 0, 8*geometry.TilePx)
	if !preview.Valid {
		t.Fatalf("drop should be valid")
	}
	if preview.DominantGroupID != "ga" {
		t.Fatalf("dominant group %q, want ga", preview.DominantGroupID)
	}
	if len(preview.MergedGroupIDs) != 0 {
		t.Fatalf("merged groups %v, want none", preview.MergedGroupIDs)
	}
}

func TestSimulateDrop_PredictsDoorLoss(t *testing.T) {
	rooms := []geometry.Room{
		groupedRoom("a", "g1", 0, 0, 4, 4),
		groupedRoom("b", "g1", 4, 0, 4, 4),
	}
	groups := []wallgroup.WallGroup{{ID: "g1", WallStyleID: "stone", RoomCount: 2}}

	idx := door.EdgeIndex(rooms)
	var sharedID string
	for id, e := range idx {
		if e.IsInternal {
			sharedID = id
		}
	}
	doors := door.EdgeDoorMap{sharedID: {{OffsetPx: 192, Source: door.SourceAuto}}}

	preview := SimulateDrop(rooms, groups, doors, "b", 12*geometry.TilePx, 0)
	if !preview.Valid {
		t.Fatalf("drop should be valid")
	}
	if len(preview.RemovedDoorIDs) != 1 || preview.RemovedDoorIDs[0] != sharedID {
		t.Fatalf("expected the shared door to be removed, got %v", preview.RemovedDoorIDs)
	}
	if len(preview.NewDoors) != 0 {
		t.Fatalf("no new doors expected, got %v", preview.NewDoors)
	}
}

func TestSimulateDrop_OverlappingPositionIsInvalid(t *testing.T) {
	rooms := []geometry.Room{
		groupedRoom("a", "g1", 0, 0, 4, 4),
		groupedRoom("b", "g2", 8, 0, 4, 4),
	}
	preview := SimulateDrop(rooms, nil, door.EdgeDoorMap{}, "b", 2*geometry.TilePx, 0)
	if preview.Valid {
		t.Fatalf("overlapping drop must be invalid")
	}
}

func TestSimulateDrop_ExistingDoorNotDuplicated(t *testing.T) {
	rooms := []geometry.Room{
		groupedRoom("a", "g1", 0, 0, 4, 4),
		groupedRoom("b", "g2", 12, 0, 4, 4),
	}
	groups := []wallgroup.WallGroup{
		{ID: "g1", WallStyleID: "stone", RoomCount: 1},
		{ID: "g2", WallStyleID: "brick", RoomCount: 1},
	}

	// Pre-store a door under the id the shared edge will have after the move.
	movedRooms := []geometry.Room{rooms[0], rooms[1]}
	movedRooms[1].X = 4 * geometry.TilePx
	idx := door.EdgeIndex(movedRooms)
	var futureID string
	for id, e := range idx {
		if e.IsInternal {
			futureID = id
		}
	}
	doors := door.EdgeDoorMap{futureID: {{OffsetPx: 64, Source: door.SourceManual}}}

	preview := SimulateDrop(rooms, groups, doors, "b", 4*geometry.TilePx, 0)
	if len(preview.NewDoors) != 0 {
		t.Fatalf("edge already holding a door must not get another: %v", preview.NewDoors)
	}
}
