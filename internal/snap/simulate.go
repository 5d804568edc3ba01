package snap

import (
	"sort"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

// PreviewDoor is a door that would be auto-created by committing the drop.
type PreviewDoor struct {
	EdgeID   string `json:"edgeId"`
	OffsetPx int    `json:"offsetPx"`
}

// DropPreview describes what committing a drag at a hypothetical position
// would do, without doing any of it.
type DropPreview struct {
	Valid           bool          `json:"valid"`
	DominantGroupID string        `json:"dominantGroupId"`
	MergedGroupIDs  []string      `json:"mergedGroupIds"`
	NewDoors        []PreviewDoor `json:"newDoors"`
	RemovedDoorIDs  []string      `json:"removedDoorIds"`
}

// SimulateDrop evaluates moving roomID to (newX, newY) against a snapshot of
// the current state. Inputs are never mutated; the caller discards the
// preview when the drag ends elsewhere.
func SimulateDrop(rooms []geometry.Room, groups []wallgroup.WallGroup, doors door.EdgeDoorMap, roomID string, newX, newY int) DropPreview {
	moved := make([]geometry.Room, len(rooms))
	var subject geometry.Room
	found := false
	for i, rm := range rooms {
		if rm.ID == roomID {
			rm.X = newX
			rm.Y = newY
			subject = rm
			found = true
		}
		moved[i] = rm
	}
	if !found || overlapsAny(subject, moved) {
		return DropPreview{}
	}

	preview := DropPreview{Valid: true}

	// Group resolution: which groups the moved room now touches, and which
	// of them wins. A mover that is the sole member of its group carries
	// the group along, so that group competes for dominance exactly as the
	// commit would resolve it; a mover leaving a shared group just departs.
	touched := make(map[string]bool)
	for _, c := range wallgroup.Components(moved) {
		if !containsString(c, roomID) {
			continue
		}
		for _, rm := range moved {
			if rm.ID != roomID && rm.WallGroupID != "" && containsString(c, rm.ID) {
				touched[rm.WallGroupID] = true
			}
		}
	}
	old := subject.WallGroupID
	if old != "" && !groupReferencedByOthers(moved, roomID, old) {
		touched[old] = true
	}
	if winner, ok := wallgroup.Dominant(groups, touched); ok {
		preview.DominantGroupID = winner.ID
		for id := range touched {
			if id != winner.ID {
				preview.MergedGroupIDs = append(preview.MergedGroupIDs, id)
			}
		}
		sort.Strings(preview.MergedGroupIDs)
	}

	// Doors: edges that appear with the move and admit an automatic door,
	// and stored doors whose edge the move destroys or shrinks.
	beforeIdx := door.EdgeIndex(rooms)
	afterIdx := door.EdgeIndex(moved)
	for id, e := range afterIdx {
		if !e.IsInternal {
			continue
		}
		if _, existed := beforeIdx[id]; existed {
			continue
		}
		if len(doors[id]) > 0 {
			continue
		}
		if offset, ok := door.AutoOffset(e.Length()); ok {
			preview.NewDoors = append(preview.NewDoors, PreviewDoor{EdgeID: id, OffsetPx: offset})
		}
	}
	sort.Slice(preview.NewDoors, func(i, j int) bool { return preview.NewDoors[i].EdgeID < preview.NewDoors[j].EdgeID })

	surviving := door.CleanupForGeometry(doors, moved)
	for id := range doors {
		if _, ok := surviving[id]; !ok {
			preview.RemovedDoorIDs = append(preview.RemovedDoorIDs, id)
		}
	}
	sort.Strings(preview.RemovedDoorIDs)

	return preview
}

func groupReferencedByOthers(rooms []geometry.Room, exceptRoomID, groupID string) bool {
	for _, rm := range rooms {
		if rm.ID != exceptRoomID && rm.WallGroupID == groupID {
			return true
		}
	}
	return false
}

func containsString(xs []string, s string) bool {
	for _, v := range xs {
		if v == s {
			return true
		}
	}
	return false
}
