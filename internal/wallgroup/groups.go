package wallgroup

import (
	"sort"

	"github.com/google/uuid"

	"github.com/roomforge/roomforge/internal/geometry"
)

// DefaultWallStyleID is assigned to groups created for rooms placed with no
// neighbors.
const DefaultWallStyleID = "wall-default"

// WallGroup is one connected component of adjacent rooms (a "building").
// RoomCount must always equal the number of rooms whose WallGroupID matches;
// every structural change runs Recount to repair it.
type WallGroup struct {
	ID          string `json:"id"`
	WallStyleID string `json:"wallStyleId"`
	RoomCount   int    `json:"roomCount"`
}

// newGroupID is swappable for tests that need deterministic ids.
var newGroupID = uuid.NewString

// Components partitions rooms into adjacency-connected components of room
// ids. Ids are sorted within each component and components are ordered by
// their smallest member, so the output is deterministic for a given set.
func Components(rooms []geometry.Room) [][]string {
	uf := newUnionFind(len(rooms))
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if geometry.Adjacent(rooms[i], rooms[j]) {
				uf.union(i, j)
			}
		}
	}

	byRoot := make(map[int][]string)
	for i, rm := range rooms {
		root := uf.find(i)
		byRoot[root] = append(byRoot[root], rm.ID)
	}

	comps := make([][]string, 0, len(byRoot))
	for _, ids := range byRoot {
		sort.Strings(ids)
		comps = append(comps, ids)
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0] < comps[j][0] })
	return comps
}

// Recount rebuilds every group's RoomCount from the room list and drops
// groups no room references anymore.
func Recount(rooms []geometry.Room, groups []WallGroup) []WallGroup {
	counts := make(map[string]int, len(groups))
	for _, rm := range rooms {
		counts[rm.WallGroupID]++
	}
	out := make([]WallGroup, 0, len(groups))
	for _, g := range groups {
		if n := counts[g.ID]; n > 0 {
			g.RoomCount = n
			out = append(out, g)
		}
	}
	return out
}

// Dominant picks the merge winner among the touched group ids: the group
// with the most rooms, ties broken by the smallest id.
func Dominant(groups []WallGroup, touched map[string]bool) (WallGroup, bool) {
	var best WallGroup
	found := false
	for _, g := range groups {
		if !touched[g.ID] {
			continue
		}
		if !found || g.RoomCount > best.RoomCount ||
			(g.RoomCount == best.RoomCount && g.ID < best.ID) {
			best = g
			found = true
		}
	}
	return best, found
}

// ResolveAfterAdd reassigns wall groups after room placedID was placed or
// moved. The placed room's whole connected component folds into the dominant
// touched group; a room landing with no neighbors gets a fresh group. Returns
// new room and group slices; inputs are not mutated.
func ResolveAfterAdd(rooms []geometry.Room, groups []WallGroup, placedID string) ([]geometry.Room, []WallGroup) {
	out := append([]geometry.Room(nil), rooms...)

	var comp []string
	for _, c := range Components(out) {
		if containsID(c, placedID) {
			comp = c
			break
		}
	}
	if comp == nil {
		return out, Recount(out, groups)
	}

	touched := make(map[string]bool)
	for _, rm := range out {
		if containsID(comp, rm.ID) && rm.WallGroupID != "" {
			touched[rm.WallGroupID] = true
		}
	}

	var targetID string
	if winner, ok := Dominant(groups, touched); ok {
		targetID = winner.ID
	} else {
		targetID = newGroupID()
		groups = append(append([]WallGroup(nil), groups...), WallGroup{
			ID:          targetID,
			WallStyleID: DefaultWallStyleID,
		})
	}

	for i := range out {
		if containsID(comp, out[i].ID) {
			out[i].WallGroupID = targetID
		}
	}
	return out, Recount(out, groups)
}

// ResolveAfterRemove splits group fromGroupID after one of its rooms was
// removed or moved away. The largest remaining component keeps the original
// id, ties broken by the component holding the smallest room id; every other
// component moves to a fresh group inheriting the original wall style.
func ResolveAfterRemove(rooms []geometry.Room, groups []WallGroup, fromGroupID string) ([]geometry.Room, []WallGroup) {
	out := append([]geometry.Room(nil), rooms...)

	var members []geometry.Room
	for _, rm := range out {
		if rm.WallGroupID == fromGroupID {
			members = append(members, rm)
		}
	}
	if len(members) == 0 {
		return out, Recount(out, groups)
	}

	comps := Components(members)
	if len(comps) <= 1 {
		return out, Recount(out, groups)
	}

	// Largest component keeps the id. Components is ordered by smallest
	// member, so the first of the largest components wins ties.
	keep := 0
	for i, c := range comps {
		if len(c) > len(comps[keep]) {
			keep = i
		}
	}

	style := DefaultWallStyleID
	for _, g := range groups {
		if g.ID == fromGroupID {
			style = g.WallStyleID
			break
		}
	}

	groupsOut := append([]WallGroup(nil), groups...)
	for i, c := range comps {
		if i == keep {
			continue
		}
		id := newGroupID()
		groupsOut = append(groupsOut, WallGroup{ID: id, WallStyleID: style})
		for j := range out {
			if containsID(c, out[j].ID) {
				out[j].WallGroupID = id
			}
		}
	}
	return out, Recount(out, groupsOut)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
