package editor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

// Scene is the serialized form of a layout. Everything is stored in pixels,
// so a save/load round trip is exact: no floats, no re-derivation drift.
// Derived data (edges, pillars, render pieces) is never persisted.
type Scene struct {
	TileSize      int                   `json:"tileSize"`
	Rooms         []geometry.Room       `json:"rooms"`
	WallGroups    []wallgroup.WallGroup `json:"wallGroups"`
	EdgeDoors     door.EdgeDoorMap      `json:"edgeDoors,omitempty"`
	SegmentStates door.SegmentStateMap  `json:"segmentStates,omitempty"`
}

// SceneFromState captures a state for persistence.
func SceneFromState(s State) Scene {
	return Scene{
		TileSize:      geometry.TilePx,
		Rooms:         append([]geometry.Room(nil), s.Rooms...),
		WallGroups:    append([]wallgroup.WallGroup(nil), s.Groups...),
		EdgeDoors:     s.EdgeDoors,
		SegmentStates: s.SegmentStates,
	}
}

// State rebuilds an editor state from a loaded scene. Group bookkeeping is
// verified rather than trusted, so a hand-edited scene file fails loudly
// instead of corrupting later merges.
func (sc Scene) State() (State, error) {
	if sc.TileSize != 0 && sc.TileSize != geometry.TilePx {
		return State{}, fmt.Errorf("scene tile size %d, this build uses %d", sc.TileSize, geometry.TilePx)
	}
	st := State{
		Rooms:         append([]geometry.Room(nil), sc.Rooms...),
		Groups:        append([]wallgroup.WallGroup(nil), sc.WallGroups...),
		EdgeDoors:     sc.EdgeDoors,
		SegmentStates: sc.SegmentStates,
	}
	if st.EdgeDoors == nil {
		st.EdgeDoors = door.EdgeDoorMap{}
	}
	if st.SegmentStates == nil {
		st.SegmentStates = door.SegmentStateMap{}
	}

	seen := make(map[string]bool, len(st.Rooms))
	for _, rm := range st.Rooms {
		if rm.ID == "" {
			return State{}, fmt.Errorf("scene room with empty id")
		}
		if seen[rm.ID] {
			return State{}, fmt.Errorf("scene reuses room id %s", rm.ID)
		}
		seen[rm.ID] = true
		if err := validateRoom(rm, st.Rooms); err != nil {
			return State{}, fmt.Errorf("scene room %s: %w", rm.ID, err)
		}
	}
	if err := st.CheckInvariants(); err != nil {
		return State{}, fmt.Errorf("scene wall groups: %w", err)
	}

	// Doors referencing edges the geometry no longer produces are dropped,
	// same as after any structural edit.
	st.EdgeDoors = door.CleanupForGeometry(st.EdgeDoors, st.Rooms)
	st.SegmentStates = door.CleanupSegmentsForGeometry(st.SegmentStates, st.Rooms)
	return st, nil
}

// LoadSceneFile reads and validates a scene from disk.
func LoadSceneFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read scene: %w", err)
	}
	var sc Scene
	if err := json.Unmarshal(data, &sc); err != nil {
		return State{}, fmt.Errorf("parse scene %s: %w", path, err)
	}
	st, err := sc.State()
	if err != nil {
		return State{}, fmt.Errorf("scene %s: %w", path, err)
	}
	return st, nil
}

// SaveSceneFile writes the state as a scene file.
func SaveSceneFile(path string, s State) error {
	data, err := json.MarshalIndent(SceneFromState(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
