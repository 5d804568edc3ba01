package protocol

import (
	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/layout"
	"github.com/roomforge/roomforge/internal/snap"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

type PatchEnvelope struct {
	Sequence uint64 `json:"seq"`
	Type     string `json:"type"`
	Payload  any    `json:"payload"`
}

type LayoutChanged struct {
	Rooms         []geometry.Room       `json:"rooms"`
	WallGroups    []wallgroup.WallGroup `json:"wallGroups"`
	EdgeDoors     door.EdgeDoorMap      `json:"edgeDoors"`
	SegmentStates door.SegmentStateMap  `json:"segmentStates"`
	RenderPieces  []layout.RenderPiece  `json:"renderPieces"`
	Pillars       []layout.Pillar       `json:"pillars"`
}

type DoorsChanged struct {
	EdgeID string          `json:"edgeId"`
	Doors  []door.EdgeDoor `json:"doors"`
}

type SegmentChanged struct {
	SegmentID string             `json:"segmentId"`
	State     *door.SegmentState `json:"state"`
}

type DragPreviewResult struct {
	RoomID  string           `json:"roomId"`
	X       int              `json:"x"`
	Y       int              `json:"y"`
	Preview snap.DropPreview `json:"preview"`
}

type IntentRejected struct {
	Intent  string `json:"intent"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
