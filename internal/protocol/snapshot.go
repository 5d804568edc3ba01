package protocol

import (
	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
	"github.com/roomforge/roomforge/internal/layout"
	"github.com/roomforge/roomforge/internal/wallgroup"
)

type Snapshot struct {
	TileSize        int                   `json:"tileSize"`
	Rooms           []geometry.Room       `json:"rooms"`
	WallGroups      []wallgroup.WallGroup `json:"wallGroups"`
	EdgeDoors       door.EdgeDoorMap      `json:"edgeDoors"`
	SegmentStates   door.SegmentStateMap  `json:"segmentStates"`
	RenderPieces    []layout.RenderPiece  `json:"renderPieces"`
	Pillars         []layout.Pillar       `json:"pillars"`
	LastSequence    uint64                `json:"lastSeq"`
	ProtocolVersion string                `json:"protocolVersion"`
}

const Version = "1"
