package geometry

// All coordinates and lengths are pixels unless a name says otherwise.
// Rooms sit on a 128px tile grid; walls are packed from 256/128/64 sprites.
const (
	TilePx       = 128
	DoorWidthPx  = 128
	DoorGridPx   = 64
	DoorMarginPx = 64

	WallPieceLargePx  = 256
	WallPieceMediumPx = 128
	WallPieceSmallPx  = 64
)

type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

// Room is a placed modular room. X/Y are the pixel top-left corner and are
// always tile-aligned; TilesW/TilesH are the unrotated footprint in tiles.
type Room struct {
	ID           string `json:"id"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	TilesW       int    `json:"tilesW"`
	TilesH       int    `json:"tilesH"`
	Rotation     int    `json:"rotation"`
	FloorStyleID string `json:"floorStyleId"`
	WallGroupID  string `json:"wallGroupId"`
}

// PerimeterEdge is a maximal straight wall line derived from room boundaries.
// External edges belong to one room (RoomB empty); internal edges are shared
// walls between exactly two rooms. Edges are recomputed from the room set on
// every structural change and never cached.
type PerimeterEdge struct {
	Orientation Orientation
	Position    int
	RangeStart  int
	RangeEnd    int
	IsInternal  bool
	RoomA       string
	RoomB       string
}

func (e PerimeterEdge) Length() int {
	return e.RangeEnd - e.RangeStart
}
