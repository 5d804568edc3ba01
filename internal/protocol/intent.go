package protocol

import "encoding/json"

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type RequestPlaceRoom struct {
	TilesW       int    `json:"tilesW"`
	TilesH       int    `json:"tilesH"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	FloorStyleID string `json:"floorStyleId"`
}

type RequestMoveRoom struct {
	RoomID string `json:"roomId"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type RequestRotateRoom struct {
	RoomID    string `json:"roomId"`
	Clockwise bool   `json:"clockwise"`
}

type RequestDeleteRoom struct {
	RoomID string `json:"roomId"`
}

type RequestDoorClick struct {
	EdgeID   string `json:"edgeId"`
	OffsetPx int    `json:"offsetPx"`
}

type RequestSegmentClick struct {
	SegmentID  string `json:"segmentId"`
	RightClick bool   `json:"rightClick"`
}

type RequestDragPreview struct {
	RoomID  string `json:"roomId"`
	CursorX int    `json:"cursorX"`
	CursorY int    `json:"cursorY"`
}
