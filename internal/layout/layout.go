package layout

import (
	"github.com/roomforge/roomforge/internal/door"
	"github.com/roomforge/roomforge/internal/geometry"
)

// Render piece types consumed by the presentation layer. The engine only
// decides positions and extents; drawing sprites at them is someone else's
// job.
const (
	TypeFloor  = "floor"
	TypeWall   = "wall"
	TypeDoor   = "door"
	TypePillar = "pillar"
)

// PillarSizePx is the sprite footprint reserved for a pillar.
const PillarSizePx = 64

// RenderPiece is one positioned sprite slot. For walls and doors WidthPx is
// the extent along the edge and Rotation encodes the edge orientation
// (0 horizontal, 90 vertical).
type RenderPiece struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	WidthPx  int    `json:"widthPx"`
	HeightPx int    `json:"heightPx"`
	Rotation int    `json:"rotation"`
	Type     string `json:"type"`
}

// Generate assembles the full render-ready piece list for the current rooms
// and door state: floors, packed wall runs with door cutouts, and pillars.
// It is a pure function of its inputs and recomputed on every change.
func Generate(rooms []geometry.Room, prov door.Provider) []RenderPiece {
	byID := make(map[string]geometry.Room, len(rooms))
	for _, rm := range rooms {
		byID[rm.ID] = rm
	}

	var out []RenderPiece
	for _, rm := range rooms {
		rect := rm.PixelRect()
		out = append(out, RenderPiece{
			X:        rect.X,
			Y:        rect.Y,
			WidthPx:  rect.W,
			HeightPx: rect.H,
			Rotation: rm.Rotation,
			Type:     TypeFloor,
		})
	}

	external, internal := geometry.ExtractEdges(rooms)
	edges := append(append([]geometry.PerimeterEdge(nil), external...), internal...)
	for _, e := range edges {
		edgeID := door.EdgeID(e, byID)
		for _, piece := range prov.Pieces(edgeID, e.Length()) {
			rp := RenderPiece{
				WidthPx:  piece.LengthPx,
				HeightPx: geometry.TilePx,
				Type:     TypeWall,
			}
			if piece.Kind == door.PieceDoor {
				rp.Type = TypeDoor
			}
			if e.Orientation == geometry.Horizontal {
				rp.X = e.RangeStart + piece.OffsetPx
				rp.Y = e.Position
			} else {
				rp.X = e.Position
				rp.Y = e.RangeStart + piece.OffsetPx
				rp.Rotation = 90
			}
			out = append(out, rp)
		}
	}

	for _, p := range Pillars(rooms, prov) {
		out = append(out, RenderPiece{
			X:        p.X,
			Y:        p.Y,
			WidthPx:  PillarSizePx,
			HeightPx: PillarSizePx,
			Type:     TypePillar,
		})
	}
	return out
}
