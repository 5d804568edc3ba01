package door

import (
	"sort"

	"github.com/roomforge/roomforge/internal/geometry"
)

// PieceKind distinguishes renderable wall runs from door cutouts.
type PieceKind string

const (
	PieceWall PieceKind = "wall"
	PieceDoor PieceKind = "door"
)

// EdgePiece is one renderable piece along an edge, offset relative to the
// edge's range start.
type EdgePiece struct {
	Kind     PieceKind `json:"kind"`
	OffsetPx int       `json:"offsetPx"`
	LengthPx int       `json:"lengthPx"`
}

var wallSpriteSizes = [...]int{
	geometry.WallPieceLargePx,
	geometry.WallPieceMediumPx,
	geometry.WallPieceSmallPx,
}

// PackWallRun fills a 64px-aligned gap with wall pieces, largest sprite
// first. The greedy fill always lands exactly on the gap length; a remainder
// smaller than 64px would mean mis-aligned input geometry.
func PackWallRun(offsetPx, lengthPx int) []EdgePiece {
	var pieces []EdgePiece
	cursor := offsetPx
	remaining := lengthPx
	for remaining >= geometry.WallPieceSmallPx {
		for _, size := range wallSpriteSizes {
			if size <= remaining {
				pieces = append(pieces, EdgePiece{Kind: PieceWall, OffsetPx: cursor, LengthPx: size})
				cursor += size
				remaining -= size
				break
			}
		}
	}
	return pieces
}

// GenerateEdgePieces lays out one edge as alternating wall runs and doors:
// for each door in offset order the gap before it is packed greedily, then
// the 128px door is emitted, then the trailing gap after the last door.
func GenerateEdgePieces(edgeLen int, doors []EdgeDoor) []EdgePiece {
	ordered := append([]EdgeDoor(nil), doors...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OffsetPx < ordered[j].OffsetPx })

	var pieces []EdgePiece
	cursor := 0
	for _, d := range ordered {
		pieces = append(pieces, PackWallRun(cursor, d.OffsetPx-cursor)...)
		pieces = append(pieces, EdgePiece{Kind: PieceDoor, OffsetPx: d.OffsetPx, LengthPx: geometry.DoorWidthPx})
		cursor = d.OffsetPx + geometry.DoorWidthPx
	}
	pieces = append(pieces, PackWallRun(cursor, edgeLen-cursor)...)
	return pieces
}
