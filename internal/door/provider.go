package door

import "github.com/roomforge/roomforge/internal/geometry"

// Mode tags which door model a Provider is serving.
type Mode string

const (
	ModeFreePlacement  Mode = "freePlacement"
	ModeLegacySegments Mode = "legacySegments"
)

// Span is the pixel extent of one door along an edge, relative to the
// edge's range start.
type Span struct {
	StartPx int
	EndPx   int
}

// Provider exposes the two coexisting door models behind one surface so
// callers never special-case which is active. Free-placement wins whenever
// it holds any door; the legacy segment model is served otherwise.
type Provider struct {
	Free   EdgeDoorMap
	Legacy SegmentStateMap
}

func (p Provider) Mode() Mode {
	if len(p.Free) > 0 {
		return ModeFreePlacement
	}
	return ModeLegacySegments
}

// Spans returns every door span on the edge under the active model.
func (p Provider) Spans(edgeID string, edgeLen int) []Span {
	if p.Mode() == ModeFreePlacement {
		var spans []Span
		for _, d := range p.Free[edgeID] {
			spans = append(spans, Span{StartPx: d.OffsetPx, EndPx: d.OffsetPx + geometry.DoorWidthPx})
		}
		return spans
	}

	var spans []Span
	for chunk := 0; chunk < SegmentCount(edgeLen); chunk++ {
		st, ok := p.Legacy[SegmentGroupID(edgeID, chunk)]
		if !ok {
			continue
		}
		base := chunk * SegmentWidthPx
		for _, piece := range SegmentPieces(st.Pattern) {
			if piece.Kind == PieceDoor {
				spans = append(spans, Span{
					StartPx: base + piece.OffsetPx,
					EndPx:   base + piece.OffsetPx + piece.LengthPx,
				})
			}
		}
	}
	return spans
}

// Pieces returns the renderable wall/door pieces along the edge under the
// active model.
func (p Provider) Pieces(edgeID string, edgeLen int) []EdgePiece {
	if p.Mode() == ModeFreePlacement {
		return GenerateEdgePieces(edgeLen, p.Free[edgeID])
	}

	var pieces []EdgePiece
	chunks := SegmentCount(edgeLen)
	for chunk := 0; chunk < chunks; chunk++ {
		base := chunk * SegmentWidthPx
		st, ok := p.Legacy[SegmentGroupID(edgeID, chunk)]
		if !ok {
			pieces = append(pieces, PackWallRun(base, SegmentWidthPx)...)
			continue
		}
		for _, piece := range SegmentPieces(st.Pattern) {
			piece.OffsetPx += base
			pieces = append(pieces, piece)
		}
	}
	if tail := edgeLen - chunks*SegmentWidthPx; tail > 0 {
		pieces = append(pieces, PackWallRun(chunks*SegmentWidthPx, tail)...)
	}
	return pieces
}
