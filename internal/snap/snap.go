package snap

import (
	"math"

	"github.com/roomforge/roomforge/internal/geometry"
)

const (
	// DefaultThresholdPx is the magnetic snap search radius around the
	// dragged footprint.
	DefaultThresholdPx = geometry.TilePx

	// Candidates whose cursor distance is within this band of the best one
	// compete on shared-edge length instead.
	tieBandPx = 10
)

type candidate struct {
	x, y      int
	dist      float64
	sharedLen int
}

// FindPosition resolves the drop position for a dragged room whose top-left
// corner follows the cursor. With no other rooms placement is free. Otherwise
// the four axis-aligned docking positions against every nearby room are
// scored by cursor distance, with a tie band that prefers longer resulting
// shared walls; candidates that would overlap anything are discarded. If
// nothing qualifies and the cursor footprint sits on top of a room, the
// nearest free side of that room is used instead of abandoning the drag.
func FindPosition(dragged geometry.Room, cursorX, cursorY int, others []geometry.Room, thresholdPx int) (int, int) {
	if len(others) == 0 {
		return cursorX, cursorY
	}
	if thresholdPx <= 0 {
		thresholdPx = DefaultThresholdPx
	}

	atCursor := dragged
	atCursor.X = cursorX
	atCursor.Y = cursorY
	cursorRect := atCursor.PixelRect()
	search := geometry.Rect{
		X: cursorRect.X - thresholdPx,
		Y: cursorRect.Y - thresholdPx,
		W: cursorRect.W + 2*thresholdPx,
		H: cursorRect.H + 2*thresholdPx,
	}

	var candidates []candidate
	for _, target := range others {
		if target.ID == dragged.ID {
			continue
		}
		if !search.Overlaps(target.PixelRect()) {
			continue
		}
		for _, c := range dockingCandidates(cursorRect, target) {
			moved := dragged
			moved.X = c.x
			moved.Y = c.y
			if overlapsAny(moved, others) {
				continue
			}
			c.dist = pointDistance(cursorX, cursorY, c.x, c.y)
			c.sharedLen = totalSharedLength(moved, others)
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return overlapFallback(dragged, cursorX, cursorY, others)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	// The band is anchored to the distance minimum so near-ties cannot
	// chain into accepting a candidate well past it.
	minDist := best.dist
	for _, c := range candidates {
		if c.dist-minDist <= tieBandPx && c.sharedLen > best.sharedLen {
			best = c
		}
	}
	return best.x, best.y
}

// dockingCandidates produces the four axis-aligned positions that place the
// dragged footprint flush against one side of the target, with the sliding
// coordinate aligned to the target room's own tile grid.
func dockingCandidates(cursorRect geometry.Rect, target geometry.Room) []candidate {
	tr := target.PixelRect()
	alignedY := tr.Y + snapToGrid(cursorRect.Y-tr.Y)
	alignedX := tr.X + snapToGrid(cursorRect.X-tr.X)
	return []candidate{
		{x: tr.Right(), y: alignedY},          // dragged left against target right
		{x: tr.X - cursorRect.W, y: alignedY}, // dragged right against target left
		{x: alignedX, y: tr.Bottom()},         // dragged top against target bottom
		{x: alignedX, y: tr.Y - cursorRect.H}, // dragged bottom against target top
	}
}

// overlapFallback picks the nearest free side of the room currently under
// the cursor footprint.
func overlapFallback(dragged geometry.Room, cursorX, cursorY int, others []geometry.Room) (int, int) {
	atCursor := dragged
	atCursor.X = cursorX
	atCursor.Y = cursorY
	cursorRect := atCursor.PixelRect()

	for _, target := range others {
		if target.ID == dragged.ID || !cursorRect.Overlaps(target.PixelRect()) {
			continue
		}
		bestDist := math.Inf(1)
		bestX, bestY := cursorX, cursorY
		found := false
		for _, c := range dockingCandidates(cursorRect, target) {
			moved := dragged
			moved.X = c.x
			moved.Y = c.y
			if overlapsAny(moved, others) {
				continue
			}
			if d := pointDistance(cursorX, cursorY, c.x, c.y); d < bestDist {
				bestDist = d
				bestX, bestY = c.x, c.y
				found = true
			}
		}
		if found {
			return bestX, bestY
		}
	}
	return cursorX, cursorY
}

func overlapsAny(rm geometry.Room, others []geometry.Room) bool {
	rect := rm.PixelRect()
	for _, o := range others {
		if o.ID == rm.ID {
			continue
		}
		if rect.Overlaps(o.PixelRect()) {
			return true
		}
	}
	return false
}

func totalSharedLength(rm geometry.Room, others []geometry.Room) int {
	total := 0
	for _, o := range others {
		if o.ID == rm.ID {
			continue
		}
		if e, ok := geometry.SharedEdge(rm, o); ok {
			total += e.Length()
		}
	}
	return total
}

func snapToGrid(px int) int {
	return int(math.Round(float64(px)/geometry.TilePx)) * geometry.TilePx
}

func pointDistance(x1, y1, x2, y2 int) float64 {
	dx := float64(x1 - x2)
	dy := float64(y1 - y2)
	return math.Hypot(dx, dy)
}
