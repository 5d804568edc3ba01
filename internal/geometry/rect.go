package geometry

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// PixelRect returns the room's pixel bounding box. Rotation by 90 or 270
// swaps the footprint in place around the top-left corner.
func (r Room) PixelRect() Rect {
	w := r.TilesW * TilePx
	h := r.TilesH * TilePx
	if r.Rotation == 90 || r.Rotation == 270 {
		w, h = h, w
	}
	return Rect{X: r.X, Y: r.Y, W: w, H: h}
}

// TileRect returns the room's bounding box in tile units.
func (r Room) TileRect() Rect {
	p := r.PixelRect()
	return Rect{X: p.X / TilePx, Y: p.Y / TilePx, W: p.W / TilePx, H: p.H / TilePx}
}

// SharedEdge returns the boundary segment where a and b touch, if their
// rectangles abut along a collinear edge with a non-empty overlap. The edge
// is vertical when one room's right side meets the other's left side, and
// horizontal for top/bottom contact. RoomA is always a's id.
func SharedEdge(a, b Room) (PerimeterEdge, bool) {
	ra := a.PixelRect()
	rb := b.PixelRect()

	if ra.Right() == rb.X || rb.Right() == ra.X {
		pos := ra.Right()
		if rb.Right() == ra.X {
			pos = rb.Right()
		}
		start := max(ra.Y, rb.Y)
		end := min(ra.Bottom(), rb.Bottom())
		if end > start {
			return PerimeterEdge{
				Orientation: Vertical,
				Position:    pos,
				RangeStart:  start,
				RangeEnd:    end,
				IsInternal:  true,
				RoomA:       a.ID,
				RoomB:       b.ID,
			}, true
		}
	}

	if ra.Bottom() == rb.Y || rb.Bottom() == ra.Y {
		pos := ra.Bottom()
		if rb.Bottom() == ra.Y {
			pos = rb.Bottom()
		}
		start := max(ra.X, rb.X)
		end := min(ra.Right(), rb.Right())
		if end > start {
			return PerimeterEdge{
				Orientation: Horizontal,
				Position:    pos,
				RangeStart:  start,
				RangeEnd:    end,
				IsInternal:  true,
				RoomA:       a.ID,
				RoomB:       b.ID,
			}, true
		}
	}

	return PerimeterEdge{}, false
}

// Adjacent reports whether two rooms share a wall of non-zero length.
func Adjacent(a, b Room) bool {
	_, ok := SharedEdge(a, b)
	return ok
}
