package geometry

import "sort"

// boundary is one side of one room projected onto a wall line.
type boundary struct {
	roomID string
	start  int
	end    int
}

type wallLine struct {
	orientation Orientation
	position    int
}

// ExtractEdges derives the full wall structure for a room set. Every room
// boundary is grouped onto its (orientation, position) line and a 1-D sweep
// splits each line into maximal runs covered by one room (external) or two
// rooms (internal). Runs covered by more than two rooms cannot occur for
// non-overlapping rectangles, but are attributed to the two smallest room
// ids rather than rejected.
func ExtractEdges(rooms []Room) (external, internal []PerimeterEdge) {
	lines := make(map[wallLine][]boundary)
	add := func(o Orientation, pos int, b boundary) {
		k := wallLine{orientation: o, position: pos}
		lines[k] = append(lines[k], b)
	}
	for _, rm := range rooms {
		rc := rm.PixelRect()
		add(Horizontal, rc.Y, boundary{roomID: rm.ID, start: rc.X, end: rc.Right()})
		add(Horizontal, rc.Bottom(), boundary{roomID: rm.ID, start: rc.X, end: rc.Right()})
		add(Vertical, rc.X, boundary{roomID: rm.ID, start: rc.Y, end: rc.Bottom()})
		add(Vertical, rc.Right(), boundary{roomID: rm.ID, start: rc.Y, end: rc.Bottom()})
	}

	keys := make([]wallLine, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].orientation != keys[j].orientation {
			return keys[i].orientation < keys[j].orientation
		}
		return keys[i].position < keys[j].position
	})

	for _, k := range keys {
		ext, in := sweepLine(k, lines[k])
		external = append(external, ext...)
		internal = append(internal, in...)
	}
	return external, internal
}

// sweepLine splits one wall line into maximal edges by coverage count.
func sweepLine(line wallLine, bounds []boundary) (external, internal []PerimeterEdge) {
	cuts := make([]int, 0, len(bounds)*2)
	for _, b := range bounds {
		cuts = append(cuts, b.start, b.end)
	}
	sort.Ints(cuts)
	cuts = dedupInts(cuts)

	var open *PerimeterEdge
	flush := func() {
		if open == nil {
			return
		}
		if open.IsInternal {
			internal = append(internal, *open)
		} else {
			external = append(external, *open)
		}
		open = nil
	}

	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		var owners []string
		for _, b := range bounds {
			if b.start <= lo && hi <= b.end {
				owners = append(owners, b.roomID)
			}
		}
		if len(owners) == 0 {
			flush()
			continue
		}
		sort.Strings(owners)

		seg := PerimeterEdge{
			Orientation: line.orientation,
			Position:    line.position,
			RangeStart:  lo,
			RangeEnd:    hi,
			IsInternal:  len(owners) >= 2,
			RoomA:       owners[0],
		}
		if seg.IsInternal {
			seg.RoomB = owners[1]
		}

		if open != nil && open.RangeEnd == lo &&
			open.IsInternal == seg.IsInternal &&
			open.RoomA == seg.RoomA && open.RoomB == seg.RoomB {
			open.RangeEnd = hi
			continue
		}
		flush()
		open = &seg
	}
	flush()
	return external, internal
}

func dedupInts(xs []int) []int {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
