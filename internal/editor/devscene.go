package editor

// DevScene builds the default layout used when no scene file is configured:
// a hall with two side chambers and a detached storeroom, enough geometry to
// exercise merging, auto doors and pillar placement from a fresh start.
func DevScene() State {
	st := NewState()
	st = devPlace(st, 6, 4, 0, 0, "floor-flagstone")     // hall
	st = devPlace(st, 3, 3, 768, 0, "floor-flagstone")   // east chamber
	st = devPlace(st, 2, 2, 128, 512, "floor-wood")      // south chamber
	st = devPlace(st, 2, 2, 1536, 512, "floor-dirt")     // detached storeroom
	return st
}

func devPlace(st State, tilesW, tilesH, x, y int, floorStyleID string) State {
	out, _, err := st.PlaceRoom(tilesW, tilesH, x, y, floorStyleID)
	if err != nil {
		// The dev layout is hard-coded; a rejection here is a broken build.
		panic("dev scene: " + err.Error())
	}
	return out
}
