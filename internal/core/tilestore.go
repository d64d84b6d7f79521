package core

// TilePriority ranks tiles for visibility. Higher values displace lower
// ones when the viewport cannot fit everything.
type TilePriority int

const (
	// PriorityDefault is a tile with no active signal.
	PriorityDefault TilePriority = iota
	// PriorityHandRaised is a tile whose member has a hand raised.
	PriorityHandRaised
	// PrioritySpeaking is a tile whose member is speaking (debounced).
	PrioritySpeaking
	// PrioritySpotlight is a screen-share or spotlight-designated tile.
	PrioritySpotlight
)

// TileInput is one candidate tile for a store build.
type TileInput struct {
	Item     *MediaItem
	Priority TilePriority
	// Spotlight designates the item for the spotlight subset instead of
	// the grid sequence.
	Spotlight bool
}

// TileSnapshot is the materialized result of a build: the visible grid tiles
// in display order plus the spotlight subset.
type TileSnapshot struct {
	Grid      []*MediaItem
	Spotlight []*MediaItem
}

// TileStore remembers the display order of tiles across updates so the grid
// only reshuffles when it has to. The zero value is an empty store. Stores
// are immutable: every change goes through Build, which returns the next
// store state.
type TileStore struct {
	order []MediaID
}

// Build computes the next store state and snapshot from the full candidate
// set. visibleCount caps how many grid tiles are materialized; zero or
// negative means unlimited.
//
// Ordering rules: surviving tiles keep their relative order; new tiles are
// appended; when a tile beyond the visible cut has strictly higher priority
// than a visible one, the two swap positions rather than triggering a full
// re-sort. Ties are broken by prior order.
func (s TileStore) Build(inputs []TileInput, visibleCount int) (TileStore, TileSnapshot) {
	byID := make(map[MediaID]TileInput, len(inputs))
	for _, in := range inputs {
		if _, dup := byID[in.Item.ID]; dup {
			// Duplicate media ids never coexist; keep the first.
			continue
		}
		byID[in.Item.ID] = in
	}

	// Retain survivors in remembered order, then append newcomers in
	// input order.
	next := make([]MediaID, 0, len(byID))
	seen := make(map[MediaID]bool, len(byID))
	for _, id := range s.order {
		if _, ok := byID[id]; ok && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, in := range inputs {
		if !seen[in.Item.ID] {
			next = append(next, in.Item.ID)
			seen[in.Item.ID] = true
		}
	}

	// Split the spotlight subset out of the grid sequence. Spotlight
	// order follows input order (the caller encodes promotion order).
	var spotlight []*MediaItem
	grid := make([]MediaID, 0, len(next))
	for _, id := range next {
		if byID[id].Spotlight {
			continue
		}
		grid = append(grid, id)
	}
	for _, in := range inputs {
		if in.Spotlight {
			spotlight = append(spotlight, in.Item)
		}
	}

	visible := len(grid)
	if visibleCount > 0 && visibleCount < visible {
		visible = visibleCount
	}

	// Promote off-screen tiles that outrank visible ones, one swap per
	// displacement so the rest of the grid keeps its positions.
	for {
		bestOff, worstOn := -1, -1
		for i := visible; i < len(grid); i++ {
			if bestOff == -1 || byID[grid[i]].Priority > byID[grid[bestOff]].Priority {
				bestOff = i
			}
		}
		if bestOff == -1 {
			break
		}
		for i := 0; i < visible; i++ {
			if worstOn == -1 || byID[grid[i]].Priority <= byID[grid[worstOn]].Priority {
				worstOn = i
			}
		}
		if worstOn == -1 || byID[grid[bestOff]].Priority <= byID[grid[worstOn]].Priority {
			break
		}
		grid[bestOff], grid[worstOn] = grid[worstOn], grid[bestOff]
		swapInOrder(next, grid[bestOff], grid[worstOn])
	}

	tiles := make([]*MediaItem, 0, visible)
	for _, id := range grid[:visible] {
		tiles = append(tiles, byID[id].Item)
	}

	return TileStore{order: next}, TileSnapshot{Grid: tiles, Spotlight: spotlight}
}

func swapInOrder(order []MediaID, a, b MediaID) {
	ai, bi := -1, -1
	for i, id := range order {
		switch id {
		case a:
			ai = i
		case b:
			bi = i
		}
	}
	if ai >= 0 && bi >= 0 {
		order[ai], order[bi] = order[bi], order[ai]
	}
}

// Len returns how many tiles the store currently remembers.
func (s TileStore) Len() int {
	return len(s.order)
}
