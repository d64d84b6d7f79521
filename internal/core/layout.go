package core

// LayoutKind discriminates the layout union.
type LayoutKind int

const (
	// LayoutGrid shows all tiles at equal size.
	LayoutGrid LayoutKind = iota
	// LayoutSpotlightLandscape emphasizes the spotlight with a side strip.
	LayoutSpotlightLandscape
	// LayoutSpotlightPortrait emphasizes the spotlight with a bottom strip.
	LayoutSpotlightPortrait
	// LayoutSpotlightExpanded gives the spotlight the whole viewport with
	// a floating self tile.
	LayoutSpotlightExpanded
	// LayoutOneOnOne is the two-person call special case.
	LayoutOneOnOne
	// LayoutPip is the minimized picture-in-picture override.
	LayoutPip
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutGrid:
		return "grid"
	case LayoutSpotlightLandscape:
		return "spotlight-landscape"
	case LayoutSpotlightPortrait:
		return "spotlight-portrait"
	case LayoutSpotlightExpanded:
		return "spotlight-expanded"
	case LayoutOneOnOne:
		return "one-on-one"
	case LayoutPip:
		return "pip"
	default:
		return "unknown"
	}
}

// Layout is the tagged union of layout variants. Exactly one variant is
// active at a time; every emission is a fresh immutable snapshot. The
// variant set is closed.
type Layout interface {
	Kind() LayoutKind
	layout()
}

// GridLayout shows every visible tile at equal size, with any pinned
// spotlight items (screen-shares) above the grid.
type GridLayout struct {
	Spotlight []*MediaItem
	Grid      []*MediaItem
}

func (GridLayout) Kind() LayoutKind { return LayoutGrid }
func (GridLayout) layout()          {}

// SpotlightLandscapeLayout is the spotlight variant for wide viewports:
// spotlight on the left, a vertical strip of grid tiles on the right.
type SpotlightLandscapeLayout struct {
	Spotlight []*MediaItem
	Grid      []*MediaItem
}

func (SpotlightLandscapeLayout) Kind() LayoutKind { return LayoutSpotlightLandscape }
func (SpotlightLandscapeLayout) layout()          {}

// SpotlightPortraitLayout is the spotlight variant for tall viewports:
// spotlight on top, a horizontal strip of grid tiles below.
type SpotlightPortraitLayout struct {
	Spotlight []*MediaItem
	Grid      []*MediaItem
}

func (SpotlightPortraitLayout) Kind() LayoutKind { return LayoutSpotlightPortrait }
func (SpotlightPortraitLayout) layout()          {}

// SpotlightExpandedLayout devotes the whole viewport to the spotlight and
// floats the local tile as a small picture-in-picture.
type SpotlightExpandedLayout struct {
	Spotlight []*MediaItem
	// Pip is the floating local tile; nil when the local member has no
	// tile.
	Pip *MediaItem
}

func (SpotlightExpandedLayout) Kind() LayoutKind { return LayoutSpotlightExpanded }
func (SpotlightExpandedLayout) layout()          {}

// OneOnOneLayout is the two-person call: the remote fills the viewport and
// the local tile floats in a corner.
type OneOnOneLayout struct {
	Local  *MediaItem
	Remote *MediaItem
}

func (OneOnOneLayout) Kind() LayoutKind { return LayoutOneOnOne }
func (OneOnOneLayout) layout()          {}

// PipLayout renders exactly the current spotlight candidate, minimized.
// It overrides grid/spotlight display without erasing the grid-mode memory.
type PipLayout struct {
	Spotlight *MediaItem
}

func (PipLayout) Kind() LayoutKind { return LayoutPip }
func (PipLayout) layout()          {}
