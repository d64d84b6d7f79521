// Package layout contains the pure geometry algorithms behind each layout
// variant. Every function is deterministic for identical inputs, never
// mutates the input order, and places all tiles inside the given bounds
// without overlap.
package layout

import (
	"github.com/dtereshin/callview/internal/core"
)

// Bounds is the rendered viewport size in logical pixels.
type Bounds struct {
	Width  float64
	Height float64
}

// Portrait reports whether the viewport is taller than it is wide.
func (b Bounds) Portrait() bool {
	return b.Height > b.Width
}

// Rect is a tile's position and size within the viewport.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Intersects reports whether two rects overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Tile pairs a media id with its computed geometry.
type Tile struct {
	ID   core.MediaID
	Rect Rect
}

// Align picks which edge a floating tile hugs.
type Align int

const (
	// AlignStart hugs the top or leading edge.
	AlignStart Align = iota
	// AlignEnd hugs the bottom or trailing edge.
	AlignEnd
)

// Alignment is the user preference for floating tiles (the self pip).
type Alignment struct {
	Block  Align // vertical: top or bottom
	Inline Align // horizontal: leading or trailing
}

// DefaultAlignment floats tiles in the bottom trailing corner.
func DefaultAlignment() Alignment {
	return Alignment{Block: AlignEnd, Inline: AlignEnd}
}

const (
	gap        = 8.0
	tileAspect = 16.0 / 9.0

	pipWidth      = 180.0
	onePipWidth   = 120.0
	sidebarMin    = 170.0
	sidebarMax    = 400.0
	bottomBarMin  = 100.0
	bottomBarMax  = 180.0
	sidebarShare  = 0.25
	bottomShare   = 0.2
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// floatingRect computes the rect of a floating tile of the given width,
// inset by one gap from the aligned corner.
func floatingRect(bounds Bounds, align Alignment, width float64) Rect {
	w := width
	if max := bounds.Width - 2*gap; max > 0 && w > max {
		w = max
	}
	h := w / tileAspect
	x := gap
	if align.Inline == AlignEnd {
		x = bounds.Width - w - gap
	}
	y := gap
	if align.Block == AlignEnd {
		y = bounds.Height - h - gap
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Arrange dispatches a layout union value to its geometry algorithm.
func Arrange(l core.Layout, bounds Bounds, align Alignment) []Tile {
	switch l := l.(type) {
	case core.GridLayout:
		if len(l.Spotlight) == 0 {
			return Grid(l.Grid, bounds)
		}
		spot := Rect{Width: bounds.Width, Height: bounds.Height * 0.4}
		rest := Rect{Y: spot.Height, Width: bounds.Width, Height: bounds.Height - spot.Height}
		return append(fitRegion(l.Spotlight, spot), gridIn(l.Grid, rest)...)
	case core.SpotlightLandscapeLayout:
		return SpotlightLandscape(l.Spotlight, l.Grid, bounds)
	case core.SpotlightPortraitLayout:
		return SpotlightPortrait(l.Spotlight, l.Grid, bounds)
	case core.SpotlightExpandedLayout:
		return SpotlightExpanded(l.Spotlight, l.Pip, bounds, align)
	case core.OneOnOneLayout:
		return OneOnOne(l.Local, l.Remote, bounds, align)
	case core.PipLayout:
		return Pip(l.Spotlight, bounds)
	default:
		return nil
	}
}
