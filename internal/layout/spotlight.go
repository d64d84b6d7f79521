package layout

import (
	"github.com/dtereshin/callview/internal/core"
)

// SpotlightLandscape reserves the left side for the spotlight and stacks
// the remaining tiles in a vertical strip on the right.
func SpotlightLandscape(spotlight, grid []*core.MediaItem, bounds Bounds) []Tile {
	sidebar := 0.0
	if len(grid) > 0 {
		sidebar = clamp(bounds.Width*sidebarShare, sidebarMin, sidebarMax)
		if sidebar > bounds.Width/2 {
			sidebar = bounds.Width / 2
		}
	}

	spotRegion := Rect{
		X:      gap,
		Y:      gap,
		Width:  bounds.Width - sidebar - 2*gap,
		Height: bounds.Height - 2*gap,
	}
	out := fitRegion(spotlight, spotRegion)

	if len(grid) > 0 {
		n := len(grid)
		w := sidebar - 2*gap
		h := w / tileAspect
		if need := float64(n)*h + gap*float64(n+1); need > bounds.Height {
			h = (bounds.Height - gap*float64(n+1)) / float64(n)
			if h < 0 {
				h = 0
			}
		}
		x := bounds.Width - sidebar + gap
		for i, it := range grid {
			out = append(out, Tile{ID: it.ID, Rect: Rect{
				X:      x,
				Y:      gap + float64(i)*(h+gap),
				Width:  w,
				Height: h,
			}})
		}
	}
	return out
}

// SpotlightPortrait reserves the top for the spotlight and lines the
// remaining tiles up in a horizontal strip along the bottom.
func SpotlightPortrait(spotlight, grid []*core.MediaItem, bounds Bounds) []Tile {
	bar := 0.0
	if len(grid) > 0 {
		bar = clamp(bounds.Height*bottomShare, bottomBarMin, bottomBarMax)
		if bar > bounds.Height/2 {
			bar = bounds.Height / 2
		}
	}

	spotRegion := Rect{
		X:      gap,
		Y:      gap,
		Width:  bounds.Width - 2*gap,
		Height: bounds.Height - bar - 2*gap,
	}
	out := fitRegion(spotlight, spotRegion)

	if len(grid) > 0 {
		n := len(grid)
		h := bar - 2*gap
		w := h * tileAspect
		if need := float64(n)*w + gap*float64(n+1); need > bounds.Width {
			w = (bounds.Width - gap*float64(n+1)) / float64(n)
			if w < 0 {
				w = 0
			}
		}
		y := bounds.Height - bar + gap
		for i, it := range grid {
			out = append(out, Tile{ID: it.ID, Rect: Rect{
				X:      gap + float64(i)*(w+gap),
				Y:      y,
				Width:  w,
				Height: h,
			}})
		}
	}
	return out
}

// SpotlightExpanded devotes the full viewport to the spotlight and floats
// the local tile as a small picture-in-picture in the aligned corner.
func SpotlightExpanded(spotlight []*core.MediaItem, pip *core.MediaItem, bounds Bounds, align Alignment) []Tile {
	region := Rect{Width: bounds.Width, Height: bounds.Height}
	out := fitRegion(spotlight, region)
	if pip != nil {
		out = append(out, Tile{ID: pip.ID, Rect: floatingRect(bounds, align, pipWidth)})
	}
	return out
}
