package layout

import (
	"github.com/dtereshin/callview/internal/core"
)

// OneOnOne fills the viewport with the remote tile and floats the local
// tile in the aligned corner.
func OneOnOne(local, remote *core.MediaItem, bounds Bounds, align Alignment) []Tile {
	var out []Tile
	if remote != nil {
		out = append(out, Tile{ID: remote.ID, Rect: Rect{
			Width:  bounds.Width,
			Height: bounds.Height,
		}})
	}
	if local != nil {
		out = append(out, Tile{ID: local.ID, Rect: floatingRect(bounds, align, onePipWidth)})
	}
	return out
}

// Pip renders the single spotlight candidate into the whole (already tiny)
// picture-in-picture window, letterboxed to the standard tile aspect.
func Pip(item *core.MediaItem, bounds Bounds) []Tile {
	if item == nil || bounds.Width <= 0 || bounds.Height <= 0 {
		return nil
	}
	w := bounds.Width
	h := w / tileAspect
	if h > bounds.Height {
		h = bounds.Height
		w = h * tileAspect
	}
	return []Tile{{ID: item.ID, Rect: Rect{
		X:      (bounds.Width - w) / 2,
		Y:      (bounds.Height - h) / 2,
		Width:  w,
		Height: h,
	}}}
}
