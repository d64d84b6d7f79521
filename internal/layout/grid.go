package layout

import (
	"math"

	"github.com/dtereshin/callview/internal/core"
)

// Grid arranges tiles in the classic equal-sized grid: the column count
// that yields the largest tiles wins, rows are centered vertically, and a
// partial last row is centered horizontally.
func Grid(tiles []*core.MediaItem, bounds Bounds) []Tile {
	return gridIn(tiles, Rect{Width: bounds.Width, Height: bounds.Height})
}

// gridIn runs the grid fit inside an arbitrary region of the viewport.
func gridIn(tiles []*core.MediaItem, region Rect) []Tile {
	n := len(tiles)
	if n == 0 || region.Width <= 0 || region.Height <= 0 {
		return nil
	}

	bestCols, bestW := 1, 0.0
	for cols := 1; cols <= n; cols++ {
		rows := (n + cols - 1) / cols
		w := (region.Width - gap*float64(cols+1)) / float64(cols)
		maxH := (region.Height - gap*float64(rows+1)) / float64(rows)
		if w/tileAspect > maxH {
			w = maxH * tileAspect
		}
		if w > bestW {
			bestCols, bestW = cols, w
		}
	}
	if bestW <= 0 {
		// Degenerate region; divide it evenly rather than give up.
		bestCols = n
		bestW = region.Width / float64(n)
	}

	cols := bestCols
	rows := (n + cols - 1) / cols
	tileW := bestW
	tileH := tileW / tileAspect

	totalH := float64(rows)*tileH + gap*float64(rows-1)
	startY := region.Y + (region.Height-totalH)/2

	out := make([]Tile, 0, n)
	for row := 0; row < rows; row++ {
		inRow := cols
		if row == rows-1 {
			inRow = n - cols*(rows-1)
		}
		rowW := float64(inRow)*tileW + gap*float64(inRow-1)
		startX := region.X + (region.Width-rowW)/2
		for i := 0; i < inRow; i++ {
			idx := row*cols + i
			out = append(out, Tile{
				ID: tiles[idx].ID,
				Rect: Rect{
					X:      startX + float64(i)*(tileW+gap),
					Y:      startY + float64(row)*(tileH+gap),
					Width:  tileW,
					Height: tileH,
				},
			})
		}
	}
	return out
}

// fitRegion splits a region evenly among items: side by side when the
// region is wide, stacked when it is tall. Used for multi-item spotlights.
func fitRegion(items []*core.MediaItem, region Rect) []Tile {
	n := len(items)
	if n == 0 || region.Width <= 0 || region.Height <= 0 {
		return nil
	}
	out := make([]Tile, 0, n)
	if region.Width >= region.Height {
		w := (region.Width - gap*float64(n-1)) / float64(n)
		for i, it := range items {
			out = append(out, Tile{ID: it.ID, Rect: Rect{
				X:      region.X + float64(i)*(w+gap),
				Y:      region.Y,
				Width:  w,
				Height: region.Height,
			}})
		}
		return out
	}
	h := (region.Height - gap*float64(n-1)) / float64(n)
	for i, it := range items {
		out = append(out, Tile{ID: it.ID, Rect: Rect{
			X:      region.X,
			Y:      region.Y + float64(i)*(h+gap),
			Width:  region.Width,
			Height: h,
		}})
	}
	return out
}

// aspectWithin reports whether a rect's aspect ratio is within tol of want.
func aspectWithin(r Rect, want, tol float64) bool {
	if r.Height == 0 {
		return false
	}
	return math.Abs(r.Width/r.Height-want) <= tol
}
