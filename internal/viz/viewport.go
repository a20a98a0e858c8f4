package viz

import (
	"math"

	"github.com/san-kum/particlelife/internal/life"
)

// Viewport is the world rectangle shown on screen.
type Viewport struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// UnitViewport shows the square where particles are born.
func UnitViewport() Viewport {
	return Viewport{MaxX: 1, MaxY: 1}
}

// FitViewport returns the smallest square containing every finite particle
// position, grown by pad on each side. An empty snapshot gets the unit square.
func FitViewport(snap life.Snapshot, pad float64) Viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range snap {
		if math.IsNaN(p.X+p.Y) || math.IsInf(p.X+p.Y, 0) {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if minX > maxX {
		return UnitViewport()
	}

	side := math.Max(math.Max(maxX-minX, maxY-minY), 1e-9)
	side *= 1 + 2*pad
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return Viewport{
		MinX: cx - side/2, MinY: cy - side/2,
		MaxX: cx + side/2, MaxY: cy + side/2,
	}
}

// Project maps a world point to a dot on a w x h dot grid, preserving the
// aspect ratio and centering the viewport. ok is false outside the viewport.
func (v Viewport) Project(x, y float64, w, h int) (px, py int, ok bool) {
	fx, fy, ok := v.toDots(x, y, w, h)
	if !ok || !(fx >= 0 && fx < float64(w) && fy >= 0 && fy < float64(h)) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

func (v Viewport) toDots(x, y float64, w, h int) (fx, fy float64, ok bool) {
	vw, vh := v.MaxX-v.MinX, v.MaxY-v.MinY
	if vw <= 0 || vh <= 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	scale := math.Min(float64(w)/vw, float64(h)/vh)
	offX := (float64(w) - vw*scale) / 2
	offY := (float64(h) - vh*scale) / 2
	return offX + (x-v.MinX)*scale, offY + (y-v.MinY)*scale, true
}

// Outline draws the border of rect as seen through v in color class color.
// Edges off the canvas are clamped just outside it, where Set drops them.
func Outline(c *Canvas, rect, v Viewport, color int) {
	w, h := c.SubWidth(), c.SubHeight()
	x0, y0, ok := v.toDots(rect.MinX, rect.MinY, w, h)
	if !ok {
		return
	}
	x1, y1, _ := v.toDots(rect.MaxX, rect.MaxY, w, h)

	clamp := func(f float64, n int) int {
		return int(math.Max(-1, math.Min(float64(n), f)))
	}
	l, r := clamp(math.Floor(x0), w), clamp(math.Ceil(x1)-1, w)
	t, b := clamp(math.Floor(y0), h), clamp(math.Ceil(y1)-1, h)

	c.DrawLine(l, t, r, t, color)
	c.DrawLine(r, t, r, b, color)
	c.DrawLine(r, b, l, b, color)
	c.DrawLine(l, b, l, t, color)
}

// Plot draws every particle visible in v as one dot of its color class.
func Plot(c *Canvas, snap life.Snapshot, v Viewport) {
	w, h := c.SubWidth(), c.SubHeight()
	for _, p := range snap {
		if x, y, ok := v.Project(p.X, p.Y, w, h); ok {
			c.Set(x, y, p.Color)
		}
	}
}
