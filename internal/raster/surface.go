// Package raster implements the pixel surface behind the free-hand ink layer.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// capSegments is the number of edges used to approximate a round pen tip.
const capSegments = 16

// Surface is an RGBA raster that records pen strokes. The zero value is not
// usable; call NewSurface.
type Surface struct {
	img         *image.RGBA
	strokeWidth float64
	src         *image.Uniform

	penDown bool
	lastX   float64
	lastY   float64
}

// NewSurface returns a blank surface of the given size. Stroke width is in
// pixels; a non-positive width falls back to 1.
func NewSurface(width, height int, strokeWidth float64, c color.Color) *Surface {
	if strokeWidth <= 0 {
		strokeWidth = 1
	}
	if c == nil {
		c = color.Black
	}
	return &Surface{
		img:         newRGBA(width, height),
		strokeWidth: strokeWidth,
		src:         image.NewUniform(c),
	}
}

func newRGBA(width, height int) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// StrokeFrom lifts the pen and places it at (x, y).
func (s *Surface) StrokeFrom(x, y float64) {
	s.penDown = true
	s.lastX, s.lastY = x, y
}

// StrokeTo draws a segment from the pen position to (x, y). Without a prior
// StrokeFrom it only places the pen.
func (s *Surface) StrokeTo(x, y float64) {
	if !s.penDown {
		s.StrokeFrom(x, y)
		return
	}
	s.segment(s.lastX, s.lastY, x, y)
	s.lastX, s.lastY = x, y
}

// Clear wipes the raster to fully transparent and lifts the pen.
func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.penDown = false
}

// Resize reallocates the raster. The new surface is blank.
func (s *Surface) Resize(width, height int) {
	s.img = newRGBA(width, height)
	s.penDown = false
}

// Bounds returns the raster bounds.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// IsBlank reports whether every channel of every pixel is zero.
func (s *Surface) IsBlank() bool {
	for _, b := range s.img.Pix {
		if b != 0 {
			return false
		}
	}
	return true
}

// Image returns a copy of the raster.
func (s *Surface) Image() image.Image {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// ImageBytes encodes the raster as PNG.
func (s *Surface) ImageBytes() ([]byte, error) {
	return EncodePNG(s.img)
}

func (s *Surface) segment(x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	b := s.img.Bounds()
	if b.Empty() {
		return
	}

	hw := s.strokeWidth / 2
	nx, ny := -dy/length*hw, dx/length*hw

	s.fill([][2]float64{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	})
	s.fill(circle(x0, y0, hw))
	s.fill(circle(x1, y1, hw))
}

// fill paints one closed polygon. Each polygon gets its own rasterizer pass
// so overlapping shapes never cancel each other's coverage. Vertices are
// passed unclamped; the rasterizer clips out-of-bounds edges itself.
func (s *Surface) fill(poly [][2]float64) {
	b := s.img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if maxX <= 0 || maxY <= 0 || minX >= w || minY >= h {
		return
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for i, p := range poly {
		x, y := float32(p[0]), float32(p[1])
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(s.img, b, s.src, image.Point{})
}

func circle(cx, cy, r float64) [][2]float64 {
	pts := make([][2]float64, capSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / capSegments
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}
