package annotation

import (
	"image"
	"math"

	"paperless-annotator/internal/domain"
)

// InkLayer captures free-hand strokes onto a raster aligned with the viewport.
type InkLayer struct {
	surface  domain.RasterSurface
	stroking bool
}

// NewInkLayer wraps a raster surface.
func NewInkLayer(surface domain.RasterSurface) *InkLayer {
	return &InkLayer{surface: surface}
}

// BeginStroke puts the pen down at (x, y).
func (l *InkLayer) BeginStroke(x, y float64) {
	l.surface.StrokeFrom(x, y)
	l.stroking = true
}

// ExtendStroke continues the current stroke. It does nothing when no stroke
// is in progress.
func (l *InkLayer) ExtendStroke(x, y float64) {
	if !l.stroking {
		return
	}
	l.surface.StrokeTo(x, y)
}

// EndStroke lifts the pen.
func (l *InkLayer) EndStroke() {
	l.stroking = false
}

// Clear wipes the raster.
func (l *InkLayer) Clear() {
	l.surface.Clear()
	l.stroking = false
}

// IsBlank reports whether nothing has been drawn.
func (l *InkLayer) IsBlank() bool {
	return l.surface.IsBlank()
}

// Fit resizes the raster to the given viewport. A size change blanks it.
func (l *InkLayer) Fit(w, h float64) {
	pw, ph := int(math.Round(w)), int(math.Round(h))
	b := l.surface.Bounds()
	if b.Dx() == pw && b.Dy() == ph {
		return
	}
	l.surface.Resize(pw, ph)
	l.stroking = false
}

// Image returns a copy of the raster.
func (l *InkLayer) Image() image.Image {
	return l.surface.Image()
}

// PNG encodes the raster.
func (l *InkLayer) PNG() ([]byte, error) {
	return l.surface.ImageBytes()
}
