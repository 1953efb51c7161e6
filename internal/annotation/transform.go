package annotation

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"paperless-annotator/internal/domain"
)

// PageTransform maps viewport-pixel coordinates (origin top-left) onto a
// page's native coordinate space (origin bottom-left).
type PageTransform struct {
	m matrix.Matrix
}

// NewPageTransform builds the transform for a page of pageW×pageH units
// rendered into a viewW×viewH pixel viewport.
func NewPageTransform(viewW, viewH, pageW, pageH float64) (PageTransform, error) {
	if viewW <= 0 || viewH <= 0 {
		return PageTransform{}, fmt.Errorf("viewport %gx%g: %w", viewW, viewH, domain.ErrNotRendered)
	}
	if pageW <= 0 || pageH <= 0 {
		return PageTransform{}, fmt.Errorf("invalid page size %gx%g", pageW, pageH)
	}
	sx := pageW / viewW
	sy := pageH / viewH
	// Scale with a vertical flip, then move the origin to the page bottom.
	m := matrix.Scale(sx, -sy).Mul(matrix.Translate(0, pageH))
	return PageTransform{m: m}, nil
}

// Point maps a single viewport point.
func (t PageTransform) Point(x, y float64) (float64, float64) {
	m := t.m
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TextOrigin returns the page-space anchor of a text box. Text is drawn from
// its baseline, so the anchor is the box's bottom-left corner.
func (t PageTransform) TextOrigin(box domain.TextBox) (float64, float64) {
	return t.Point(box.X, box.Y+box.Height)
}
