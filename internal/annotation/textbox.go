package annotation

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"paperless-annotator/internal/domain"
)

// TextBoxLayer is the ordered collection of text boxes on the current page.
// Insertion order is z-order.
type TextBoxLayer struct {
	boxes  []domain.TextBox
	active string
	newID  func() string
}

// NewTextBoxLayer returns an empty layer. A nil id generator defaults to
// random UUIDs.
func NewTextBoxLayer(newID func() string) *TextBoxLayer {
	if newID == nil {
		newID = uuid.NewString
	}
	return &TextBoxLayer{newID: newID}
}

// RectFromCorners returns the axis-aligned rectangle spanned by two points.
func RectFromCorners(a, b domain.Point) (x, y, w, h float64) {
	return math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Abs(a.X - b.X), math.Abs(a.Y - b.Y)
}

// Place creates a box between two corners. Rectangles that are not larger
// than MinTextBoxSize in both dimensions are discarded and ok is false.
func (l *TextBoxLayer) Place(a, b domain.Point) (box domain.TextBox, ok bool) {
	x, y, w, h := RectFromCorners(a, b)
	if w <= domain.MinTextBoxSize || h <= domain.MinTextBoxSize {
		return domain.TextBox{}, false
	}
	box = domain.TextBox{ID: l.newID(), X: x, Y: y, Width: w, Height: h}
	l.boxes = append(l.boxes, box)
	l.activate(box.ID)
	return l.boxes[len(l.boxes)-1], true
}

// Select makes id the only box being edited.
func (l *TextBoxLayer) Select(id string) error {
	if l.index(id) < 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrTextBoxNotFound)
	}
	l.activate(id)
	return nil
}

// SetText replaces the content of a box. Any text, including empty, is accepted.
func (l *TextBoxLayer) SetText(id, text string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrTextBoxNotFound)
	}
	l.boxes[i].Text = text
	return nil
}

// ClearAll removes every box and the selection.
func (l *TextBoxLayer) ClearAll() {
	l.boxes = nil
	l.active = ""
}

// Boxes returns a copy of the collection in z-order.
func (l *TextBoxLayer) Boxes() []domain.TextBox {
	out := make([]domain.TextBox, len(l.boxes))
	copy(out, l.boxes)
	return out
}

// Active returns the id of the box being edited.
func (l *TextBoxLayer) Active() (string, bool) {
	return l.active, l.active != ""
}

func (l *TextBoxLayer) activate(id string) {
	for i := range l.boxes {
		l.boxes[i].IsEditing = l.boxes[i].ID == id
	}
	l.active = id
}

func (l *TextBoxLayer) index(id string) int {
	for i, b := range l.boxes {
		if b.ID == id {
			return i
		}
	}
	return -1
}
