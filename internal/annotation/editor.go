// Package annotation implements the page annotation editor: viewer
// navigation, the free-hand ink layer, text-box placement and the mapping
// from viewport pixels to page space.
package annotation

import (
	"fmt"
	"image"

	"paperless-annotator/internal/domain"
)

// Editor owns the state of one annotation session. It is not safe for
// concurrent use; callers serialize events.
type Editor struct {
	viewer   Viewer
	mode     Mode
	ink      *InkLayer
	boxes    *TextBoxLayer
	rendered bool
}

// Snapshot is the overlay state consumed by an export.
type Snapshot struct {
	Page           int
	ViewportWidth  float64
	ViewportHeight float64
	TextBoxes      []domain.TextBox
	// Ink is nil when the ink layer is blank.
	Ink image.Image
}

// NewEditor creates an editor drawing ink onto surface.
func NewEditor(surface domain.RasterSurface, newID func() string) *Editor {
	return &Editor{
		viewer: NewViewer(),
		mode:   IdleMode(),
		ink:    NewInkLayer(surface),
		boxes:  NewTextBoxLayer(newID),
	}
}

// SetPageCount records the page count reported by the rendering collaborator.
func (e *Editor) SetPageCount(n int) {
	e.changePage(e.viewer.WithPageCount(n))
}

// Next moves to the following page. It reports whether the page changed.
func (e *Editor) Next() bool {
	return e.changePage(e.viewer.Next())
}

// Prev moves to the preceding page. It reports whether the page changed.
func (e *Editor) Prev() bool {
	return e.changePage(e.viewer.Prev())
}

// GoTo jumps to a 1-based page index.
func (e *Editor) GoTo(index int) (bool, error) {
	v, err := e.viewer.GoTo(index)
	if err != nil {
		return false, err
	}
	return e.changePage(v), nil
}

// ZoomIn raises the scale. It reports whether a re-render is needed.
func (e *Editor) ZoomIn() bool {
	return e.changeScale(e.viewer.ZoomIn())
}

// ZoomOut lowers the scale. It reports whether a re-render is needed.
func (e *Editor) ZoomOut() bool {
	return e.changeScale(e.viewer.ZoomOut())
}

// ApplyRender resynchronizes the overlay with a completed page render.
func (e *Editor) ApplyRender(w, h float64) {
	e.viewer = e.viewer.WithViewport(w, h)
	e.ink.Fit(w, h)
	e.rendered = true
}

// Restore reinstalls a previous viewer after a failed render. Overlays are
// left as they are.
func (e *Editor) Restore(v Viewer, rendered bool) {
	e.viewer = v
	e.rendered = rendered
}

// Rendered reports whether the current page and scale have been rendered.
func (e *Editor) Rendered() bool { return e.rendered }

// Viewer returns the viewer state.
func (e *Editor) Viewer() Viewer { return e.viewer }

// Mode returns the active mode.
func (e *Editor) Mode() Mode { return e.mode }

// ToggleDrawing activates or deactivates drawing; text-box mode is left.
func (e *Editor) ToggleDrawing() {
	e.ink.EndStroke()
	e.mode = e.mode.ToggleDrawing()
}

// ToggleTextBox activates or deactivates text-box placement; drawing is left.
func (e *Editor) ToggleTextBox() {
	e.ink.EndStroke()
	e.mode = e.mode.ToggleTextBox()
}

// BeginStroke starts an ink stroke when drawing is active.
func (e *Editor) BeginStroke(x, y float64) {
	if e.mode.Drawing() {
		e.ink.BeginStroke(x, y)
	}
}

// ExtendStroke extends the current stroke when drawing is active.
func (e *Editor) ExtendStroke(x, y float64) {
	if e.mode.Drawing() {
		e.ink.ExtendStroke(x, y)
	}
}

// EndStroke finishes the current stroke.
func (e *Editor) EndStroke() {
	if e.mode.Drawing() {
		e.ink.EndStroke()
	}
}

// Stroke replays a complete pointer stroke.
func (e *Editor) Stroke(points []domain.Point) {
	if !e.mode.Drawing() || len(points) == 0 {
		return
	}
	e.BeginStroke(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		e.ExtendStroke(p.X, p.Y)
	}
	e.EndStroke()
}

// ClearInk wipes the ink layer.
func (e *Editor) ClearInk() { e.ink.Clear() }

// InkPNG encodes the ink layer.
func (e *Editor) InkPNG() ([]byte, error) { return e.ink.PNG() }

// Click feeds a click into text-box placement. The first click records a
// corner; the second one creates a box when it is large enough. created is
// false for ignored and sub-threshold clicks.
func (e *Editor) Click(x, y float64) (box domain.TextBox, created bool) {
	if !e.mode.PlacingTextBox() {
		return domain.TextBox{}, false
	}
	p := domain.Point{X: x, Y: y}
	first, awaiting := e.mode.Corner()
	if !awaiting {
		e.mode = e.mode.WithCorner(p)
		return domain.TextBox{}, false
	}
	e.mode = e.mode.WithoutCorner()
	return e.boxes.Place(first, p)
}

// SelectBox makes a box the one being edited.
func (e *Editor) SelectBox(id string) error { return e.boxes.Select(id) }

// SetText updates the content of a box.
func (e *Editor) SetText(id, text string) error { return e.boxes.SetText(id, text) }

// ClearTextBoxes removes all text boxes.
func (e *Editor) ClearTextBoxes() { e.boxes.ClearAll() }

// TextBoxes returns the text boxes in z-order.
func (e *Editor) TextBoxes() []domain.TextBox { return e.boxes.Boxes() }

// State returns a serializable snapshot of the editor.
func (e *Editor) State() domain.EditorState {
	s := domain.EditorState{
		Viewer:    e.viewer.State(),
		Mode:      e.mode.Kind(),
		TextBoxes: e.boxes.Boxes(),
		InkBlank:  e.ink.IsBlank(),
		Rendered:  e.rendered,
	}
	_, s.AwaitingCorner = e.mode.Corner()
	if id, ok := e.boxes.Active(); ok {
		s.ActiveTextBoxID = &id
	}
	return s
}

// Snapshot copies the overlay for export. It fails until the current page
// has been rendered, since the viewport dims are needed for the transform.
func (e *Editor) Snapshot() (Snapshot, error) {
	if !e.rendered {
		return Snapshot{}, fmt.Errorf("page %d: %w", e.viewer.Page(), domain.ErrNotRendered)
	}
	w, h := e.viewer.Viewport()
	s := Snapshot{
		Page:           e.viewer.Page(),
		ViewportWidth:  w,
		ViewportHeight: h,
		TextBoxes:      e.boxes.Boxes(),
	}
	if !e.ink.IsBlank() {
		s.Ink = e.ink.Image()
	}
	return s, nil
}

// changePage installs v and resets per-page overlays when the page index
// changed. Overlays are not preserved across pages.
func (e *Editor) changePage(v Viewer) bool {
	changed := v.Page() != e.viewer.Page()
	e.viewer = v
	if changed {
		e.ink.Clear()
		e.boxes.ClearAll()
		e.mode = e.mode.WithoutCorner()
		e.rendered = false
	}
	return changed
}

func (e *Editor) changeScale(v Viewer) bool {
	changed := v.Scale() != e.viewer.Scale()
	e.viewer = v
	if changed {
		e.rendered = false
	}
	return changed
}
