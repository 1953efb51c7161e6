package annotation

import "paperless-annotator/internal/domain"

// Mode is the editor's single active input mode. Drawing and text-box
// placement can never be active together because they share one tag.
type Mode struct {
	kind     domain.ModeKind
	awaiting bool
	corner   domain.Point
}

// IdleMode returns the mode with no tool active.
func IdleMode() Mode { return Mode{kind: domain.ModeIdle} }

// ToggleDrawing switches drawing on, or back to idle when already drawing.
// Any pending text-box corner is discarded.
func (m Mode) ToggleDrawing() Mode {
	if m.kind == domain.ModeDrawing {
		return IdleMode()
	}
	return Mode{kind: domain.ModeDrawing}
}

// ToggleTextBox switches text-box placement on, or back to idle when already
// placing. Either way the pending first corner is discarded.
func (m Mode) ToggleTextBox() Mode {
	if m.kind == domain.ModePlacingTextBox {
		return IdleMode()
	}
	return Mode{kind: domain.ModePlacingTextBox}
}

// WithCorner records the first corner of a text box.
func (m Mode) WithCorner(p domain.Point) Mode {
	if m.kind != domain.ModePlacingTextBox {
		return m
	}
	return Mode{kind: m.kind, awaiting: true, corner: p}
}

// WithoutCorner returns to the idle placement state.
func (m Mode) WithoutCorner() Mode {
	if m.kind != domain.ModePlacingTextBox {
		return m
	}
	return Mode{kind: m.kind}
}

// Kind returns the mode tag.
func (m Mode) Kind() domain.ModeKind {
	if m.kind == "" {
		return domain.ModeIdle
	}
	return m.kind
}

// Drawing reports whether free-hand drawing is active.
func (m Mode) Drawing() bool { return m.kind == domain.ModeDrawing }

// PlacingTextBox reports whether text-box placement is active.
func (m Mode) PlacingTextBox() bool { return m.kind == domain.ModePlacingTextBox }

// Corner returns the pending first corner, if any.
func (m Mode) Corner() (domain.Point, bool) {
	return m.corner, m.awaiting
}
