package domain

// Zoom bounds expressed in tenths so that stepping never drifts.
const (
	MinScaleTenths     = 5
	MaxScaleTenths     = 20
	DefaultScaleTenths = 10
)

// MinTextBoxSize is the exclusive lower bound, in viewer pixels, for both
// dimensions of a new text box.
const MinTextBoxSize = 20.0

// ExportFontSize is the point size of exported text boxes.
const ExportFontSize = 12.0

// Point is a position in viewport-pixel coordinates (origin top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewerState is the navigation and zoom state of the viewer.
type ViewerState struct {
	CurrentPage    int     `json:"current_page"`
	PageCount      int     `json:"page_count"`
	Scale          float64 `json:"scale"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

// TextBox is a user-placed rectangle of editable text in viewer-pixel space.
type TextBox struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Text      string  `json:"text"`
	IsEditing bool    `json:"is_editing"`
}

// ModeKind names the active editor mode.
type ModeKind string

const (
	ModeIdle           ModeKind = "idle"
	ModeDrawing        ModeKind = "drawing"
	ModePlacingTextBox ModeKind = "placing_text_box"
)

// EditorState is a read-only snapshot of an annotation editor.
type EditorState struct {
	Viewer          ViewerState `json:"viewer"`
	Mode            ModeKind    `json:"mode"`
	AwaitingCorner  bool        `json:"awaiting_second_corner"`
	TextBoxes       []TextBox   `json:"text_boxes"`
	ActiveTextBoxID *string     `json:"active_text_box_id"`
	InkBlank        bool        `json:"ink_blank"`
	Rendered        bool        `json:"rendered"`
}

// AnnotatedExport is the output artifact of an export.
type AnnotatedExport struct {
	Filename string
	Data     []byte
}
