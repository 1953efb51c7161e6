package domain

import "time"

// Session is an open annotation session over one document.
type Session struct {
	ID         string      `json:"id"`
	DocumentID string      `json:"document_id,omitempty"`
	Location   string      `json:"document_url"`
	State      EditorState `json:"state"`
	Processing bool        `json:"processing"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OpenSessionRequest identifies the document to annotate. DocumentID takes
// precedence over DocumentURL.
type OpenSessionRequest struct {
	DocumentID  string `json:"document_id"`
	DocumentURL string `json:"document_url"`
}

// NavigateAction names a page navigation request.
type NavigateAction string

const (
	NavigateNext NavigateAction = "next"
	NavigatePrev NavigateAction = "prev"
	NavigateGoTo NavigateAction = "goto"
)

// ZoomAction names a zoom request.
type ZoomAction string

const (
	ZoomIn  ZoomAction = "in"
	ZoomOut ZoomAction = "out"
)
