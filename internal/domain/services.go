package domain

import "context"

// SessionService drives annotation sessions.
type SessionService interface {
	Open(ctx context.Context, req OpenSessionRequest) (*Session, error)
	Get(id string) (*Session, error)
	Close(id string) error

	PageImage(id string) ([]byte, error)
	Thumbnail(id string, page int) ([]byte, error)
	InkImage(id string) ([]byte, error)

	Navigate(id string, action NavigateAction, page int) (*Session, error)
	Zoom(id string, action ZoomAction) (*Session, error)
	ToggleDrawing(id string) (*Session, error)
	ToggleTextBox(id string) (*Session, error)

	Stroke(id string, points []Point) (*Session, error)
	ClearInk(id string) (*Session, error)
	Click(id string, at Point) (*Session, error)
	SelectTextBox(id, boxID string) (*Session, error)
	SetText(id, boxID, text string) (*Session, error)
	ClearTextBoxes(id string) (*Session, error)
}

// ExportService writes the annotated current page of a session.
type ExportService interface {
	Export(ctx context.Context, sessionID string, dl Downloader) error
}

// CatalogService manages organizations and their documents.
type CatalogService interface {
	ListOrganizations() ([]*Organization, error)
	GetOrganization(id string) (*Organization, error)
	ListDocuments(orgID string, filter StatusFilter) ([]*Document, error)
	CreateDocument(role Role, orgID string, form DocumentFormData) (*Document, error)
	UpdateDocument(role Role, id string, form DocumentFormData) (*Document, error)
	DeleteDocument(role Role, id string) error
	// ResolveLocation returns where the bytes of a document live.
	ResolveLocation(documentID string) (string, error)
}
