package domain

import "errors"

// Domain errors
var (
	ErrDocumentLoad      = errors.New("document could not be loaded")
	ErrExportLoad        = errors.New("document could not be loaded for export")
	ErrPageIndex         = errors.New("page index out of range")
	ErrSerialization     = errors.New("document could not be serialized")
	ErrExportInProgress  = errors.New("export already in progress")
	ErrNotRendered       = errors.New("page has not been rendered yet")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTextBoxNotFound   = errors.New("text box not found")
	ErrUnsupportedSource = errors.New("unsupported document location")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrOrgNotFound       = errors.New("organization not found")
	ErrForbidden         = errors.New("teacher role required")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
