package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"paperless-annotator/internal/domain"
	apperrors "paperless-annotator/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type contextKey string

const roleContextKey contextKey = "role"

// GetRoleFromContext returns the caller role stored by RoleMiddleware.
func GetRoleFromContext(r *http.Request) domain.Role {
	role, ok := r.Context().Value(roleContextKey).(domain.Role)
	if !ok {
		return domain.RoleStudent
	}
	return role
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("Invalid request body", err.Error())
	}
	return nil
}

// toAppError maps domain errors onto HTTP-aware application errors.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperrors.NewValidationError(verr.Error())
	case errors.Is(err, domain.ErrUnsupportedSource),
		errors.Is(err, domain.ErrPageIndex):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrTextBoxNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrOrgNotFound):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return apperrors.NewForbiddenError(err.Error())
	case errors.Is(err, domain.ErrExportInProgress),
		errors.Is(err, domain.ErrNotRendered):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, domain.ErrDocumentLoad),
		errors.Is(err, domain.ErrExportLoad):
		return apperrors.NewProcessingError(err.Error(), err)
	case errors.Is(err, domain.ErrSerialization):
		return apperrors.NewInternalError(err.Error(), err)
	}
	return apperrors.NewInternalError("Internal server error", err)
}

// writeAppError writes err with its mapped status. Server-side failures are
// logged.
func writeAppError(w http.ResponseWriter, logger domain.Logger, msg string, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		logger.Error(msg, err)
	} else {
		logger.Debug(msg, "error", err.Error(), "status", appErr.StatusCode)
	}
	message := appErr.Message
	if appErr.Details != "" {
		message += ": " + appErr.Details
	}
	writeError(w, appErr.StatusCode, message)
}
