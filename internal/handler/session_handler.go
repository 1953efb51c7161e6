package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"paperless-annotator/internal/domain"
	apperrors "paperless-annotator/pkg/errors"
)

// SessionHandler drives annotation sessions.
type SessionHandler struct {
	sessions domain.SessionService
	logger   domain.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions domain.SessionService, logger domain.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type navigateRequest struct {
	Action domain.NavigateAction `json:"action"`
	Page   int                   `json:"page"`
}

type zoomRequest struct {
	Action domain.ZoomAction `json:"action"`
}

type strokeRequest struct {
	Points []domain.Point `json:"points"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, "Invalid session payload", err)
		return
	}

	session, err := h.sessions.Open(r.Context(), req)
	if err != nil {
		writeAppError(w, h.logger, "Failed to open session", err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to get session")(h.sessions.Get(sessionID(r)))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(sessionID(r)); err != nil {
		writeAppError(w, h.logger, "Failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) PageImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.sessions.PageImage(sessionID(r))
	if err != nil {
		writeAppError(w, h.logger, "Failed to get page image", err)
		return
	}
	writePNG(w, data)
}

func (h *SessionHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		writeAppError(w, h.logger, "Invalid page", apperrors.NewValidationError("Invalid page number", err.Error()))
		return
	}

	data, err := h.sessions.Thumbnail(sessionID(r), page)
	if err != nil {
		writeAppError(w, h.logger, "Failed to render thumbnail", err)
		return
	}
	writePNG(w, data)
}

func (h *SessionHandler) InkImage(w http.ResponseWriter, r *http.Request) {
	data, err := h.sessions.InkImage(sessionID(r))
	if err != nil {
		writeAppError(w, h.logger, "Failed to get ink image", err)
		return
	}
	writePNG(w, data)
}

func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, "Invalid navigation payload", err)
		return
	}
	h.respond(w, "Failed to navigate")(h.sessions.Navigate(sessionID(r), req.Action, req.Page))
}

func (h *SessionHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, "Invalid zoom payload", err)
		return
	}
	h.respond(w, "Failed to zoom")(h.sessions.Zoom(sessionID(r), req.Action))
}

func (h *SessionHandler) ToggleDrawing(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to toggle drawing")(h.sessions.ToggleDrawing(sessionID(r)))
}

func (h *SessionHandler) ToggleTextBox(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to toggle text box mode")(h.sessions.ToggleTextBox(sessionID(r)))
}

func (h *SessionHandler) Stroke(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, "Invalid stroke payload", err)
		return
	}
	h.respond(w, "Failed to apply stroke")(h.sessions.Stroke(sessionID(r), req.Points))
}

func (h *SessionHandler) ClearInk(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to clear ink")(h.sessions.ClearInk(sessionID(r)))
}

func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	var at domain.Point
	if err := decodeJSON(w, r, &at); err != nil {
		writeAppError(w, h.logger, "Invalid click payload", err)
		return
	}
	h.respond(w, "Failed to apply click")(h.sessions.Click(sessionID(r), at))
}

func (h *SessionHandler) SelectTextBox(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to select text box")(h.sessions.SelectTextBox(sessionID(r), mux.Vars(r)["boxId"]))
}

func (h *SessionHandler) SetText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, "Invalid text payload", err)
		return
	}
	h.respond(w, "Failed to set text")(h.sessions.SetText(sessionID(r), mux.Vars(r)["boxId"], req.Text))
}

func (h *SessionHandler) ClearTextBoxes(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "Failed to clear text boxes")(h.sessions.ClearTextBoxes(sessionID(r)))
}

// respond writes the session state returned by a service call.
func (h *SessionHandler) respond(w http.ResponseWriter, msg string) func(*domain.Session, error) {
	return func(session *domain.Session, err error) {
		if err != nil {
			writeAppError(w, h.logger, msg, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func sessionID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
