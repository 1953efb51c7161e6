package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"paperless-annotator/internal/domain"
)

func TestSessionHandler_Routes(t *testing.T) {
	tests := []struct {
		method, path, body string
		wantCall           string
		wantArgs           []interface{}
		wantStatus         int
	}{
		{http.MethodPost, "/api/v1/sessions", `{"document_id":"doc1"}`, "Open",
			[]interface{}{domain.OpenSessionRequest{DocumentID: "doc1"}}, http.StatusCreated},
		{http.MethodGet, "/api/v1/sessions/abc", "", "Get", []interface{}{"abc"}, http.StatusOK},
		{http.MethodDelete, "/api/v1/sessions/abc", "", "Close", []interface{}{"abc"}, http.StatusNoContent},
		{http.MethodPost, "/api/v1/sessions/abc/navigate", `{"action":"goto","page":3}`, "Navigate",
			[]interface{}{"abc", domain.NavigateGoTo, 3}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/zoom", `{"action":"in"}`, "Zoom",
			[]interface{}{"abc", domain.ZoomIn}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/mode/drawing", "", "ToggleDrawing", []interface{}{"abc"}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/mode/textbox", "", "ToggleTextBox", []interface{}{"abc"}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/strokes", `{"points":[{"x":1,"y":2},{"x":3,"y":4}]}`, "Stroke",
			[]interface{}{"abc", 2}, http.StatusOK},
		{http.MethodDelete, "/api/v1/sessions/abc/ink", "", "ClearInk", []interface{}{"abc"}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/clicks", `{"x":10,"y":20}`, "Click",
			[]interface{}{"abc", domain.Point{X: 10, Y: 20}}, http.StatusOK},
		{http.MethodPost, "/api/v1/sessions/abc/textboxes/b1/select", "", "SelectTextBox",
			[]interface{}{"abc", "b1"}, http.StatusOK},
		{http.MethodPut, "/api/v1/sessions/abc/textboxes/b1", `{"text":"hi"}`, "SetText",
			[]interface{}{"abc", "b1", "hi"}, http.StatusOK},
		{http.MethodDelete, "/api/v1/sessions/abc/textboxes", "", "ClearTextBoxes", []interface{}{"abc"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			ts := newTestServer(nil)
			rr := ts.do(tt.method, tt.path, tt.body)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if ts.sessions.lastCall != tt.wantCall {
				t.Fatalf("expected call %s, got %s", tt.wantCall, ts.sessions.lastCall)
			}
			if diff := cmp.Diff(tt.wantArgs, ts.sessions.lastArgs); diff != "" {
				t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSessionHandler_StateBody(t *testing.T) {
	ts := newTestServer(nil)

	rr := ts.do(http.MethodGet, "/api/v1/sessions/abc", "")
	var s domain.Session
	if err := json.Unmarshal(rr.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.ID != "s1" || s.State.Mode != domain.ModeIdle {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestSessionHandler_Images(t *testing.T) {
	ts := newTestServer(nil)

	for _, path := range []string{
		"/api/v1/sessions/abc/page.png",
		"/api/v1/sessions/abc/pages/2/thumbnail.png",
		"/api/v1/sessions/abc/ink.png",
	} {
		rr := ts.do(http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusOK, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
			t.Fatalf("%s: expected image/png, got %s", path, ct)
		}
	}
	if diff := cmp.Diff([]interface{}{"abc"}, ts.sessions.lastArgs); diff != "" {
		t.Fatalf("arguments mismatch (-want +got):\n%s", diff)
	}

	if rr := ts.do(http.MethodGet, "/api/v1/sessions/abc/pages/x/thumbnail.png", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected non-numeric page to miss the route, got %d", rr.Code)
	}
}

func TestSessionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{domain.ErrTextBoxNotFound, http.StatusNotFound},
		{domain.ErrPageIndex, http.StatusBadRequest},
		{fmt.Errorf("%w: %w", domain.ErrDocumentLoad, domain.ErrUnsupportedSource), http.StatusBadRequest},
		{fmt.Errorf("%w: bad xref", domain.ErrDocumentLoad), http.StatusUnprocessableEntity},
		{domain.ErrNotRendered, http.StatusConflict},
		{&domain.ValidationError{Field: "action", Message: "unknown"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		ts := newTestServer(nil)
		ts.sessions.err = tt.err
		rr := ts.do(http.MethodPost, "/api/v1/sessions/abc/navigate", `{"action":"next"}`)
		if rr.Code != tt.want {
			t.Fatalf("%v: expected status %d, got %d", tt.err, tt.want, rr.Code)
		}
	}
}

func TestSessionHandler_MalformedBody(t *testing.T) {
	ts := newTestServer(nil)

	rr := ts.do(http.MethodPost, "/api/v1/sessions", `{"document_id":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if ts.sessions.lastCall != "" {
		t.Fatalf("expected service not to be called, got %s", ts.sessions.lastCall)
	}
}
