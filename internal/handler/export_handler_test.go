package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"paperless-annotator/internal/domain"
)

func TestExportHandler_Attachment(t *testing.T) {
	ts := newTestServer(nil)

	rr := ts.do(http.MethodPost, "/api/v1/sessions/abc/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="annotated-document-page-2.pdf"` {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if rr.Body.String() != "%PDF-1.7" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestExportHandler_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("session abc: %w", domain.ErrExportInProgress), http.StatusConflict},
		{fmt.Errorf("%w: timeout", domain.ErrExportLoad), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: write", domain.ErrSerialization), http.StatusInternalServerError},
		{domain.ErrSessionNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		ts := newTestServer(nil)
		ts.exporter.err = tt.err
		rr := ts.do(http.MethodPost, "/api/v1/sessions/abc/export", "")
		if rr.Code != tt.want {
			t.Fatalf("%v: expected status %d, got %d", tt.err, tt.want, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%v: expected JSON error body, got %s", tt.err, ct)
		}
	}
}

type recordingDownloader struct {
	next     domain.Downloader
	filename string
}

func (d *recordingDownloader) Deliver(ctx context.Context, filename string, data []byte) error {
	d.filename = filename
	return d.next.Deliver(ctx, filename, data)
}

func TestExportHandler_Wrap(t *testing.T) {
	rec := &recordingDownloader{}
	var gotSession string
	ts := newTestServer(func(next domain.Downloader, sessionID string) domain.Downloader {
		gotSession = sessionID
		rec.next = next
		return rec
	})

	rr := ts.do(http.MethodPost, "/api/v1/sessions/abc/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if gotSession != "abc" || rec.filename != "annotated-document-page-2.pdf" {
		t.Fatalf("expected wrapper to see the export, got session %q file %q", gotSession, rec.filename)
	}
}
