package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"paperless-annotator/internal/domain"
)

// DownloaderWrapper decorates the attachment downloader of one export.
type DownloaderWrapper func(next domain.Downloader, sessionID string) domain.Downloader

// ExportHandler streams annotated pages back as PDF attachments.
type ExportHandler struct {
	exporter domain.ExportService
	wrap     DownloaderWrapper
	logger   domain.Logger
}

// NewExportHandler creates a new export handler. wrap may be nil.
func NewExportHandler(exporter domain.ExportService, wrap DownloaderWrapper, logger domain.Logger) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
		wrap:     wrap,
		logger:   logger,
	}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	attachment := &attachmentDownloader{w: w}
	var dl domain.Downloader = attachment
	if h.wrap != nil {
		dl = h.wrap(attachment, id)
	}

	if err := h.exporter.Export(r.Context(), id, dl); err != nil {
		if attachment.sent {
			// Headers are gone; the client sees a truncated body.
			h.logger.Error("Failed to write export", err, "session_id", id)
			return
		}
		writeAppError(w, h.logger, "Failed to export page", err)
	}
}

// attachmentDownloader delivers a file as the HTTP response body.
type attachmentDownloader struct {
	w    http.ResponseWriter
	sent bool
}

func (d *attachmentDownloader) Deliver(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := d.w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	d.w.WriteHeader(http.StatusOK)
	d.sent = true
	_, err := d.w.Write(data)
	return err
}
