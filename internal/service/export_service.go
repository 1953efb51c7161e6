package service

import (
	"context"
	"fmt"
	"strings"

	"paperless-annotator/internal/annotation"
	"paperless-annotator/internal/domain"
)

// ExportService burns a session's overlay into a copy of its document.
type ExportService struct {
	sessions *SessionService
	source   domain.DocumentSource
	mutator  domain.DocumentMutator
	opacity  float64
	logger   domain.Logger
}

// NewExportService creates an exporter. Ink is composited at the given
// opacity.
func NewExportService(
	sessions *SessionService,
	source domain.DocumentSource,
	mutator domain.DocumentMutator,
	opacity float64,
	logger domain.Logger,
) *ExportService {
	return &ExportService{
		sessions: sessions,
		source:   source,
		mutator:  mutator,
		opacity:  opacity,
		logger:   logger,
	}
}

// ExportFilename names the artifact of a single-page export.
func ExportFilename(page int) string {
	return fmt.Sprintf("annotated-document-page-%d.pdf", page)
}

// Export writes the annotated current page of a session to dl. At most one
// export per session runs at a time; nothing is delivered on failure.
func (s *ExportService) Export(ctx context.Context, sessionID string, dl domain.Downloader) error {
	entry, err := s.sessions.lookup(sessionID)
	if err != nil {
		return err
	}
	if !entry.processing.CompareAndSwap(false, true) {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrExportInProgress)
	}
	defer entry.processing.Store(false)

	if err := entry.lock(); err != nil {
		return err
	}
	snap, err := entry.editor.Snapshot()
	location := entry.location
	entry.mu.Unlock()
	if err != nil {
		return err
	}

	out, err := s.annotate(ctx, location, snap)
	if err != nil {
		s.logger.Error("Export failed", err, "session_id", sessionID, "page", snap.Page)
		return err
	}

	if err := dl.Deliver(ctx, out.Filename, out.Data); err != nil {
		s.logger.Error("Failed to deliver export", err, "session_id", sessionID, "filename", out.Filename)
		return err
	}

	s.logger.Info("Page exported", "session_id", sessionID, "page", snap.Page,
		"text_boxes", len(snap.TextBoxes), "ink", snap.Ink != nil, "bytes", len(out.Data))
	return nil
}

func (s *ExportService) annotate(ctx context.Context, location string, snap annotation.Snapshot) (domain.AnnotatedExport, error) {
	data, err := s.source.Fetch(ctx, location)
	if err != nil {
		return domain.AnnotatedExport{}, fmt.Errorf("%w: %w", domain.ErrExportLoad, err)
	}

	doc, err := s.mutator.Load(ctx, data)
	if err != nil {
		return domain.AnnotatedExport{}, fmt.Errorf("%w: %w", domain.ErrExportLoad, err)
	}

	page, err := doc.Page(snap.Page - 1)
	if err != nil {
		return domain.AnnotatedExport{}, err
	}

	pageW, pageH := page.Size()
	t, err := annotation.NewPageTransform(snap.ViewportWidth, snap.ViewportHeight, pageW, pageH)
	if err != nil {
		return domain.AnnotatedExport{}, err
	}

	for _, box := range snap.TextBoxes {
		if strings.TrimSpace(box.Text) == "" {
			continue
		}
		x, y := t.TextOrigin(box)
		if err := page.DrawText(box.Text, x, y, domain.ExportFontSize); err != nil {
			return domain.AnnotatedExport{}, fmt.Errorf("%w: text box %s: %w", domain.ErrSerialization, box.ID, err)
		}
	}

	if snap.Ink != nil {
		if err := page.DrawImage(snap.Ink, 0, 0, pageW, pageH, s.opacity); err != nil {
			return domain.AnnotatedExport{}, fmt.Errorf("%w: ink: %w", domain.ErrSerialization, err)
		}
	}

	out, err := doc.Save(ctx)
	if err != nil {
		return domain.AnnotatedExport{}, fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}

	return domain.AnnotatedExport{Filename: ExportFilename(snap.Page), Data: out}, nil
}
