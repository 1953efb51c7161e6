package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"paperless-annotator/internal/domain"
)

func TestExportService_Export(t *testing.T) {
	f := newFixture(2)
	s, _ := f.open()

	// Viewport is 600x800 for a 300x400 page.
	f.sessions.ToggleTextBox(s.ID)
	f.sessions.Click(s.ID, domain.Point{X: 100, Y: 200})
	s, _ = f.sessions.Click(s.ID, domain.Point{X: 150, Y: 240})
	f.sessions.SetText(s.ID, s.State.TextBoxes[0].ID, "Hello")

	f.sessions.Click(s.ID, domain.Point{X: 300, Y: 300})
	f.sessions.Click(s.ID, domain.Point{X: 400, Y: 400})

	f.sessions.ToggleDrawing(s.ID)
	f.sessions.Stroke(s.ID, []domain.Point{{X: 10, Y: 10}, {X: 50, Y: 50}})

	dl := &MockDownloader{}
	if err := f.exporter.Export(context.Background(), s.ID, dl); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if dl.calls != 1 || dl.filename != "annotated-document-page-1.pdf" || string(dl.data) != "%PDF-annotated" {
		t.Fatalf("unexpected delivery %d %q %q", dl.calls, dl.filename, dl.data)
	}

	page := f.mutator.pages[0]
	if len(page.texts) != 1 {
		t.Fatalf("expected only the non-empty box to be drawn, got %d", len(page.texts))
	}
	got := page.texts[0]
	if got.text != "Hello" || got.size != 12 {
		t.Fatalf("unexpected text draw %+v", got)
	}
	if math.Abs(got.x-50) > 1e-9 || math.Abs(got.y-280) > 1e-9 {
		t.Fatalf("expected text at (50,280), got (%v,%v)", got.x, got.y)
	}

	if len(page.images) != 1 {
		t.Fatalf("expected ink image, got %d", len(page.images))
	}
	img := page.images[0]
	if img.x != 0 || img.y != 0 || img.w != 300 || img.h != 400 || img.opacity != 0.8 {
		t.Fatalf("unexpected ink placement %+v", img)
	}
	if img.bounds.Dx() != 600 || img.bounds.Dy() != 800 {
		t.Fatalf("expected viewport-sized ink raster, got %v", img.bounds)
	}

	if got, _ := f.sessions.Get(s.ID); got.Processing {
		t.Fatalf("expected processing flag cleared")
	}
}

func TestExportService_BlankOverlay(t *testing.T) {
	f := newFixture(1)
	s, _ := f.open()

	dl := &MockDownloader{}
	if err := f.exporter.Export(context.Background(), s.ID, dl); err != nil {
		t.Fatalf("Export: %v", err)
	}
	page := f.mutator.pages[0]
	if len(page.texts) != 0 || len(page.images) != 0 {
		t.Fatalf("expected no drawing for blank overlay, got %d texts %d images", len(page.texts), len(page.images))
	}
	if dl.calls != 1 {
		t.Fatalf("expected delivery of the unchanged page")
	}
}

func TestExportService_UsesCurrentPage(t *testing.T) {
	f := newFixture(3)
	s, _ := f.open()
	f.sessions.Navigate(s.ID, domain.NavigateGoTo, 3)

	dl := &MockDownloader{}
	if err := f.exporter.Export(context.Background(), s.ID, dl); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if dl.filename != "annotated-document-page-3.pdf" {
		t.Fatalf("unexpected filename %q", dl.filename)
	}
}

func TestExportService_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		want  error
	}{
		{"fetch", func(f *fixture) { f.source.setErr(errBoom) }, domain.ErrExportLoad},
		{"load", func(f *fixture) { f.mutator.loadErr = errBoom }, domain.ErrExportLoad},
		{"page", func(f *fixture) { f.mutator.pages = nil }, domain.ErrPageIndex},
		{"save", func(f *fixture) { f.mutator.saveErr = errBoom }, domain.ErrSerialization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(1)
			s, err := f.open()
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			tt.setup(f)

			dl := &MockDownloader{}
			err = f.exporter.Export(context.Background(), s.ID, dl)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if dl.calls != 0 {
				t.Fatalf("expected no delivery on failure")
			}
			if got, _ := f.sessions.Get(s.ID); got.Processing {
				t.Fatalf("expected processing flag cleared after failure")
			}
		})
	}
}

func TestExportService_UnknownSession(t *testing.T) {
	f := newFixture(1)
	if err := f.exporter.Export(context.Background(), "nope", &MockDownloader{}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestExportService_RejectsConcurrentExport(t *testing.T) {
	f := newFixture(1)
	s, _ := f.open()

	f.source.mu.Lock()
	f.source.gate = make(chan struct{})
	f.source.entered = make(chan struct{}, 1)
	f.source.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- f.exporter.Export(context.Background(), s.ID, &MockDownloader{})
	}()
	<-f.source.entered

	if got, _ := f.sessions.Get(s.ID); !got.Processing {
		t.Fatalf("expected processing flag while export runs")
	}
	if err := f.exporter.Export(context.Background(), s.ID, &MockDownloader{}); !errors.Is(err, domain.ErrExportInProgress) {
		t.Fatalf("expected ErrExportInProgress, got %v", err)
	}

	close(f.source.gate)
	if err := <-done; err != nil {
		t.Fatalf("first export: %v", err)
	}
	if got, _ := f.sessions.Get(s.ID); got.Processing {
		t.Fatalf("expected processing flag cleared")
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename(7); got != "annotated-document-page-7.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}
