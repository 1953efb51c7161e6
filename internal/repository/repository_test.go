package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paperless-annotator/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Error(string, error, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Warn(string, ...interface{})         {}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			w.Write([]byte("%PDF-1.7 body"))
		case "/big.pdf":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(5*time.Second, 32, nopLogger{})

	data, err := src.Fetch(context.Background(), srv.URL+"/ok.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "%PDF-1.7 body" {
		t.Fatalf("unexpected body %q", data)
	}

	if _, err := src.Fetch(context.Background(), srv.URL+"/missing.pdf"); err == nil {
		t.Fatalf("expected error for 404")
	}
	if _, err := src.Fetch(context.Background(), srv.URL+"/big.pdf"); err == nil {
		t.Fatalf("expected error for oversized body")
	}
}

func TestHTTPSource_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTPSource(time.Second, 1024, nopLogger{}).Fetch(ctx, srv.URL); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

type fakeStorage struct {
	bucket, path string
	data         []byte
	err          error
}

func (f *fakeStorage) Download(bucket, path string) ([]byte, error) {
	f.bucket, f.path = bucket, path
	return f.data, f.err
}

func TestSupabaseSource_Fetch(t *testing.T) {
	storage := &fakeStorage{data: []byte("pdf")}
	src := NewSupabaseSource(storage, nopLogger{})

	data, err := src.Fetch(context.Background(), "supabase://documents/org1/syllabus.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "pdf" || storage.bucket != "documents" || storage.path != "org1/syllabus.pdf" {
		t.Fatalf("unexpected download %q from %s/%s", data, storage.bucket, storage.path)
	}

	if _, err := src.Fetch(context.Background(), "supabase://documents"); !errors.Is(err, domain.ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource for missing path, got %v", err)
	}

	storage.err = errors.New("object not found")
	if _, err := src.Fetch(context.Background(), "supabase://documents/x.pdf"); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

type staticSource []byte

func (s staticSource) Fetch(context.Context, string) ([]byte, error) { return s, nil }

func TestMultiSource_Dispatch(t *testing.T) {
	m := NewMultiSource()
	m.Register("HTTPS", staticSource("web"))
	m.Register("supabase", staticSource("bucket"))

	data, err := m.Fetch(context.Background(), "https://example.com/a.pdf")
	if err != nil || string(data) != "web" {
		t.Fatalf("https dispatch = %q, %v", data, err)
	}
	data, err = m.Fetch(context.Background(), "supabase://b/a.pdf")
	if err != nil || string(data) != "bucket" {
		t.Fatalf("supabase dispatch = %q, %v", data, err)
	}
	if _, err := m.Fetch(context.Background(), "ftp://example.com/a.pdf"); !errors.Is(err, domain.ErrUnsupportedSource) {
		t.Fatalf("expected ErrUnsupportedSource, got %v", err)
	}
	if m.Supports("file:///etc/passwd") {
		t.Fatalf("expected file scheme to be unsupported")
	}
	if !m.Supports("https://example.com") {
		t.Fatalf("expected https to be supported")
	}
}

func TestSeededCatalog(t *testing.T) {
	r := NewSeededCatalogRepository("https://example.com/sample.pdf", nopLogger{})

	orgs, err := r.ListOrganizations()
	if err != nil || len(orgs) != 1 || orgs[0].Name != "Computer Science 101" {
		t.Fatalf("unexpected organizations %v, %v", orgs, err)
	}

	docs, err := r.ListDocuments("org1")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 7 {
		t.Fatalf("expected 7 seeded documents, got %d", len(docs))
	}
	if docs[0].ID != "doc5" {
		t.Fatalf("expected documents ordered by creation date, first is %s", docs[0].ID)
	}

	doc2, _ := r.GetDocument("doc2")
	if doc2.FileURL != "" {
		t.Fatalf("expected non-pdf documents to have no file url")
	}
	doc1, _ := r.GetDocument("doc1")
	if doc1.FileURL != "https://example.com/sample.pdf" {
		t.Fatalf("expected sample url on pdf documents, got %q", doc1.FileURL)
	}
}

func TestCatalog_SaveAndDelete(t *testing.T) {
	r := NewSeededCatalogRepository("", nopLogger{})

	err := r.SaveDocument(&domain.Document{ID: "x", OrganizationID: "missing"})
	if !errors.Is(err, domain.ErrOrgNotFound) {
		t.Fatalf("expected ErrOrgNotFound, got %v", err)
	}

	doc := &domain.Document{ID: "doc8", OrganizationID: "org1", Title: "Quiz", DateCreated: "2025-03-30"}
	if err := r.SaveDocument(doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	doc.Title = "mutated after save"
	got, err := r.GetDocument("doc8")
	if err != nil || got.Title != "Quiz" {
		t.Fatalf("expected stored copy to be isolated, got %v, %v", got, err)
	}

	if err := r.DeleteDocument("doc8"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := r.GetDocument("doc8"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := r.DeleteDocument("doc8"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on second delete, got %v", err)
	}
	if _, err := r.ListDocuments("nope"); !errors.Is(err, domain.ErrOrgNotFound) {
		t.Fatalf("expected ErrOrgNotFound, got %v", err)
	}
}
