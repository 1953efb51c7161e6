package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"paperless-annotator/internal/domain"
)

const (
	defaultDocumentType  = "pdf"
	defaultTotalStudents = 30
)

// CatalogService implements domain.CatalogService on top of a repository.
type CatalogService struct {
	repo   domain.CatalogRepository
	logger domain.Logger
	now    func() time.Time
	newID  func() string
}

// NewCatalogService creates a catalog service.
func NewCatalogService(repo domain.CatalogRepository, logger domain.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *CatalogService) ListOrganizations() ([]*domain.Organization, error) {
	return s.repo.ListOrganizations()
}

func (s *CatalogService) GetOrganization(id string) (*domain.Organization, error) {
	return s.repo.GetOrganization(id)
}

// ListDocuments returns the documents of an organization matching filter.
// An empty filter means all.
func (s *CatalogService) ListDocuments(orgID string, filter domain.StatusFilter) ([]*domain.Document, error) {
	switch filter {
	case "", domain.FilterAll, domain.FilterPending, domain.FilterCompleted:
	default:
		return nil, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown filter %q", filter)}
	}

	docs, err := s.repo.ListDocuments(orgID)
	if err != nil {
		return nil, err
	}
	if filter == "" || filter == domain.FilterAll {
		return docs, nil
	}

	out := make([]*domain.Document, 0, len(docs))
	for _, doc := range docs {
		if string(doc.Status) == string(filter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// CreateDocument adds a pending document to an organization.
func (s *CatalogService) CreateDocument(role domain.Role, orgID string, form domain.DocumentFormData) (*domain.Document, error) {
	if err := requireTeacher(role); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "title is required"}
	}
	if !form.Category.Valid() {
		return nil, &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", form.Category)}
	}
	if _, err := s.repo.GetOrganization(orgID); err != nil {
		return nil, err
	}

	completed, total := 0, defaultTotalStudents
	doc := &domain.Document{
		ID:             s.newID(),
		OrganizationID: orgID,
		Title:          title,
		DateCreated:    s.now().Format(time.DateOnly),
		Status:         domain.StatusPending,
		DueDate:        form.DueDate,
		Type:           documentType(form.FileName),
		Category:       form.Category,
		CompletedBy:    &completed,
		TotalStudents:  &total,
		FileURL:        form.FileURL,
	}
	if err := s.repo.SaveDocument(doc); err != nil {
		return nil, err
	}

	s.logger.Info("Document created", "document_id", doc.ID, "organization_id", orgID)
	return s.repo.GetDocument(doc.ID)
}

// UpdateDocument changes the title, category, due date or file of a document.
// Empty fields are left unchanged.
func (s *CatalogService) UpdateDocument(role domain.Role, id string, form domain.DocumentFormData) (*domain.Document, error) {
	if err := requireTeacher(role); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetDocument(id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(form.Title); title != "" {
		doc.Title = title
	}
	if form.Category != "" {
		if !form.Category.Valid() {
			return nil, &domain.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", form.Category)}
		}
		doc.Category = form.Category
	}
	if form.DueDate != nil {
		doc.DueDate = form.DueDate
	}
	if form.FileURL != "" {
		doc.FileURL = form.FileURL
		doc.Type = documentType(form.FileName)
	}

	if err := s.repo.SaveDocument(doc); err != nil {
		return nil, err
	}
	return s.repo.GetDocument(id)
}

func (s *CatalogService) DeleteDocument(role domain.Role, id string) error {
	if err := requireTeacher(role); err != nil {
		return err
	}
	if err := s.repo.DeleteDocument(id); err != nil {
		return err
	}
	s.logger.Info("Document deleted", "document_id", id)
	return nil
}

// ResolveLocation returns the file location of a catalog document.
func (s *CatalogService) ResolveLocation(documentID string) (string, error) {
	doc, err := s.repo.GetDocument(documentID)
	if err != nil {
		return "", err
	}
	if doc.FileURL == "" {
		return "", &domain.ValidationError{Field: "document_id", Message: "document has no file attached"}
	}
	return doc.FileURL, nil
}

func requireTeacher(role domain.Role) error {
	if role != domain.RoleTeacher {
		return fmt.Errorf("role %q: %w", role, domain.ErrForbidden)
	}
	return nil
}

// documentType derives the document type from a file name extension.
func documentType(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return defaultDocumentType
	}
	return ext
}
