package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"paperless-annotator/internal/domain"
)

// MemoryCatalogRepository keeps organizations and documents in memory.
type MemoryCatalogRepository struct {
	mu            sync.RWMutex
	organizations map[string]*domain.Organization
	documents     map[string]*domain.Document
	logger        domain.Logger
}

// NewMemoryCatalogRepository creates an empty repository.
func NewMemoryCatalogRepository(logger domain.Logger) *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		organizations: make(map[string]*domain.Organization),
		documents:     make(map[string]*domain.Document),
		logger:        logger,
	}
}

// NewSeededCatalogRepository creates a repository holding the demo class.
func NewSeededCatalogRepository(sampleURL string, logger domain.Logger) *MemoryCatalogRepository {
	r := NewMemoryCatalogRepository(logger)
	r.organizations["org1"] = &domain.Organization{
		ID:        "org1",
		Name:      "Computer Science 101",
		AdminName: "Prof. Alan Turing",
	}

	due := func(s string) *string { return &s }
	seed := []domain.Document{
		{ID: "doc1", Title: "Course Syllabus", DateCreated: "2025-03-15", Status: domain.StatusCompleted, Type: "pdf", Category: domain.CategoryCourseMaterial},
		{ID: "doc2", Title: "Assignment 1: Introduction to Algorithms", DateCreated: "2025-03-18", Status: domain.StatusPending, DueDate: due("2025-04-10"), Type: "docx", Category: domain.CategoryAssignment},
		{ID: "doc3", Title: "Midterm Exam Guidelines", DateCreated: "2025-03-20", Status: domain.StatusPending, DueDate: due("2025-04-05"), Type: "pdf", Category: domain.CategoryExam},
		{ID: "doc4", Title: "Programming Project Requirements", DateCreated: "2025-03-22", Status: domain.StatusPending, DueDate: due("2025-04-15"), Type: "pdf", Category: domain.CategoryProject},
		{ID: "doc5", Title: "Lecture Notes - Week 1", DateCreated: "2025-03-10", Status: domain.StatusCompleted, Type: "pdf", Category: domain.CategoryCourseMaterial},
		{ID: "doc6", Title: "Lecture Notes - Week 2", DateCreated: "2025-03-17", Status: domain.StatusCompleted, Type: "pdf", Category: domain.CategoryCourseMaterial},
		{ID: "doc7", Title: "Group Project Team Assignment", DateCreated: "2025-03-25", Status: domain.StatusCompleted, Type: "pdf", Category: domain.CategoryAnnouncement},
	}
	for i := range seed {
		doc := seed[i]
		doc.OrganizationID = "org1"
		if doc.Type == "pdf" {
			doc.FileURL = sampleURL
		}
		r.documents[doc.ID] = &doc
	}
	return r
}

// ListOrganizations returns all organizations ordered by name.
func (r *MemoryCatalogRepository) ListOrganizations() ([]*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Organization, 0, len(r.organizations))
	for _, org := range r.organizations {
		o := *org
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetOrganization returns one organization.
func (r *MemoryCatalogRepository) GetOrganization(id string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, ok := r.organizations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrOrgNotFound)
	}
	o := *org
	return &o, nil
}

// SaveOrganization inserts or replaces an organization.
func (r *MemoryCatalogRepository) SaveOrganization(org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := *org
	r.organizations[org.ID] = &o
	return nil
}

// ListDocuments returns the documents of an organization ordered by creation
// date, then id.
func (r *MemoryCatalogRepository) ListDocuments(orgID string) ([]*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.organizations[orgID]; !ok {
		return nil, fmt.Errorf("%s: %w", orgID, domain.ErrOrgNotFound)
	}
	out := make([]*domain.Document, 0)
	for _, doc := range r.documents {
		if doc.OrganizationID == orgID {
			d := *doc
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateCreated != out[j].DateCreated {
			return out[i].DateCreated < out[j].DateCreated
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetDocument returns one document.
func (r *MemoryCatalogRepository) GetDocument(id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrDocumentNotFound)
	}
	d := *doc
	return &d, nil
}

// SaveDocument inserts or replaces a document.
func (r *MemoryCatalogRepository) SaveDocument(doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.organizations[doc.OrganizationID]; !ok {
		return fmt.Errorf("%s: %w", doc.OrganizationID, domain.ErrOrgNotFound)
	}
	d := *doc
	d.UpdatedAt = time.Now()
	r.documents[doc.ID] = &d
	r.logger.Debug("Document saved", "document_id", doc.ID, "organization_id", doc.OrganizationID)
	return nil
}

// DeleteDocument removes a document.
func (r *MemoryCatalogRepository) DeleteDocument(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return fmt.Errorf("%s: %w", id, domain.ErrDocumentNotFound)
	}
	delete(r.documents, id)
	return nil
}
