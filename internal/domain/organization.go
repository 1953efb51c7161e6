package domain

import "time"

// DocumentStatus is the completion state of a class document.
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusCompleted DocumentStatus = "completed"
)

// StatusFilter selects which documents a listing returns.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
)

// DocumentCategory classifies a class document.
type DocumentCategory string

const (
	CategoryCourseMaterial DocumentCategory = "course_material"
	CategoryAssignment     DocumentCategory = "assignment"
	CategoryExam           DocumentCategory = "exam"
	CategoryProject        DocumentCategory = "project"
	CategoryAnnouncement   DocumentCategory = "announcement"
	CategoryOther          DocumentCategory = "other"
)

// Valid reports whether c is a known category.
func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryCourseMaterial, CategoryAssignment, CategoryExam,
		CategoryProject, CategoryAnnouncement, CategoryOther:
		return true
	}
	return false
}

// Role is the caller's role within an organization.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Organization is a class that groups students and a teacher.
type Organization struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AdminName string `json:"admin_name"`
}

// Document is a class document listed within an organization.
type Document struct {
	ID             string           `json:"id"`
	OrganizationID string           `json:"organization_id"`
	Title          string           `json:"title"`
	DateCreated    string           `json:"date_created"`
	Status         DocumentStatus   `json:"status"`
	DueDate        *string          `json:"due_date,omitempty"`
	Type           string           `json:"type"`
	Category       DocumentCategory `json:"category"`
	CompletedBy    *int             `json:"completed_by,omitempty"`
	TotalStudents  *int             `json:"total_students,omitempty"`
	FileURL        string           `json:"file_url,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// DocumentFormData is the payload of create and update requests.
type DocumentFormData struct {
	Title    string           `json:"title"`
	Category DocumentCategory `json:"category"`
	DueDate  *string          `json:"due_date,omitempty"`
	FileName string           `json:"file_name,omitempty"`
	FileURL  string           `json:"file_url,omitempty"`
}

// CatalogRepository defines persistence operations for organizations and documents.
type CatalogRepository interface {
	ListOrganizations() ([]*Organization, error)
	GetOrganization(id string) (*Organization, error)
	ListDocuments(orgID string) ([]*Document, error)
	GetDocument(id string) (*Document, error)
	SaveDocument(doc *Document) error
	DeleteDocument(id string) error
}
