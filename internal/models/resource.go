package models

import (
	"time"

	"github.com/noah-isme/award-tracker/pkg/validate"
)

// ResourceCategory classifies what an uploaded resource evidences.
type ResourceCategory string

const (
	CategoryEvent           ResourceCategory = "event"
	CategorySectionEvidence ResourceCategory = "section_evidence"
)

// Valid reports whether the category is a known value.
func (c ResourceCategory) Valid() bool {
	return c == CategoryEvent || c == CategorySectionEvidence
}

// Resource is an uploaded evidence file linked to a parent entity by
// identifier. For section_evidence resources the parent is a Section.
type Resource struct {
	ResourceID      int              `json:"resource_id"`
	FilePath        string           `json:"file_path"`
	Category        ResourceCategory `json:"resource_type"`
	IsSectionReport bool             `json:"is_section_report"`
	ParentLinkID    int              `json:"parent_link_id"`
	UploadedAt      time.Time        `json:"date_uploaded"`
}

// Key returns the unique resource identifier.
func (r Resource) Key() int {
	return r.ResourceID
}

// Validate checks the record's field constraints, collecting every failure.
func (r Resource) Validate() error {
	var list validate.List
	if r.ResourceID <= 0 {
		list.Add("Resource ID", "must be a positive integer")
	}
	if _, err := validate.NonEmpty(r.FilePath, "File Path"); err != nil {
		list.Capture(err)
	}
	if !r.Category.Valid() {
		list.Add("Resource Type", "must be one of: event, section_evidence")
	}
	if r.IsSectionReport && r.Category != CategorySectionEvidence {
		list.Add("Is Section Report", "only section_evidence resources can be section reports")
	}
	if r.ParentLinkID <= 0 {
		list.Add("Parent Link ID", "must be a positive integer")
	}
	if r.UploadedAt.IsZero() {
		list.Add("Date Uploaded", "must be set")
	}
	return list.Err()
}
