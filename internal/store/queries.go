package store

import (
	"fmt"

	"github.com/noah-isme/award-tracker/internal/models"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

// SectionFor returns the student's section of the given type, if any. The
// at-most-one invariant enforced by CreateSection guarantees a single match.
func (s *Store) SectionFor(studentID int, sectionType models.SectionType) (models.Section, bool) {
	for _, sec := range s.Sections.All() {
		if sec.StudentID == studentID && sec.Type == sectionType {
			return sec, true
		}
	}
	return models.Section{}, false
}

// ResourcesFor returns the resources of the given category attached to the
// parent entity, in insertion order.
func (s *Store) ResourcesFor(parentID int, category models.ResourceCategory) []models.Resource {
	var out []models.Resource
	for _, r := range s.Resources.All() {
		if r.ParentLinkID == parentID && r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// HasOfficialReport reports whether the section has an attached resource
// flagged as the official assessor report.
func (s *Store) HasOfficialReport(sectionID int) bool {
	for _, r := range s.ResourcesFor(sectionID, models.CategorySectionEvidence) {
		if r.IsSectionReport {
			return true
		}
	}
	return false
}

// ActivityStatus derives the progress state of one section for one student:
// no section yet means not started; a section with no official report is in
// progress; with a report it awaits staff approval; once the student record
// is approved the section is complete.
func (s *Store) ActivityStatus(studentID int, sectionType models.SectionType) models.ActivityStatus {
	sec, ok := s.SectionFor(studentID, sectionType)
	if !ok {
		return models.StatusNotStarted
	}
	if !s.HasOfficialReport(sec.SectionID) {
		return models.StatusInProgress
	}
	student, err := s.Students.Get(studentID)
	if err == nil && student.Approval == models.ApprovalApproved {
		return models.StatusComplete
	}
	return models.StatusAwaitingApproval
}

// CreateSection inserts a section after checking that the owning student
// exists and does not already have a section of that type. A zero SectionID
// is replaced with the next free identifier. The stored section's ID is
// returned.
func (s *Store) CreateSection(sec models.Section) (int, error) {
	if !s.Students.Has(sec.StudentID) {
		return 0, apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("student %d does not exist", sec.StudentID))
	}
	if existing, ok := s.SectionFor(sec.StudentID, sec.Type); ok {
		return 0, apperrors.Clone(apperrors.ErrDuplicateKey,
			fmt.Sprintf("student %d already has a %s section (id %d)",
				sec.StudentID, sec.Type, existing.SectionID))
	}
	if sec.SectionID == 0 {
		sec.SectionID = NextID(s.Sections)
	}
	if err := s.Sections.Insert(sec); err != nil {
		return 0, err
	}
	return sec.SectionID, nil
}

// AddResource inserts a resource after checking that its parent link
// resolves to an entity of the right type for its category. A zero
// ResourceID is replaced with the next free identifier. The stored
// resource's ID is returned.
func (s *Store) AddResource(r models.Resource) (int, error) {
	if r.Category == models.CategorySectionEvidence && !s.Sections.Has(r.ParentLinkID) {
		return 0, apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("section %d does not exist for evidence resource", r.ParentLinkID))
	}
	if r.ResourceID == 0 {
		r.ResourceID = NextID(s.Resources)
	}
	if err := s.Resources.Insert(r); err != nil {
		return 0, err
	}
	return r.ResourceID, nil
}

// LoginForStudent returns the login record mapped to the student, if one
// exists.
func (s *Store) LoginForStudent(studentID int) (models.StudentLogin, bool) {
	for _, login := range s.Logins.All() {
		if login.StudentID == studentID {
			return login, true
		}
	}
	return models.StudentLogin{}, false
}

// ProgressSummary derives the whole-award progress line for a student:
// enrolment state first, then how many of the section categories have been
// started and completed.
func (s *Store) ProgressSummary(studentID int) (models.ProgressSummary, error) {
	student, err := s.Students.Get(studentID)
	if err != nil {
		return "", err
	}

	if !student.Enrolled() {
		return models.ProgressPendingEnrolment, nil
	}
	if student.Approval != models.ApprovalApproved {
		return models.ProgressNeedsApproval, nil
	}

	started, complete := 0, 0
	for _, sectionType := range models.SectionTypes() {
		switch s.ActivityStatus(studentID, sectionType) {
		case models.StatusComplete:
			started++
			complete++
		case models.StatusInProgress, models.StatusAwaitingApproval:
			started++
		}
	}

	total := len(models.SectionTypes())
	switch {
	case complete == total:
		return models.ProgressFullyComplete, nil
	case started == total:
		return models.ProgressAllInProgress, nil
	case started >= 1:
		return models.ProgressInProgress, nil
	default:
		return models.ProgressNoneStarted, nil
	}
}
