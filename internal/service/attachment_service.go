package service

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/award-tracker/internal/models"
	"github.com/noah-isme/award-tracker/internal/store"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
	"github.com/noah-isme/award-tracker/pkg/storage"
)

// AttachmentService copies evidence files into the upload directory and
// keeps the Resource table in step with what is on disk.
type AttachmentService struct {
	store  *store.Store
	files  *storage.LocalStorage
	logger *zap.Logger
	now    func() time.Time
}

// NewAttachmentService constructs an AttachmentService instance.
func NewAttachmentService(st *store.Store, files *storage.LocalStorage, logger *zap.Logger) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{store: st, files: files, logger: logger, now: time.Now}
}

// AttachEvidence copies each source file into the student's upload
// directory and inserts a section_evidence Resource row per file. Name
// collisions get a " (n)" suffix. The created resources are returned in
// attachment order.
func (s *AttachmentService) AttachEvidence(studentID, sectionID int, sourcePaths []string) ([]models.Resource, error) {
	sec, err := s.store.Sections.Get(sectionID)
	if err != nil {
		return nil, err
	}
	if sec.StudentID != studentID {
		return nil, apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("section %d does not belong to student %d", sectionID, studentID))
	}

	attached := make([]models.Resource, 0, len(sourcePaths))
	for _, src := range sourcePaths {
		rel, err := s.copyIn(studentID, src)
		if err != nil {
			return attached, err
		}
		res := models.Resource{
			FilePath:     rel,
			Category:     models.CategorySectionEvidence,
			ParentLinkID: sectionID,
			UploadedAt:   s.now(),
		}
		id, err := s.store.AddResource(res)
		if err != nil {
			// The copy landed but the row did not; remove the orphan file.
			if derr := s.files.Delete(rel); derr != nil {
				s.logger.Warn("failed to remove orphaned upload", zap.String("path", rel), zap.Error(derr))
			}
			return attached, err
		}
		res.ResourceID = id
		attached = append(attached, res)
	}

	s.logger.Info("evidence attached",
		zap.Int("student_id", studentID), zap.Int("section_id", sectionID),
		zap.Int("count", len(attached)))
	return attached, nil
}

func (s *AttachmentService) copyIn(studentID int, src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrNotFound.Code,
			fmt.Sprintf("source file %q cannot be opened", src))
	}
	defer f.Close() //nolint:errcheck

	rel := filepath.Join("student", fmt.Sprintf("id-%d", studentID), filepath.Base(src))
	stored, err := s.files.SaveStream(rel, f)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to store evidence file")
	}
	return stored, nil
}

// MarkOfficialReport flags a section_evidence resource as the official
// assessor report for its section.
func (s *AttachmentService) MarkOfficialReport(resourceID int) error {
	return s.store.Resources.Update(resourceID, func(r *models.Resource) error {
		if r.Category != models.CategorySectionEvidence {
			return apperrors.Clone(apperrors.ErrValidation,
				"only section_evidence resources can be marked as the section report")
		}
		r.IsSectionReport = true
		return nil
	})
}

// RemoveResource deletes the stored file and then the resource row. A file
// already missing on disk is not an error; the row is removed regardless.
func (s *AttachmentService) RemoveResource(resourceID int) error {
	res, err := s.store.Resources.Get(resourceID)
	if err != nil {
		return err
	}
	if err := s.files.Delete(res.FilePath); err != nil {
		s.logger.Warn("failed to delete evidence file",
			zap.Int("resource_id", resourceID), zap.String("path", res.FilePath), zap.Error(err))
	}
	if err := s.store.Resources.Delete(resourceID); err != nil {
		return err
	}
	s.logger.Info("resource removed", zap.Int("resource_id", resourceID))
	return nil
}
