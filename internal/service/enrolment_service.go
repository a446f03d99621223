package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/award-tracker/internal/models"
	"github.com/noah-isme/award-tracker/internal/store"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
	"github.com/noah-isme/award-tracker/pkg/password"
	"github.com/noah-isme/award-tracker/pkg/validate"
)

// EnrolmentService owns the student lifecycle: account provisioning,
// enrolment submission and the staff review workflow.
type EnrolmentService struct {
	store     *store.Store
	hasher    *password.Hasher
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrolmentService constructs an EnrolmentService instance.
func NewEnrolmentService(st *store.Store, hasher *password.Hasher, validate *validator.Validate, logger *zap.Logger) *EnrolmentService {
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrolmentService{
		store:     st,
		hasher:    hasher,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// ProvisionInput carries the fields staff supply when creating a student
// account. Everything else on the student record stays unset until the
// student submits enrolment.
type ProvisionInput struct {
	Username   string            `validate:"required,min=2,max=30"`
	Password   string            `validate:"required"`
	CentreID   int               `validate:"required,gt=0"`
	AwardLevel models.AwardLevel `validate:"required,oneof=bronze silver gold"`
	YearGroup  int               `validate:"required,min=7,max=13"`
}

// Provision creates the StudentLogin and Student pair for a new account:
// next free student identifier, hashed password, pending approval, unset
// enrolment payload. A taken username fails with DUPLICATE_KEY and no rows
// are written.
func (s *EnrolmentService) Provision(in ProvisionInput) (*models.Student, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, "invalid provisioning input")
	}
	if report := password.CheckStrength(in.Password); !report.OK() {
		var list validate.List
		for _, msg := range report.Failures() {
			list.Add("Password", msg)
		}
		return nil, list.Err()
	}
	if s.store.Logins.Has(in.Username) {
		return nil, apperrors.Clone(apperrors.ErrDuplicateKey,
			fmt.Sprintf("username %q is already taken", in.Username))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	student := models.Student{
		StudentID:  store.NextID(s.store.Students),
		CentreID:   in.CentreID,
		AwardLevel: in.AwardLevel,
		YearGroup:  in.YearGroup,
		Approval:   models.ApprovalPending,
	}
	login := models.StudentLogin{
		Username:     in.Username,
		PasswordHash: hash,
		StudentID:    student.StudentID,
	}

	if err := s.store.Students.Insert(student); err != nil {
		return nil, err
	}
	if err := s.store.Logins.Insert(login); err != nil {
		// Roll the student row back so the pair stays atomic.
		if derr := s.store.Students.Delete(student.StudentID); derr != nil {
			s.logger.Error("failed to roll back student after login insert failure",
				zap.Int("student_id", student.StudentID), zap.Error(derr))
		}
		return nil, err
	}

	s.logger.Info("student provisioned",
		zap.Int("student_id", student.StudentID), zap.String("username", login.Username))
	return &student, nil
}

// SubmitEnrolment runs the student's one-shot enrolment submission. Every
// field failure is collected and returned together, and any failure leaves
// the stored record untouched.
func (s *EnrolmentService) SubmitEnrolment(studentID int, in models.EnrolmentInput) error {
	err := s.store.Students.Update(studentID, func(st *models.Student) error {
		return st.SubmitEnrolment(in, s.now())
	})
	if err != nil {
		return err
	}
	s.logger.Info("enrolment submitted", zap.Int("student_id", studentID))
	return nil
}

// Review applies a staff review decision to a student's pending enrolment.
// Abort writes nothing; approve retains the payload; reject clears it
// entirely, forcing resubmission.
func (s *EnrolmentService) Review(studentID int, outcome models.ReviewOutcome) error {
	if outcome == models.ReviewAbort {
		return nil
	}
	err := s.store.Students.Update(studentID, func(st *models.Student) error {
		return st.ApplyReview(outcome)
	})
	if err != nil {
		return err
	}
	s.logger.Info("enrolment reviewed",
		zap.Int("student_id", studentID), zap.Stringer("outcome", outcome))
	return nil
}

// StartSection records a student's first edit of a section category,
// enforcing the creation-form rules the record-level validation leaves out:
// the start date may be at most one year ahead.
func (s *EnrolmentService) StartSection(sec models.Section) (int, error) {
	now := s.now()
	if sec.StartDate.Before(now.AddDate(0, 0, -1)) || sec.StartDate.After(now.AddDate(1, 0, 0)) {
		var list validate.List
		list.Add("Activity Start Date", "must be between today and one year from now")
		return 0, list.Err()
	}
	id, err := s.store.CreateSection(sec)
	if err != nil {
		return 0, err
	}
	s.logger.Info("section started",
		zap.Int("section_id", id), zap.Int("student_id", sec.StudentID),
		zap.String("section_type", string(sec.Type)))
	return id, nil
}
