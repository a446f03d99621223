package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/award-tracker/internal/store"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
	"github.com/noah-isme/award-tracker/pkg/password"
)

// IdentityKind distinguishes staff from student identities.
type IdentityKind string

const (
	IdentityStaff   IdentityKind = "staff"
	IdentityStudent IdentityKind = "student"
)

// Identity is the resolved account returned by a successful authentication.
type Identity struct {
	Kind        IdentityKind
	Username    string
	DisplayName string
	// StudentID is set for student identities only.
	StudentID int
}

// AuthService authenticates credentials against the login tables.
type AuthService struct {
	store  *store.Store
	hasher *password.Hasher
	logger *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(st *store.Store, hasher *password.Hasher, logger *zap.Logger) *AuthService {
	if hasher == nil {
		hasher = password.NewHasher(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{store: st, hasher: hasher, logger: logger}
}

// invalidCredentials is the single failure returned for every unsuccessful
// authentication. An unknown username and a wrong password are deliberately
// indistinguishable so usernames cannot be enumerated.
func (s *AuthService) invalidCredentials() error {
	return apperrors.Clone(apperrors.ErrInvalidCredentials, "")
}

// Authenticate looks up username in the named login table and verifies the
// plaintext against the stored hash. On success the associated staff or
// student identity is resolved through the store.
func (s *AuthService) Authenticate(table, username, plaintext string) (*Identity, error) {
	switch table {
	case store.TableStaff:
		return s.authenticateStaff(username, plaintext)
	case store.TableStudentLogin:
		return s.authenticateStudent(username, plaintext)
	default:
		return nil, apperrors.Clone(apperrors.ErrUnknownTable,
			"authentication table must be StaffTable or StudentLoginTable")
	}
}

func (s *AuthService) authenticateStaff(username, plaintext string) (*Identity, error) {
	staff, err := s.store.Staff.Get(username)
	if err != nil {
		return nil, s.invalidCredentials()
	}

	ok, err := s.hasher.Verify(plaintext, staff.PasswordHash)
	if err != nil {
		s.logger.Error("stored staff credential is malformed",
			zap.String("username", username), zap.Error(err))
		return nil, s.invalidCredentials()
	}
	if !ok {
		return nil, s.invalidCredentials()
	}

	return &Identity{
		Kind:        IdentityStaff,
		Username:    staff.Username,
		DisplayName: staff.FullName,
	}, nil
}

func (s *AuthService) authenticateStudent(username, plaintext string) (*Identity, error) {
	login, err := s.store.Logins.Get(username)
	if err != nil {
		return nil, s.invalidCredentials()
	}

	ok, err := s.hasher.Verify(plaintext, login.PasswordHash)
	if err != nil {
		s.logger.Error("stored student credential is malformed",
			zap.String("username", username), zap.Error(err))
		return nil, s.invalidCredentials()
	}
	if !ok {
		return nil, s.invalidCredentials()
	}

	student, err := s.store.Students.Get(login.StudentID)
	if err != nil {
		// A login without its student row is a data integrity fault, not a
		// credential problem, but it must not leak to the caller either.
		s.logger.Error("login references a missing student",
			zap.String("username", username), zap.Int("student_id", login.StudentID))
		return nil, s.invalidCredentials()
	}

	displayName := username
	if student.Enrolled() {
		displayName = student.Enrolment.FullName
	}
	return &Identity{
		Kind:        IdentityStudent,
		Username:    login.Username,
		DisplayName: displayName,
		StudentID:   student.StudentID,
	}, nil
}
