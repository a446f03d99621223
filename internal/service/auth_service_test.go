package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/award-tracker/internal/models"
	"github.com/noah-isme/award-tracker/internal/store"
	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
	"github.com/noah-isme/award-tracker/pkg/password"
)

var testHasher = password.NewHasher(1000)

func mustHash(t *testing.T, plaintext string) string {
	t.Helper()
	hash, err := testHasher.Hash(plaintext)
	require.NoError(t, err)
	return hash
}

func authFixture(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(nil)

	require.NoError(t, st.Staff.Insert(models.Staff{
		Username:     "mjones",
		PasswordHash: mustHash(t, "Staff1Pass"),
		FullName:     "Megan Jones",
	}))
	require.NoError(t, st.Students.Insert(models.Student{
		StudentID:  1,
		CentreID:   68362,
		AwardLevel: models.AwardSilver,
		YearGroup:  11,
		Approval:   models.ApprovalPending,
	}))
	require.NoError(t, st.Logins.Insert(models.StudentLogin{
		Username:     "alice",
		PasswordHash: mustHash(t, "Student1Pass"),
		StudentID:    1,
	}))
	return st
}

func TestAuthenticateStaffSuccess(t *testing.T) {
	svc := NewAuthService(authFixture(t), testHasher, nil)

	id, err := svc.Authenticate(store.TableStaff, "mjones", "Staff1Pass")
	require.NoError(t, err)
	assert.Equal(t, IdentityStaff, id.Kind)
	assert.Equal(t, "mjones", id.Username)
	assert.Equal(t, "Megan Jones", id.DisplayName)
	assert.Zero(t, id.StudentID)
}

func TestAuthenticateStudentSuccess(t *testing.T) {
	st := authFixture(t)
	svc := NewAuthService(st, testHasher, nil)

	id, err := svc.Authenticate(store.TableStudentLogin, "alice", "Student1Pass")
	require.NoError(t, err)
	assert.Equal(t, IdentityStudent, id.Kind)
	assert.Equal(t, 1, id.StudentID)
	// Before enrolment the username doubles as the display name.
	assert.Equal(t, "alice", id.DisplayName)
}

func TestAuthenticateStudentDisplayNameAfterEnrolment(t *testing.T) {
	st := authFixture(t)
	require.NoError(t, st.Students.Update(1, func(s *models.Student) error {
		s.Enrolment = &models.Enrolment{
			FullName:       "Alice Morgan",
			Gender:         models.GenderFemale,
			DateOfBirth:    mustDate(t, "2008/03/14"),
			Address:        "12 Castle Street, Cardiff",
			PhonePrimary:   "02920123456",
			EmailPrimary:   "alice@example.com",
			PhoneEmergency: "07700900123",
			PrimaryLang:    models.LangEnglish,
			SubmittedAt:    mustDate(t, "2024/06/01"),
		}
		return nil
	}))
	svc := NewAuthService(st, testHasher, nil)

	id, err := svc.Authenticate(store.TableStudentLogin, "alice", "Student1Pass")
	require.NoError(t, err)
	assert.Equal(t, "Alice Morgan", id.DisplayName)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := NewAuthService(authFixture(t), testHasher, nil)

	_, wrongPass := svc.Authenticate(store.TableStudentLogin, "alice", "wrongpass")
	_, unknownUser := svc.Authenticate(store.TableStudentLogin, "nobody", "anything")

	require.Error(t, wrongPass)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPass.Error(), unknownUser.Error(),
		"unknown user and wrong password must be identical failures")
	assert.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(wrongPass).Code)
	assert.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(unknownUser).Code)
}

func TestAuthenticateCorruptStoredHash(t *testing.T) {
	st := authFixture(t)
	require.NoError(t, st.Staff.Update("mjones", func(s *models.Staff) error {
		s.PasswordHash = "garbage"
		return nil
	}))
	svc := NewAuthService(st, testHasher, nil)

	// Corruption is logged but the caller only ever sees invalid credentials.
	_, err := svc.Authenticate(store.TableStaff, "mjones", "Staff1Pass")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(err).Code)
}

func TestAuthenticateUnknownTable(t *testing.T) {
	svc := NewAuthService(authFixture(t), testHasher, nil)

	_, err := svc.Authenticate("EventTable", "alice", "Student1Pass")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnknownTable.Code, apperrors.FromError(err).Code)
}

func TestAuthenticateOrphanedLogin(t *testing.T) {
	st := authFixture(t)
	require.NoError(t, st.Logins.Insert(models.StudentLogin{
		Username:     "ghost",
		PasswordHash: mustHash(t, "Ghost1Pass"),
		StudentID:    999,
	}))
	svc := NewAuthService(st, testHasher, nil)

	_, err := svc.Authenticate(store.TableStudentLogin, "ghost", "Ghost1Pass")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidCredentials.Code, apperrors.FromError(err).Code)
}
