package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/award-tracker/pkg/validate"
)

var submissionTime = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

func validEnrolmentInput() EnrolmentInput {
	return EnrolmentInput{
		FullName:       "Jamie Rees",
		Gender:         GenderFemale,
		DateOfBirth:    "2008/03/14",
		Address:        "12 Castle Street, Cardiff",
		PhonePrimary:   "02920123456",
		EmailPrimary:   "jamie@example.com",
		PhoneEmergency: "07700900123",
		PrimaryLang:    LangWelsh,
	}
}

func provisionedStudent() Student {
	return Student{
		StudentID:  1,
		CentreID:   68362,
		AwardLevel: AwardBronze,
		YearGroup:  10,
		Approval:   ApprovalPending,
	}
}

func TestSubmitEnrolmentSetsWholePayload(t *testing.T) {
	student := provisionedStudent()

	require.NoError(t, student.SubmitEnrolment(validEnrolmentInput(), submissionTime))

	require.True(t, student.Enrolled())
	assert.Equal(t, "Jamie Rees", student.Enrolment.FullName)
	assert.Equal(t, GenderFemale, student.Enrolment.Gender)
	assert.Equal(t, 2008, student.Enrolment.DateOfBirth.Year())
	assert.Equal(t, submissionTime, student.Enrolment.SubmittedAt)
	assert.Equal(t, ApprovalPending, student.Approval)
	assert.NoError(t, student.Validate())
}

func TestSubmitEnrolmentAtomicOnFailure(t *testing.T) {
	student := provisionedStudent()
	before := student

	in := validEnrolmentInput()
	in.EmailPrimary = "not-an-email"

	err := student.SubmitEnrolment(in, submissionTime)
	require.Error(t, err)
	assert.Equal(t, before, student, "a failed submission must not touch the record")

	list := validate.ListFrom(err)
	require.Len(t, list, 1)
	assert.Equal(t, "Primary Email", list[0].Field)
}

func TestSubmitEnrolmentCollectsAllFailures(t *testing.T) {
	student := provisionedStudent()

	in := EnrolmentInput{} // every field wrong
	err := student.SubmitEnrolment(in, submissionTime)
	require.Error(t, err)

	list := validate.ListFrom(err)
	fields := make([]string, 0, len(list))
	for _, fe := range list {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"Fullname", "Gender", "Date of birth", "Address",
		"Primary Phone", "Primary Email", "Emergency Phone", "Primary Language",
	}, fields)
	assert.False(t, student.Enrolled())
}

func TestApplyReviewApprove(t *testing.T) {
	student := provisionedStudent()
	require.NoError(t, student.SubmitEnrolment(validEnrolmentInput(), submissionTime))

	require.NoError(t, student.ApplyReview(ReviewApprove))
	assert.Equal(t, ApprovalApproved, student.Approval)
	assert.True(t, student.Enrolled(), "approval retains the payload")
}

func TestApplyReviewRejectClearsPayload(t *testing.T) {
	student := provisionedStudent()
	require.NoError(t, student.SubmitEnrolment(validEnrolmentInput(), submissionTime))

	require.NoError(t, student.ApplyReview(ReviewReject))
	assert.Equal(t, ApprovalRejected, student.Approval)
	assert.False(t, student.Enrolled(), "rejection forces full resubmission")
	assert.NoError(t, student.Validate())
}

func TestApplyReviewAbortIsNoOp(t *testing.T) {
	student := provisionedStudent()
	require.NoError(t, student.SubmitEnrolment(validEnrolmentInput(), submissionTime))
	before := student

	require.NoError(t, student.ApplyReview(ReviewAbort))
	assert.Equal(t, before, student)
}

func TestStudentValidatePayloadBlock(t *testing.T) {
	student := provisionedStudent()
	assert.NoError(t, student.Validate(), "unset payload is valid")

	require.NoError(t, student.SubmitEnrolment(validEnrolmentInput(), submissionTime))
	assert.NoError(t, student.Validate(), "fully set payload is valid")

	// A mixed payload must fail validation.
	student.Enrolment.EmailPrimary = ""
	assert.Error(t, student.Validate())
}

func TestStudentValidateFieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Student)
	}{
		{"zero id", func(s *Student) { s.StudentID = 0 }},
		{"zero centre", func(s *Student) { s.CentreID = 0 }},
		{"bad level", func(s *Student) { s.AwardLevel = "platinum" }},
		{"year too low", func(s *Student) { s.YearGroup = 6 }},
		{"year too high", func(s *Student) { s.YearGroup = 14 }},
		{"bad approval", func(s *Student) { s.Approval = "maybe" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			student := provisionedStudent()
			tc.mutate(&student)
			assert.Error(t, student.Validate())
		})
	}
}

func TestSectionTypeMapping(t *testing.T) {
	types := SectionTypes()
	require.Equal(t, []SectionType{SectionVolunteering, SectionSkill, SectionPhysical}, types)

	assert.Equal(t, "Volunteering", SectionVolunteering.DisplayName())
	assert.Equal(t, "Skill", SectionSkill.DisplayName())
	assert.Equal(t, "Physical", SectionPhysical.DisplayName())
	assert.False(t, SectionType("expedition").Valid())
}
