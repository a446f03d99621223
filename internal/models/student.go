package models

import (
	"time"

	"github.com/noah-isme/award-tracker/pkg/validate"
)

// AwardLevel is the scheme level a student is enrolled for.
type AwardLevel string

const (
	AwardBronze AwardLevel = "bronze"
	AwardSilver AwardLevel = "silver"
	AwardGold   AwardLevel = "gold"
)

// AwardLevels lists the levels in display order.
func AwardLevels() []AwardLevel {
	return []AwardLevel{AwardBronze, AwardSilver, AwardGold}
}

// Valid reports whether the level is a known value.
func (l AwardLevel) Valid() bool {
	return l == AwardBronze || l == AwardSilver || l == AwardGold
}

// ApprovalState is the staff review state of a student's enrolment.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// Valid reports whether the state is a known value.
func (a ApprovalState) Valid() bool {
	return a == ApprovalPending || a == ApprovalApproved || a == ApprovalRejected
}

// Gender options offered on the enrolment form. "pnts" is prefer-not-to-say.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
	GenderPNTS   = "pnts"
)

// Primary language options offered on the enrolment form.
const (
	LangEnglish = "english"
	LangWelsh   = "welsh"
)

// Enrolment is the block of personal and contact fields a student submits
// once, as a unit, to complete registration. A nil Enrolment on a Student
// means the student has not yet submitted; a non-nil one always has every
// field set.
type Enrolment struct {
	FullName       string    `json:"fullname"`
	Gender         string    `json:"gender"`
	DateOfBirth    time.Time `json:"date_of_birth"`
	Address        string    `json:"address"`
	PhonePrimary   string    `json:"phone_primary"`
	EmailPrimary   string    `json:"email_primary"`
	PhoneEmergency string    `json:"phone_emergency"`
	PrimaryLang    string    `json:"primary_lang"`
	SubmittedAt    time.Time `json:"submission_date"`
}

// Student represents a learner registered on the award scheme. Rows are
// created at provisioning with the enrolment payload unset; the payload is
// filled in by a single atomic submission.
type Student struct {
	StudentID  int           `json:"student_id"`
	CentreID   int           `json:"centre_id"`
	AwardLevel AwardLevel    `json:"award_level"`
	YearGroup  int           `json:"year_group"`
	Approval   ApprovalState `json:"approval"`
	Enrolment  *Enrolment    `json:"enrolment,omitempty"`
}

// Key returns the unique student identifier.
func (s Student) Key() int {
	return s.StudentID
}

// Enrolled reports whether the student has submitted the enrolment payload.
func (s Student) Enrolled() bool {
	return s.Enrolment != nil
}

// Validate checks the record's field constraints, collecting every failure.
// The date-of-birth age window is only enforced at submission time, not
// here, so records loaded from older data files remain valid as they age.
func (s Student) Validate() error {
	var list validate.List
	if s.StudentID <= 0 {
		list.Add("Student ID", "must be a positive integer")
	}
	if s.CentreID <= 0 {
		list.Add("Centre ID", "must be a positive integer")
	}
	if !s.AwardLevel.Valid() {
		list.Add("Award Level", "must be one of: bronze, silver, gold")
	}
	if s.YearGroup < 7 || s.YearGroup > 13 {
		list.Add("Year Group", "must be between 7 and 13")
	}
	if !s.Approval.Valid() {
		list.Add("Approval", "must be one of: pending, approved, rejected")
	}
	if e := s.Enrolment; e != nil {
		if _, err := validate.Length(e.FullName, 2, 30, "Fullname"); err != nil {
			list.Capture(err)
		}
		if _, err := validate.Lookup(e.Gender, "Gender",
			GenderMale, GenderFemale, GenderOther, GenderPNTS); err != nil {
			list.Capture(err)
		}
		if e.DateOfBirth.IsZero() {
			list.Add("Date of birth", "must be set")
		}
		if _, err := validate.Length(e.Address, 5, 100, "Address"); err != nil {
			list.Capture(err)
		}
		if _, err := validate.Digits(e.PhonePrimary, 9, 11, "Primary Phone"); err != nil {
			list.Capture(err)
		}
		if _, err := validate.Email(e.EmailPrimary, "Primary Email"); err != nil {
			list.Capture(err)
		}
		if _, err := validate.Digits(e.PhoneEmergency, 9, 11, "Emergency Phone"); err != nil {
			list.Capture(err)
		}
		if _, err := validate.Lookup(e.PrimaryLang, "Primary Language",
			LangEnglish, LangWelsh); err != nil {
			list.Capture(err)
		}
		if e.SubmittedAt.IsZero() {
			list.Add("Submission Date", "must be set")
		}
	}
	return list.Err()
}

// EnrolmentInput carries the raw form values of an enrolment submission.
// DateOfBirth is the YYYY/MM/DD text exactly as typed.
type EnrolmentInput struct {
	FullName       string
	Gender         string
	DateOfBirth    string
	Address        string
	PhonePrimary   string
	EmailPrimary   string
	PhoneEmergency string
	PrimaryLang    string
}

// SubmitEnrolment validates every field of in, collecting all failures
// before reporting any. On failure the student is left untouched. On
// success the whole payload is set at once, the submission timestamp is
// stamped with now, and the approval state returns to pending.
func (s *Student) SubmitEnrolment(in EnrolmentInput, now time.Time) error {
	var list validate.List

	fullName, err := validate.Length(in.FullName, 2, 30, "Fullname")
	list.Capture(err)

	gender, err := validate.Lookup(in.Gender, "Gender",
		GenderMale, GenderFemale, GenderOther, GenderPNTS)
	list.Capture(err)

	// Students must be between 10 and 25 years old when they submit.
	dob, err := validate.DateWithin(in.DateOfBirth, -365.25*25, -365.25*10, "Date of birth", now)
	list.Capture(err)

	address, err := validate.Length(in.Address, 5, 100, "Address")
	list.Capture(err)

	phonePrimary, err := validate.Digits(in.PhonePrimary, 9, 11, "Primary Phone")
	list.Capture(err)

	emailPrimary, err := validate.Email(in.EmailPrimary, "Primary Email")
	list.Capture(err)

	phoneEmergency, err := validate.Digits(in.PhoneEmergency, 9, 11, "Emergency Phone")
	list.Capture(err)

	primaryLang, err := validate.Lookup(in.PrimaryLang, "Primary Language",
		LangEnglish, LangWelsh)
	list.Capture(err)

	if err := list.Err(); err != nil {
		return err
	}

	s.Enrolment = &Enrolment{
		FullName:       fullName,
		Gender:         gender,
		DateOfBirth:    dob,
		Address:        address,
		PhonePrimary:   phonePrimary,
		EmailPrimary:   emailPrimary,
		PhoneEmergency: phoneEmergency,
		PrimaryLang:    primaryLang,
		SubmittedAt:    now,
	}
	s.Approval = ApprovalPending
	return nil
}

// ReviewOutcome is the three-way result of a staff enrolment review.
type ReviewOutcome int

const (
	// ReviewAbort leaves the student record untouched.
	ReviewAbort ReviewOutcome = iota
	// ReviewApprove marks the enrolment approved, retaining the payload.
	ReviewApprove
	// ReviewReject clears the entire enrolment payload back to unset,
	// forcing a full resubmission.
	ReviewReject
)

func (o ReviewOutcome) String() string {
	switch o {
	case ReviewAbort:
		return "abort"
	case ReviewApprove:
		return "approve"
	case ReviewReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ApplyReview performs the state transition for a staff review decision.
// Rejection clears the payload as a unit so the all-or-nothing invariant
// holds afterwards.
func (s *Student) ApplyReview(outcome ReviewOutcome) error {
	switch outcome {
	case ReviewAbort:
		return nil
	case ReviewApprove:
		s.Approval = ApprovalApproved
		return nil
	case ReviewReject:
		s.Approval = ApprovalRejected
		s.Enrolment = nil
		return nil
	default:
		return validate.FieldError{Field: "Review Outcome", Message: "must be abort, approve or reject"}
	}
}
