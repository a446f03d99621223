package models

import (
	"time"

	"github.com/noah-isme/award-tracker/pkg/validate"
)

// SectionType identifies one category of required activity within the award
// scheme.
type SectionType string

const (
	SectionVolunteering SectionType = "vol"
	SectionSkill        SectionType = "skill"
	SectionPhysical     SectionType = "phys"
)

// sectionNames maps each type to its display name.
var sectionNames = map[SectionType]string{
	SectionVolunteering: "Volunteering",
	SectionSkill:        "Skill",
	SectionPhysical:     "Physical",
}

// SectionTypes lists the section categories in stable display order.
func SectionTypes() []SectionType {
	return []SectionType{SectionVolunteering, SectionSkill, SectionPhysical}
}

// Valid reports whether the type is a known value.
func (t SectionType) Valid() bool {
	_, ok := sectionNames[t]
	return ok
}

// DisplayName returns the presentation name for the section type.
func (t SectionType) DisplayName() string {
	return sectionNames[t]
}

// Timescales lists the permitted activity durations in days.
func Timescales() []int {
	return []int{90, 180, 360}
}

// Section records a student's activity for one section category. At most
// one Section exists per (student, type) pair; the Store's creation helper
// enforces this.
type Section struct {
	SectionID     int         `json:"section_id"`
	StudentID     int         `json:"student_id"`
	Type          SectionType `json:"section_type"`
	StartDate     time.Time   `json:"activity_start_date"`
	TimescaleDays int         `json:"activity_timescale"`
	ActivityType  string      `json:"activity_type"`
	Details       string      `json:"activity_details"`
	Goals         string      `json:"activity_goals"`
	AssessorName  string      `json:"assessor_fullname"`
	AssessorPhone string      `json:"assessor_phone"`
	AssessorEmail string      `json:"assessor_email"`
}

// Key returns the unique section identifier.
func (s Section) Key() int {
	return s.SectionID
}

// EndDate is the planned activity end, start date plus the timescale.
func (s Section) EndDate() time.Time {
	return s.StartDate.AddDate(0, 0, s.TimescaleDays)
}

// Validate checks the record's field constraints, collecting every failure.
// The start-date future window is a creation-form rule, enforced by the
// enrolment service rather than here, so historic records stay loadable.
func (s Section) Validate() error {
	var list validate.List
	if s.SectionID <= 0 {
		list.Add("Section ID", "must be a positive integer")
	}
	if s.StudentID <= 0 {
		list.Add("Student ID", "must be a positive integer")
	}
	if !s.Type.Valid() {
		list.Add("Section Type", "must be one of: vol, skill, phys")
	}
	if s.StartDate.IsZero() {
		list.Add("Activity Start Date", "must be set")
	}
	validTimescale := false
	for _, days := range Timescales() {
		if s.TimescaleDays == days {
			validTimescale = true
		}
	}
	if !validTimescale {
		list.Add("Activity Timescale", "must be one of: 90, 180, 360")
	}
	if _, err := validate.Length(s.ActivityType, 3, 20, "Activity Type"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Length(s.Details, 10, 200, "Activity Details"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Length(s.Goals, 10, 100, "Activity Goals"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Length(s.AssessorName, 2, 30, "Assessor Fullname"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Digits(s.AssessorPhone, 9, 11, "Assessor Phone"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Email(s.AssessorEmail, "Assessor Email"); err != nil {
		list.Capture(err)
	}
	return list.Err()
}
