package models

// ActivityStatus is the derived progress state of one section for one
// student.
type ActivityStatus string

const (
	StatusNotStarted       ActivityStatus = "NOT_STARTED"
	StatusInProgress       ActivityStatus = "IN_PROGRESS"
	StatusAwaitingApproval ActivityStatus = "AWAITING_APPROVAL"
	StatusComplete         ActivityStatus = "COMPLETE"
)

// DisplayName returns the status string shown by the presentation layer.
func (s ActivityStatus) DisplayName() string {
	switch s {
	case StatusNotStarted:
		return "Not started"
	case StatusInProgress:
		return "In progress"
	case StatusAwaitingApproval:
		return "Awaiting approval"
	case StatusComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// ProgressSummary is the whole-award progress line shown on a student's
// record.
type ProgressSummary string

const (
	ProgressPendingEnrolment ProgressSummary = "Pending enrolment"
	ProgressNeedsApproval    ProgressSummary = "Needs approval"
	ProgressNoneStarted      ProgressSummary = "None started"
	ProgressInProgress       ProgressSummary = "In progress"
	ProgressAllInProgress    ProgressSummary = "All in progress"
	ProgressFullyComplete    ProgressSummary = "Fully complete"
)
