package models

import "github.com/noah-isme/award-tracker/pkg/validate"

// StudentLogin maps a login credential to exactly one student record.
type StudentLogin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	StudentID    int    `json:"student_id"`
}

// Key returns the unique username.
func (l StudentLogin) Key() string {
	return l.Username
}

// Validate checks the record's field constraints, collecting every failure.
func (l StudentLogin) Validate() error {
	var list validate.List
	if _, err := validate.Length(l.Username, 2, 30, "Username"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.NonEmpty(l.PasswordHash, "Password Hash"); err != nil {
		list.Capture(err)
	}
	if l.StudentID <= 0 {
		list.Add("Student ID", "must be a positive integer")
	}
	return list.Err()
}
