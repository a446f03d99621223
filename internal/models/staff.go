package models

import "github.com/noah-isme/award-tracker/pkg/validate"

// Staff represents a staff account able to review enrolments and manage
// student records. Staff rows are provisioned administratively and are
// read-only afterwards except for credential rotation.
type Staff struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	FullName     string `json:"fullname"`
}

// Key returns the unique username.
func (s Staff) Key() string {
	return s.Username
}

// Validate checks the record's field constraints, collecting every failure.
func (s Staff) Validate() error {
	var list validate.List
	if _, err := validate.Length(s.Username, 2, 30, "Username"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.NonEmpty(s.PasswordHash, "Password Hash"); err != nil {
		list.Capture(err)
	}
	if _, err := validate.Length(s.FullName, 2, 30, "Fullname"); err != nil {
		list.Capture(err)
	}
	return list.Err()
}
