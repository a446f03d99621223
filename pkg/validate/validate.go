// Package validate provides the field validators used across record types
// and submission flows. Every validator is pure: it returns either the
// normalised value or a FieldError naming the offending field, and composite
// callers collect every failure through a List rather than stopping at the
// first.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

// DateLayout is the date form accepted from users and stored in text fields.
const DateLayout = "2006/01/02"

const emailMaxLen = 50

var v10 = validator.New()

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// List accumulates field errors across a composite validation pass.
type List []FieldError

func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, fe := range l {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// Add records a failure for the named field.
func (l *List) Add(field, message string) {
	*l = append(*l, FieldError{Field: field, Message: message})
}

// Capture appends err to the list when it is a non-nil field error.
func (l *List) Capture(err error) {
	if err == nil {
		return
	}
	var fe FieldError
	if errors.As(err, &fe) {
		*l = append(*l, fe)
		return
	}
	*l = append(*l, FieldError{Field: "", Message: err.Error()})
}

// Err returns nil when no failures were collected, otherwise a
// VALIDATION_ERROR wrapping the full list.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return apperrors.Wrap(l, apperrors.ErrValidation.Code, apperrors.ErrValidation.Message)
}

// ListFrom extracts the collected field errors from an error returned by a
// composite validation, or nil when err carries none.
func ListFrom(err error) List {
	var l List
	if errors.As(err, &l) {
		return l
	}
	return nil
}

// NonEmpty verifies that value is not blank.
func NonEmpty(value, field string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", FieldError{Field: field, Message: "must not be empty"}
	}
	return value, nil
}

// Length verifies that value is between min and max characters (inclusive).
func Length(value string, min, max int, field string) (string, error) {
	if len(value) < min || len(value) > max {
		return "", FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d characters long", min, max),
		}
	}
	return value, nil
}

// Digits verifies that value consists solely of digits and is between min
// and max characters long. Used for phone numbers, which keep their leading
// zeroes and so are never stored as integers.
func Digits(value string, min, max int, field string) (string, error) {
	if len(value) < min || len(value) > max {
		return "", FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d digits long", min, max),
		}
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", FieldError{Field: field, Message: "must contain only digits"}
		}
	}
	return value, nil
}

// Lookup verifies that value is one of the allowed options.
func Lookup(value, field string, options ...string) (string, error) {
	for _, opt := range options {
		if value == opt {
			return value, nil
		}
	}
	return "", FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(options, ", ")),
	}
}

// Int verifies that value parses as an integer.
func Int(value, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, FieldError{Field: field, Message: "must be an integer"}
	}
	return n, nil
}

// Email verifies that value is a plausible email address of at most 50
// characters.
func Email(value, field string) (string, error) {
	if len(value) < 5 || len(value) > emailMaxLen {
		return "", FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between 5 and %d characters long", emailMaxLen),
		}
	}
	if err := v10.Var(value, "email"); err != nil {
		return "", FieldError{Field: field, Message: "must be a valid email address (abc@def.ghi)"}
	}
	return value, nil
}

// Date parses value in YYYY/MM/DD form.
func Date(value, field string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, FieldError{Field: field, Message: "must be a valid date in YYYY/MM/DD form"}
	}
	return t, nil
}

// DateWithin parses value in YYYY/MM/DD form and verifies it falls strictly
// inside the window from now+earliestDays to now+latestDays. Offsets are in
// days; negative values reach into the past.
func DateWithin(value string, earliestDays, latestDays float64, field string, now time.Time) (time.Time, error) {
	t, err := Date(value, field)
	if err != nil {
		return time.Time{}, err
	}
	earliest := now.Add(time.Duration(earliestDays * 24 * float64(time.Hour)))
	latest := now.Add(time.Duration(latestDays * 24 * float64(time.Hour)))
	if !t.After(earliest) || !t.Before(latest) {
		return time.Time{}, FieldError{
			Field: field,
			Message: fmt.Sprintf("must fall between %s and %s",
				earliest.Format(DateLayout), latest.Format(DateLayout)),
		}
	}
	return t, nil
}

// Struct runs go-playground struct-tag validation and converts any failures
// into a collected field-error list.
func Struct(s any) error {
	err := v10.Struct(s)
	if err == nil {
		return nil
	}
	var list List
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			list.Add(fe.Field(), fmt.Sprintf("failed on the %q rule", fe.Tag()))
		}
		return list.Err()
	}
	return apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Message)
}
