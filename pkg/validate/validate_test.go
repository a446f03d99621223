package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

func TestLength(t *testing.T) {
	got, err := Length("hello", 2, 10, "Fullname")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = Length("a", 2, 10, "Fullname")
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Fullname", fe.Field)
}

func TestDigits(t *testing.T) {
	got, err := Digits("01234567890", 9, 11, "Primary Phone")
	require.NoError(t, err)
	assert.Equal(t, "01234567890", got)

	_, err = Digits("0123456", 9, 11, "Primary Phone")
	assert.Error(t, err)

	_, err = Digits("01234o6789", 9, 11, "Primary Phone")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	got, err := Lookup("silver", "Award Level", "bronze", "silver", "gold")
	require.NoError(t, err)
	assert.Equal(t, "silver", got)

	_, err = Lookup("platinum", "Award Level", "bronze", "silver", "gold")
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "bronze, silver, gold")
}

func TestEmail(t *testing.T) {
	got, err := Email("abc@def.ghi", "Primary Email")
	require.NoError(t, err)
	assert.Equal(t, "abc@def.ghi", got)

	for _, bad := range []string{"", "a@b", "not-an-email", "two@@example.com"} {
		_, err := Email(bad, "Primary Email")
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestDate(t *testing.T) {
	got, err := Date("2008/03/14", "Date of birth")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2008, 3, 14, 0, 0, 0, 0, time.UTC), got)

	_, err = Date("2008-03-14", "Date of birth")
	assert.Error(t, err)

	_, err = Date("2008/02/31", "Date of birth")
	assert.Error(t, err)
}

func TestDateWithin(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 16 years before now: inside the 10-to-25-year age window.
	got, err := DateWithin("2008/03/14", -365.25*25, -365.25*10, "Date of birth", now)
	require.NoError(t, err)
	assert.Equal(t, 2008, got.Year())

	// Too recent: only 4 years before now.
	_, err = DateWithin("2020/03/14", -365.25*25, -365.25*10, "Date of birth", now)
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Date of birth", fe.Field)

	// Too old: 30 years before now.
	_, err = DateWithin("1994/03/14", -365.25*25, -365.25*10, "Date of birth", now)
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	got, err := Int(" 42 ", "Student ID")
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Int("forty-two", "Student ID")
	assert.Error(t, err)
}

func TestListCollectsEveryFailure(t *testing.T) {
	var list List
	_, err := Length("x", 2, 30, "Fullname")
	list.Capture(err)
	_, err = Digits("123", 9, 11, "Primary Phone")
	list.Capture(err)
	_, err = Email("abc@def.ghi", "Primary Email")
	list.Capture(err) // nil, must not be recorded

	require.Len(t, list, 2)
	assert.Equal(t, "Fullname", list[0].Field)
	assert.Equal(t, "Primary Phone", list[1].Field)

	err = list.Err()
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)

	recovered := ListFrom(err)
	require.Len(t, recovered, 2)
}

func TestListErrEmpty(t *testing.T) {
	var list List
	assert.NoError(t, list.Err())
	assert.Nil(t, ListFrom(nil))
}

func TestStruct(t *testing.T) {
	type input struct {
		Name  string `validate:"required,min=2"`
		Level string `validate:"required,oneof=bronze silver gold"`
	}

	assert.NoError(t, Struct(input{Name: "ok", Level: "gold"}))

	err := Struct(input{Name: "x", Level: "platinum"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
	assert.Len(t, ListFrom(err), 2)
}
