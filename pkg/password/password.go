// Package password implements salted one-way hashing of credentials.
//
// The stored form is a 192-character hex string: a 64-character salt (the
// SHA-256 digest of 60 random bytes) followed by the 128-character
// PBKDF2-SHA512 derivation of the plaintext. This layout round-trips the
// credential files produced by earlier releases, so it is fixed.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"unicode"

	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

const (
	// DefaultIterations is the PBKDF2 iteration count used when none is
	// configured.
	DefaultIterations = 100000

	saltHexLen = 64
	keyLen     = 64
	storedLen  = saltHexLen + 2*keyLen

	maxPlaintextLen = 100
)

// Hasher derives and verifies stored credential hashes.
type Hasher struct {
	iterations int
}

// NewHasher returns a Hasher with the given PBKDF2 iteration count,
// defaulting when the count is not positive.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

// Hash derives a stored hash for plaintext under a fresh random salt.
// Hashing the same plaintext twice yields distinct stored values.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPlaintextLen {
		return "", apperrors.Wrap(
			fmt.Errorf("plaintext exceeds %d characters", maxPlaintextLen),
			apperrors.ErrValidation.Code, "password too long")
	}

	var raw [60]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, "failed to generate salt")
	}
	sum := sha256.Sum256(raw[:])
	salt := hex.EncodeToString(sum[:])

	key := pbkdf2.Key([]byte(plaintext), []byte(salt), h.iterations, keyLen, sha512.New)
	return salt + hex.EncodeToString(key), nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// is constant-time. A malformed stored hash yields (false, CORRUPT_CREDENTIAL)
// rather than a panic, so callers can log the corruption separately from an
// ordinary mismatch.
func (h *Hasher) Verify(plaintext, stored string) (bool, error) {
	if len(stored) != storedLen {
		return false, apperrors.Clone(apperrors.ErrCorruptCredential,
			fmt.Sprintf("stored hash has length %d, want %d", len(stored), storedLen))
	}
	salt := stored[:saltHexLen]
	want, err := hex.DecodeString(stored[saltHexLen:])
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrCorruptCredential.Code,
			apperrors.ErrCorruptCredential.Message)
	}

	got := pbkdf2.Key([]byte(plaintext), []byte(salt), h.iterations, keyLen, sha512.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// StrengthReport records which strength requirements a candidate password
// met.
type StrengthReport struct {
	Length   bool // between 6 and 100 characters
	OneLower bool
	OneUpper bool
	OneDigit bool
}

// OK reports whether every requirement passed.
func (r StrengthReport) OK() bool {
	return r.Length && r.OneLower && r.OneUpper && r.OneDigit
}

// Failures lists a human-readable message per failed requirement.
func (r StrengthReport) Failures() []string {
	var msgs []string
	if !r.Length {
		msgs = append(msgs, "password must be between 6 and 100 characters long")
	}
	if !r.OneLower {
		msgs = append(msgs, "password must contain at least one lowercase letter")
	}
	if !r.OneUpper {
		msgs = append(msgs, "password must contain at least one uppercase letter")
	}
	if !r.OneDigit {
		msgs = append(msgs, "password must contain at least one number")
	}
	return msgs
}

// CheckStrength evaluates plaintext against the account password rules.
func CheckStrength(plaintext string) StrengthReport {
	report := StrengthReport{
		Length: len(plaintext) >= 6 && len(plaintext) <= maxPlaintextLen,
	}
	for _, r := range plaintext {
		switch {
		case unicode.IsLower(r):
			report.OneLower = true
		case unicode.IsUpper(r):
			report.OneUpper = true
		case unicode.IsDigit(r):
			report.OneDigit = true
		}
	}
	return report
}
