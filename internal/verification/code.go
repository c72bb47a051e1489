// Package verification generates and checks one-time email verification codes.
package verification

import (
	"crypto/rand"
	"crypto/subtle"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// GenerateCode returns a 6-digit numeric verification code (e.g. "123456").
// Uses crypto/rand for randomness. Codes are scoped per account, so collisions
// across accounts are harmless.
func GenerateCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := make([]byte, CodeLength)
	for i := 0; i < CodeLength; i++ {
		s[i] = '0' + (b[i] % 10)
	}
	return string(s), nil
}

// ValidateCode reports whether provided matches the stored code. Returns false
// when no code is stored. Codes are not aged out here even though a
// VERIFICATION_CODE_EXPIRE_HOURS setting exists; the reaper bounds how long an
// unverified account (and with it the code) survives.
func ValidateCode(stored, provided string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) == 1
}
