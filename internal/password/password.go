// Package password wraps bcrypt hashing and verification of user passwords.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// Cost is the bcrypt work factor used for new hashes. Existing hashes carry
// their own cost and verify regardless of this value.
const Cost = bcrypt.DefaultCost

// Normalize applies NFKD normalization so that visually identical passwords
// produce the same bytes regardless of the client's Unicode composition.
func Normalize(password string) string {
	return norm.NFKD.String(password)
}

// Hash derives a bcrypt digest from the password. The digest embeds a random
// per-call salt and the cost factor, so two calls with the same input never
// produce the same output.
func Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(Normalize(password)), Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches the stored bcrypt digest.
// A malformed digest verifies as false rather than returning an error:
// callers treat any mismatch the same way, so there is nothing useful to
// propagate.
func Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(Normalize(password))) == nil
}
