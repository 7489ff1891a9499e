package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewResetToken returns a password-reset token and its sha256 digest. Only
// the digest is persisted; the plain token travels once, in the reset link.
func NewResetToken() (token, digest string) {
	token = uuid.NewString()
	return token, HashResetToken(token)
}

// HashResetToken computes the hex sha256 digest used to look up a stored
// reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// MaskEmail hides most of an address for display on the reset-validation
// screen, e.g. "jdoe@example.com" -> "j***@example.com".
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
