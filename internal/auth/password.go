package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// HashSecurityAnswer derives the stored form of a security answer:
// lowercase, trim, SHA-256, base64. Internal spaces and accents are
// significant. Deliberately unsalted; the answer is a low-entropy secondary
// factor, not a password.
func HashSecurityAnswer(answer string) string {
	normalized := strings.TrimSpace(strings.ToLower(answer))
	digest := sha256.Sum256([]byte(normalized))
	return base64.StdEncoding.EncodeToString(digest[:])
}

// VerifySecurityAnswer re-derives the hash and compares in constant time.
func VerifySecurityAnswer(answer, hashed string) bool {
	derived := HashSecurityAnswer(answer)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hashed)) == 1
}
