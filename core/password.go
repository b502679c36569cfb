package core

import "golang.org/x/crypto/bcrypt"

// bcrypt only looks at the first 72 bytes of its input. Longer passwords are
// truncated here so the behaviour is explicit: bytes beyond the limit never
// influence the stored hash, and verification applies the same rule.
const maxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword produces a self-contained bcrypt hash (random salt and cost
// embedded) for the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash. A malformed
// stored hash counts as a mismatch: verification fails closed, it never
// grants access or panics on bad input.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(password)) == nil
}
