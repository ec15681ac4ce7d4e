package utils

import "golang.org/x/crypto/bcrypt"

// VerifyPassword safely compares a stored bcrypt hash against a plain
// password. Hashing happens offline when the USER_PASSWORD_ENCODED env var is
// produced, so only verification is needed at runtime.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
