package utils

import "golang.org/x/crypto/bcrypt"

// Webhook callers authenticate with a shared secret; only its bcrypt hash
// lives in the environment.

func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(b), err
}

func CheckSecret(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}
