package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SigningSecretSize is the size of generated HS256 signing secrets.
const SigningSecretSize = 32

// NewSecret returns size random bytes.
func NewSecret(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid secret size")
	}
	secret := make([]byte, size)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// NewSigningSecret returns a random HS256 secret, base64url encoded.
func NewSigningSecret() (string, error) {
	secret, err := NewSecret(SigningSecretSize)
	if err != nil {
		return "", err
	}
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(secret), nil
}
