package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is a salted one-way hash. Hash is called once per distinct password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; zero means cost 10.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify compares in constant time.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
