package validation

import (
	"errors"
	"net/mail"
)

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrEmailTooLong  = errors.New("email address is too long (max 254 characters)")
	ErrEmailFormat   = errors.New("invalid email address format")
)

// ValidateEmail accepts a bare RFC 5322 address. Display-name forms such as
// "Ada <ada@example.com>" are rejected because the address is a natural key.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	// RFC 5321 path limit
	if len(email) > 254 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailFormat
	}

	return nil
}
