package validation

import (
	"errors"
	"fmt"
)

const (
	MinPasswordLength = 8
	// bcrypt silently truncates anything past 72 bytes
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	ErrPasswordRequired = errors.New("password is required")
)

// ValidatePassword enforces the length window accepted by the hasher.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	return nil
}
