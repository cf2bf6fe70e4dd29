package validator

import (
	"fmt"
	"regexp"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 100
	minPasswordLength = 6
	maxPasswordLength = 72
	maxNameLength     = 100
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errNameEmptyFmt         = "name cannot be empty"
	errNameMaxLengthFmt     = "name must not exceed %d characters"
	errNameControlCharsFmt  = "name cannot contain control characters"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

// Password bounds the length; bcrypt ignores everything past 72 bytes.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func DisplayName(name string) error {
	if name == "" {
		return fmt.Errorf(errNameEmptyFmt)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, maxNameLength)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errNameControlCharsFmt)
		}
	}

	return nil
}
