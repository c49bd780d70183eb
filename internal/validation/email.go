package validation

import (
	"errors"
	"net/mail"
	"strings"
)

const maxEmailLength = 254

// ValidateEmail accepts a bare RFC 5322 address. Display-name forms such as
// "Alice <alice@example.com>" are rejected since the value is compared
// against the identity provider's address.
func ValidateEmail(email string) error {
	switch {
	case email == "":
		return errors.New("email address is required")
	case len(email) > maxEmailLength:
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || !strings.EqualFold(addr.Address, email) {
		return errors.New("invalid email address format")
	}
	return nil
}
