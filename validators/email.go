// Package validators contains the identifier and credential format
// validators used across the application
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	// mail.ParseAddress accepts the "Name <addr>" form, which is not a
	// usable account identifier
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e || !strings.Contains(e, "@") {
		return ErrEmailInvalid
	}

	return nil
}

// IsEmail reports whether v parses as a bare email address.
func IsEmail(v string) bool {
	return EmailValidator(v) == nil
}
