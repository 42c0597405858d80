package validators

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

var ErrPhoneNumberInvalid = errors.New("phone number must be in full international format, " +
	"a plus sign followed by country code and local number")

// NormalizePhoneNumber parses a raw phone number and returns its
// canonical E.164 form. The input must already carry the country code
// prefix; numbers without one can't be resolved to a region and are
// rejected.
func NormalizePhoneNumber(raw string) (string, error) {
	parsed, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return "", ErrPhoneNumberInvalid
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrPhoneNumberInvalid
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// IsPhoneNumber reports whether v parses as a valid international
// phone number.
func IsPhoneNumber(v string) bool {
	_, err := NormalizePhoneNumber(v)
	return err == nil
}
