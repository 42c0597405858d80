package validators

import "errors"

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username is too long")
	ErrUsernameInvalid = errors.New("username contains invalid characters")
)

// UsernameValidator rejects values that would be classified as an
// email or phone number, since a username that looks like another
// identifier type could never be resolved back to this account.
func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) > 128 {
		return ErrUsernameTooLong
	}

	if IsEmail(u) || IsPhoneNumber(u) {
		return ErrUsernameInvalid
	}

	return nil
}
