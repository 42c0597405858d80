package account

import (
	"errors"

	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/internal/store"
	"bitflow/identity-api/pkg/apperr"
	"bitflow/identity-api/validators"
)

// ChangeEmail starts an email change. The pending address lives only
// on the code row until the owner proves they control it; the account
// keeps its current address so an abandoned change leaves nothing to
// roll back. The collision check against other active accounts happens
// at verification time, when the value is actually written.
func (s *Service) ChangeEmail(acct *model.Account, newEmail string) error {
	if err := validators.EmailValidator(newEmail); err != nil {
		return apperr.BadRequest("invalid_email")
	}

	_, err := s.issueCode(acct, model.PurposeEmailChange, &newEmail)
	return err
}

// VerifyChangeEmail writes the pending address from the code row onto
// the account and consumes the code.
func (s *Service) VerifyChangeEmail(acct *model.Account, submitted string) error {
	c, err := s.checkCode(acct, model.PurposeEmailChange, submitted)
	if err != nil {
		return err
	}

	if c.Payload == nil {
		return apperr.Unauthorized("invalid_code")
	}

	if err := s.store.Update(acct, map[string]any{"email": *c.Payload}); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperr.BadRequest("email_already_taken")
		}
		return apperr.Internal(err)
	}
	acct.Email = c.Payload

	if err := s.codes.Consume(c); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ChangePhoneNumber starts a phone number change, normalizing the
// pending value to E.164 before it lands on the code row.
func (s *Service) ChangePhoneNumber(acct *model.Account, newPhone string) error {
	normalized, err := validators.NormalizePhoneNumber(newPhone)
	if err != nil {
		return apperr.BadRequest("invalid_phone_number")
	}

	_, err = s.issueCode(acct, model.PurposePhoneNumberChange, &normalized)
	return err
}

// VerifyChangePhoneNumber writes the pending number from the code row
// onto the account and consumes the code.
func (s *Service) VerifyChangePhoneNumber(acct *model.Account, submitted string) error {
	c, err := s.checkCode(acct, model.PurposePhoneNumberChange, submitted)
	if err != nil {
		return err
	}

	if c.Payload == nil {
		return apperr.Unauthorized("invalid_code")
	}

	if err := s.store.Update(acct, map[string]any{"phone_number": *c.Payload}); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperr.BadRequest("phone_number_already_taken")
		}
		return apperr.Internal(err)
	}
	acct.PhoneNumber = c.Payload

	if err := s.codes.Consume(c); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ChangeUsername writes the new username directly; usernames carry no
// proof-of-possession step. The natural-key lookup catches collisions
// with other active accounts up front, the unique index catches the
// race.
func (s *Service) ChangeUsername(acct *model.Account, username string) error {
	if err := validators.UsernameValidator(username); err != nil {
		return apperr.BadRequest("invalid_username")
	}

	other, err := s.store.FindByNaturalKey(username)
	if err == nil && other.ID != acct.ID {
		return apperr.BadRequest("username_already_taken")
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return apperr.Internal(err)
	}

	if err := s.store.Update(acct, map[string]any{"username": username}); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperr.BadRequest("username_already_taken")
		}
		return apperr.Internal(err)
	}
	acct.Username = &username

	return nil
}
