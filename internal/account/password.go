package account

import (
	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/pkg/apperr"
)

// ResetPassword starts the forgotten-password flow for a verified
// account: create or refresh the reset code and hand it to the
// notification sink. A miss and an unverified account are reported
// with distinct codes; that exposure is a deliberate part of the
// contract.
func (s *Service) ResetPassword(identifier string) error {
	acct, err := s.resolve(identifier)
	if err != nil {
		return err
	}

	if !acct.IsVerified {
		return apperr.Unauthorized("account_not_verified")
	}

	_, err = s.issueCode(acct, model.PurposePasswordReset, nil)
	return err
}

// VerifyResetPassword trades a valid reset code for a new password
// digest and consumes the code.
func (s *Service) VerifyResetPassword(identifier, submitted, newPassword string) error {
	acct, err := s.resolve(identifier)
	if err != nil {
		return err
	}

	if !acct.IsVerified {
		return apperr.BadRequest("account_not_verified")
	}

	c, err := s.checkCode(acct, model.PurposePasswordReset, submitted)
	if err != nil {
		return err
	}

	digest, err := s.argon.GenerateFromPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.store.Update(acct, map[string]any{"password_hash": digest}); err != nil {
		return apperr.Internal(err)
	}
	acct.PasswordHash = digest

	if err := s.codes.Consume(c); err != nil {
		return apperr.Internal(err)
	}

	return nil
}

// ChangePassword rotates the password of an already-authenticated
// account. No code step; possession of the current password is the
// proof.
func (s *Service) ChangePassword(acct *model.Account, oldPassword, newPassword string) error {
	ok, err := s.argon.VerifyPassword(oldPassword, acct.PasswordHash)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.Unauthorized("invalid_password")
	}

	digest, err := s.argon.GenerateFromPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.store.Update(acct, map[string]any{"password_hash": digest}); err != nil {
		return apperr.Internal(err)
	}
	acct.PasswordHash = digest

	return nil
}
