package account

import (
	"errors"

	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/internal/store"
	"bitflow/identity-api/pkg/apperr"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/google/uuid"
)

// Signup registers an account reachable by the given email or phone
// number. Calling it again with the same identifier before the account
// verifies is a resumable signup: the existing unverified account is
// reused and its signup code refreshed. A verified account fails with
// the identifier-specific taken code.
func (s *Service) Signup(identifier, password string) (*model.Account, error) {
	field, value := store.ClassifyIdentifier(identifier)

	var takenCode string
	switch field {
	case store.FieldEmail:
		takenCode = "email_already_taken"
	case store.FieldPhoneNumber:
		takenCode = "phone_number_already_taken"
	default:
		return nil, apperr.BadRequest("invalid_identifier")
	}

	acct, err := s.store.FindByNaturalKey(value)
	switch {
	case errors.Is(err, store.ErrNotFound):
		acct, err = s.createAccount(field, value, password)
		if errors.Is(err, store.ErrConflict) {
			// A concurrent signup with the same identifier won the
			// constraint race; same failure as finding it up front
			return nil, apperr.BadRequest(takenCode)
		}
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, apperr.Internal(err)
	case acct.IsVerified:
		return nil, apperr.BadRequest(takenCode)
	}

	if _, err := s.issueCode(acct, model.PurposeSignup, nil); err != nil {
		return nil, err
	}

	return acct, nil
}

func (s *Service) createAccount(field store.Field, value, password string) (*model.Account, error) {
	digest, err := s.argon.GenerateFromPassword(password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	userID, err := gonanoid.New()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	acct := &model.Account{
		ID:           uuid.NewString(),
		UserID:       userID,
		User:         model.User{ID: userID, IsActive: true},
		PasswordHash: digest,
	}

	switch field {
	case store.FieldEmail:
		acct.Email = &value
	case store.FieldPhoneNumber:
		acct.PhoneNumber = &value
	}

	if err := s.store.Create(acct); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, store.ErrConflict
		}
		return nil, apperr.Internal(err)
	}

	return acct, nil
}

// ResendSignupCode refreshes and redelivers the signup code for an
// account that exists and hasn't verified yet.
func (s *Service) ResendSignupCode(accountID string) error {
	acct, err := s.store.FindActiveByID(accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("not_found")
		}
		return apperr.Internal(err)
	}

	if acct.IsVerified {
		return apperr.BadRequest("already_verified")
	}

	_, err = s.issueCode(acct, model.PurposeSignup, nil)
	return err
}

// VerifySignup flips is_verified exactly once and consumes the signup
// code so it can't be replayed.
func (s *Service) VerifySignup(accountID, submitted string) error {
	acct, err := s.store.FindActiveByID(accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("not_found")
		}
		return apperr.Internal(err)
	}

	if acct.IsVerified {
		return apperr.BadRequest("already_verified")
	}

	c, err := s.checkCode(acct, model.PurposeSignup, submitted)
	if err != nil {
		return err
	}

	if err := s.store.Update(acct, map[string]any{"is_verified": true}); err != nil {
		return apperr.Internal(err)
	}
	acct.IsVerified = true

	if err := s.codes.Consume(c); err != nil {
		return apperr.Internal(err)
	}

	return nil
}
