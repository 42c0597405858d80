// Package account implements the orchestration service every boundary
// handler talks to. It sequences the identity store, the verification
// code engine, the token manager and the notification sink, and raises
// typed failures with stable code strings.
//
// All verification flows share one check order: existence, then
// current state, then code presence, then code expiry, then the value
// comparison. Expiry comes before the comparison on purpose: an
// expired-but-correct code must report code_expired, not invalid_code.
package account

import (
	"errors"

	"bitflow/identity-api/internal/code"
	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/internal/notify"
	"bitflow/identity-api/internal/store"
	"bitflow/identity-api/pkg/apperr"
	"bitflow/identity-api/pkg/security"
)

type Service struct {
	store    *store.AccountStore
	codes    *code.Engine
	tokens   *security.TokenManager
	argon    *security.ArgonHash
	notifier notify.Notifier
}

func NewService(
	st *store.AccountStore,
	codes *code.Engine,
	tokens *security.TokenManager,
	argon *security.ArgonHash,
	notifier notify.Notifier,
) *Service {
	return &Service{
		store:    st,
		codes:    codes,
		tokens:   tokens,
		argon:    argon,
		notifier: notifier,
	}
}

// TokenPair is what a successful signin or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// resolve looks an identifier up in the active set, mapping a miss to
// the not_found failure every flow reports.
func (s *Service) resolve(identifier string) (*model.Account, error) {
	acct, err := s.store.FindByNaturalKey(identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("not_found")
		}
		return nil, apperr.Internal(err)
	}

	return acct, nil
}

// issueCode creates or refreshes the code for (account, purpose) and
// hands it to the notification sink. Refreshing replaces the payload
// and restarts the expiry window, so a repeated request always leaves
// exactly one live code behind.
func (s *Service) issueCode(acct *model.Account, purpose model.Purpose, payload *string) (*model.VerificationCode, error) {
	c, created, err := s.codes.Ensure(acct.ID, purpose, payload)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if !created {
		if err := s.codes.Refresh(c, payload); err != nil {
			return nil, apperr.Internal(err)
		}
	}

	s.notifier.Notify(purpose, acct, c)
	return c, nil
}

// checkCode runs the shared tail of every verify flow: code presence,
// expiry, then the value comparison against both derived forms.
func (s *Service) checkCode(acct *model.Account, purpose model.Purpose, submitted string) (*model.VerificationCode, error) {
	c, err := s.codes.Find(acct.ID, purpose)
	if err != nil {
		if errors.Is(err, code.ErrNoCode) {
			return nil, apperr.Unauthorized("invalid_code")
		}
		return nil, apperr.Internal(err)
	}

	if s.codes.IsExpired(c) {
		return nil, apperr.Unauthorized("code_expired")
	}

	if !s.codes.Verify(c, submitted) {
		return nil, apperr.Unauthorized("invalid_code")
	}

	return c, nil
}

// DeleteAccount soft-deletes the account, freeing its identifiers up
// for reuse. The row survives and can be restored by support tooling.
func (s *Service) DeleteAccount(acct *model.Account) error {
	if err := s.store.SoftDelete(acct); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
