package account

import (
	"errors"

	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/internal/store"
	"bitflow/identity-api/pkg/apperr"
	"bitflow/identity-api/pkg/security"
)

// Signin authenticates by natural key and password and returns a fresh
// access/refresh token pair. The check order is part of the contract:
// verification state before the password comparison, suspension after
// it.
func (s *Service) Signin(identifier, password string) (*TokenPair, error) {
	acct, err := s.resolve(identifier)
	if err != nil {
		return nil, err
	}

	if !acct.IsVerified {
		return nil, apperr.Unauthorized("account_not_verified")
	}

	ok, err := s.argon.VerifyPassword(password, acct.PasswordHash)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.Unauthorized("invalid_password")
	}

	if !acct.User.IsActive {
		return nil, apperr.Unauthorized("user_suspended")
	}

	return s.issuePair(acct.ID)
}

// AuthenticateByAccessToken is the contract the auth middleware
// consumes: token to authenticated principal. The token itself is
// stateless, so account state (deleted, suspended) is re-checked on
// every call.
func (s *Service) AuthenticateByAccessToken(token string) (*model.Account, error) {
	acct, err := s.principalFromToken(token)
	if err != nil {
		return nil, err
	}

	return acct, nil
}

// RefreshAccessToken exchanges a refresh token for a brand new pair.
// Refresh is a client retry path, not a credential check, so every
// failure here is reported as a bad request rather than unauthorized.
// The old refresh token is not revoked; it runs out its natural expiry.
func (s *Service) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	acct, err := s.principalFromToken(refreshToken)
	if err != nil {
		e := apperr.From(err)
		if e.Kind == apperr.KindUnauthorized {
			return nil, apperr.BadRequest(e.Code)
		}
		return nil, err
	}

	return s.issuePair(acct.ID)
}

// principalFromToken verifies a token and reloads its subject account,
// reporting unauthorized codes. Deleted and suspended principals are
// rejected even while their tokens are still cryptographically valid.
func (s *Service) principalFromToken(token string) (*model.Account, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, apperr.Unauthorized("token_expired")
		}
		return nil, apperr.Unauthorized("invalid_token")
	}

	acct, err := s.store.FindByID(subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid_token")
		}
		return nil, apperr.Internal(err)
	}

	if acct.IsDeleted() {
		return nil, apperr.Unauthorized("user_deleted")
	}

	if !acct.User.IsActive {
		return nil, apperr.Unauthorized("user_suspended")
	}

	return acct, nil
}

func (s *Service) issuePair(accountID string) (*TokenPair, error) {
	access, refresh, err := s.tokens.IssuePair(accountID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
