// Package code implements the verification code engine: one
// outstanding time-bounded code per (account, purpose), with two
// derived proof values — a long link-embeddable code and a short
// 6-digit code for manual entry.
package code

import (
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"bitflow/identity-api/internal/model"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

// DefaultExpiry is how long a code stays valid after its last refresh.
const DefaultExpiry = 1800 * time.Second

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

type Engine struct {
	db     *gorm.DB
	expiry time.Duration
}

func NewEngine(db *gorm.DB, expiry time.Duration) *Engine {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Engine{db: db, expiry: expiry}
}

// ErrNoCode reports that no outstanding code exists for the requested
// (account, purpose) pair.
var ErrNoCode = errors.New("no outstanding verification code")

// Find returns the outstanding code for (account, purpose) without
// creating one.
func (e *Engine) Find(accountID string, purpose model.Purpose) (*model.VerificationCode, error) {
	var c model.VerificationCode

	err := e.db.
		Where("account_id = ? AND purpose = ?", accountID, purpose).
		First(&c).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCode
		}
		return nil, err
	}

	return &c, nil
}

// Ensure returns the outstanding code for (account, purpose), creating
// one if none exists. The unique index on (account_id, purpose) is the
// only arbiter: if two callers race on the create, the loser re-reads
// the winner's row and reports it as pre-existing.
func (e *Engine) Ensure(accountID string, purpose model.Purpose, payload *string) (*model.VerificationCode, bool, error) {
	var c model.VerificationCode

	err := e.db.
		Where("account_id = ? AND purpose = ?", accountID, purpose).
		First(&c).
		Error
	if err == nil {
		return &c, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	c = model.VerificationCode{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Purpose:   purpose,
		Payload:   payload,
	}

	err = e.db.Create(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the create race, the other writer's row wins
			err = e.db.
				Where("account_id = ? AND purpose = ?", accountID, purpose).
				First(&c).
				Error
			if err != nil {
				return nil, false, err
			}
			return &c, false, nil
		}
		return nil, false, err
	}

	return &c, true, nil
}

// Refresh replaces the payload and bumps updated_at, which restarts
// the expiry window and rotates the short numeric code.
func (e *Engine) Refresh(c *model.VerificationCode, payload *string) error {
	now := time.Now()

	err := e.db.Model(c).Updates(map[string]any{
		"payload":    payload,
		"updated_at": now,
	}).Error
	if err != nil {
		return err
	}

	c.Payload = payload
	c.UpdatedAt = now
	return nil
}

// IsExpired reports whether the expiry window since the last refresh
// has elapsed.
func (e *Engine) IsExpired(c *model.VerificationCode) bool {
	return time.Since(c.UpdatedAt) >= e.expiry
}

// Verify reports whether submitted matches either derived form of the
// code. It does not check expiry; callers check that first so an
// expired-but-correct submission reports expiry, not a mismatch.
func (e *Engine) Verify(c *model.VerificationCode, submitted string) bool {
	long := LongCode(c)
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(long)) == 1 {
		return true
	}

	short, err := ShortCode(c)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(submitted), []byte(short)) == 1
}

// Consume deletes the code row. Called exactly once after a successful
// verification so the code can't be replayed.
func (e *Engine) Consume(c *model.VerificationCode) error {
	return e.db.Delete(c).Error
}

// LongCode derives the link-embeddable form: unpadded base32 of the
// row id's raw bytes. Stable for the lifetime of the row.
func LongCode(c *model.VerificationCode) string {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return ""
	}

	return b32.EncodeToString(id[:])
}

// ShortCode derives the 6-digit form: a TOTP keyed by the long code,
// evaluated at the time-step of the row's last refresh rather than the
// current time. The value a user was shown therefore stays valid for
// the whole expiry window and only rotates when the code is refreshed.
func ShortCode(c *model.VerificationCode) (string, error) {
	secret := LongCode(c)
	if secret == "" {
		return "", errors.New("malformed code id")
	}

	// TOTP secrets are padded base32
	if n := len(secret) % 8; n != 0 {
		secret += strings.Repeat("=", 8-n)
	}

	return totp.GenerateCode(secret, c.UpdatedAt)
}
