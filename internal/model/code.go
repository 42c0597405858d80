package model

import "time"

// Purpose tags what a verification code was issued for.
type Purpose string

const (
	PurposeSignup            Purpose = "signup"
	PurposePasswordReset     Purpose = "password_reset"
	PurposeEmailChange       Purpose = "email_change"
	PurposePhoneNumberChange Purpose = "phone_number_change"
)

// VerificationCode is a single-use, time-bounded code. The row id is
// the secret material both derived code forms are computed from, and
// UpdatedAt doubles as the issued-at timestamp: refreshing a code bumps
// UpdatedAt, which restarts the expiry window and rotates the short
// numeric code. The unique index keeps at most one outstanding code
// per (account, purpose).
type VerificationCode struct {
	ID        string  `gorm:"size:36;primaryKey"`
	AccountID string  `gorm:"size:36;not null;uniqueIndex:uniq_codes_account_purpose"`
	Account   Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Purpose   Purpose `gorm:"size:32;not null;uniqueIndex:uniq_codes_account_purpose"`

	// Payload carries the pending new value for the email/phone change
	// purposes. Unused for signup and password reset.
	Payload *string `gorm:"size:254"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}
