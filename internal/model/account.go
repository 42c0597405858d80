// Package model contains the gorm models shared across the application
package model

import "time"

// Account holds the identifiers and credentials of a single identity.
// Username, email and phone number are all nullable, but at least one
// of email/phone must be set. Uniqueness of the three identifiers is
// enforced with partial indexes scoped to rows that aren't soft
// deleted, so a deleted account's identifiers can be reused.
type Account struct {
	ID           string     `gorm:"size:36;primaryKey"`
	UserID       string     `gorm:"size:21;not null;uniqueIndex"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Username     *string    `gorm:"size:128;uniqueIndex:uniq_accounts_username,where:deleted_at IS NULL"`
	Email        *string    `gorm:"size:254;uniqueIndex:uniq_accounts_email,where:deleted_at IS NULL"`
	PhoneNumber  *string    `gorm:"size:32;uniqueIndex:uniq_accounts_phone_number,where:deleted_at IS NULL"`
	PasswordHash string     `gorm:"size:256;not null"`
	IsVerified   bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
}

func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}
