package model

import "time"

// User is the login principal an Account is linked to. Suspension is
// tracked here so an operator can lock a user out without touching
// the account row itself.
type User struct {
	ID        string `gorm:"size:21;primaryKey"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
