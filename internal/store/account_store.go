// Package store implements the durable identity store on top of gorm.
// Identifier uniqueness and the one-code-per-purpose rule are enforced
// by database constraints, never by read-then-write checks, so
// concurrent writers can't both succeed.
package store

import (
	"errors"
	"time"

	"bitflow/identity-api/internal/model"
	"bitflow/identity-api/validators"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("account not found")
	ErrConflict = errors.New("identifier already taken")
)

// Field names an Account identifier column a natural key resolved to.
type Field string

const (
	FieldEmail       Field = "email"
	FieldPhoneNumber Field = "phone_number"
	FieldUsername    Field = "username"
)

// ClassifyIdentifier decides which identifier column a user-supplied
// value refers to. The order is fixed: anything that parses as an
// email is an email, else anything that parses as an international
// phone number is a phone number, else it's a username. Phone numbers
// are normalized to E.164 so lookups match the stored canonical form.
func ClassifyIdentifier(identifier string) (Field, string) {
	if validators.IsEmail(identifier) {
		return FieldEmail, identifier
	}

	if normalized, err := validators.NormalizePhoneNumber(identifier); err == nil {
		return FieldPhoneNumber, normalized
	}

	return FieldUsername, identifier
}

type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// FindByNaturalKey resolves an email, phone number or username to the
// single non-deleted account carrying it.
func (s *AccountStore) FindByNaturalKey(identifier string) (*model.Account, error) {
	field, value := ClassifyIdentifier(identifier)

	var acct model.Account

	err := s.db.
		Where(string(field)+" = ?", value).
		Where("deleted_at IS NULL").
		Preload("User").
		First(&acct).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acct, nil
}

// FindByID loads an account regardless of its soft-delete state.
// Callers that must reject deleted accounts check IsDeleted themselves
// so they can report a dedicated failure code.
func (s *AccountStore) FindByID(id string) (*model.Account, error) {
	var acct model.Account

	err := s.db.Where("id = ?", id).Preload("User").First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acct, nil
}

// FindActiveByID loads a non-deleted account by id.
func (s *AccountStore) FindActiveByID(id string) (*model.Account, error) {
	var acct model.Account

	err := s.db.
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Preload("User").
		First(&acct).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &acct, nil
}

// Create persists a new account together with its linked user record
// in one transaction. A unique index violation surfaces as ErrConflict.
func (s *AccountStore) Create(acct *model.Account) error {
	if acct.Email == nil && acct.PhoneNumber == nil {
		return errors.New("account needs at least one of email or phone number")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&acct.User).Error; err != nil {
			return err
		}
		return tx.Create(acct).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}

	return nil
}

// Update writes the given fields and stamps updated_at. The write runs
// against a detached model: gorm applies map values to the target
// struct before the SQL executes, which would leave stale state on the
// caller when the write fails. Callers mirror fields on success
// themselves. Identifier collisions with another active account
// surface as ErrConflict.
func (s *AccountStore) Update(acct *model.Account, fields map[string]any) error {
	err := s.db.Model(&model.Account{ID: acct.ID}).Updates(fields).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}

	return nil
}

// SoftDelete marks the account deleted without removing the row, which
// frees its identifiers up for reuse by the partial unique indexes.
func (s *AccountStore) SoftDelete(acct *model.Account) error {
	if acct.IsDeleted() {
		return nil
	}

	now := time.Now()
	if err := s.Update(acct, map[string]any{"deleted_at": &now}); err != nil {
		return err
	}

	acct.DeletedAt = &now
	return nil
}

// Restore clears the soft-delete marker. The write fails with
// ErrConflict if another active account claimed one of the identifiers
// in the meantime.
func (s *AccountStore) Restore(acct *model.Account) error {
	if !acct.IsDeleted() {
		return nil
	}

	err := s.Update(acct, map[string]any{"deleted_at": nil})
	if err != nil {
		return err
	}

	acct.DeletedAt = nil
	return nil
}

// SetUserActive flips the suspension flag on the linked user record.
func (s *AccountStore) SetUserActive(acct *model.Account, active bool) error {
	err := s.db.Model(&model.User{ID: acct.UserID}).Update("is_active", active).Error
	if err != nil {
		return err
	}

	acct.User.IsActive = active
	return nil
}
