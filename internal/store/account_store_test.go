package store

import (
	"testing"

	"bitflow/identity-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Account{}, model.VerificationCode{}))
	return db
}

func newAccount(email, phone, username *string) *model.Account {
	userID := uuid.NewString()
	return &model.Account{
		ID:           uuid.NewString(),
		UserID:       userID,
		User:         model.User{ID: userID, IsActive: true},
		Email:        email,
		PhoneNumber:  phone,
		Username:     username,
		PasswordHash: "digest",
	}
}

func str(s string) *string { return &s }

func TestClassifyIdentifier(t *testing.T) {
	field, value := ClassifyIdentifier("a@x.com")
	assert.Equal(t, FieldEmail, field)
	assert.Equal(t, "a@x.com", value)

	field, value = ClassifyIdentifier("+1 415 555 2671")
	assert.Equal(t, FieldPhoneNumber, field)
	assert.Equal(t, "+14155552671", value)

	field, value = ClassifyIdentifier("some_user")
	assert.Equal(t, FieldUsername, field)
	assert.Equal(t, "some_user", value)
}

func TestCreateRequiresContactIdentifier(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	err := s.Create(newAccount(nil, nil, str("ghost")))
	assert.Error(t, err)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	require.NoError(t, s.Create(newAccount(str("a@x.com"), nil, nil)))

	err := s.Create(newAccount(str("a@x.com"), nil, nil))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestFindByNaturalKeyResolvesEachField(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	acct := newAccount(str("a@x.com"), str("+14155552671"), str("some_user"))
	require.NoError(t, s.Create(acct))

	for _, identifier := range []string{"a@x.com", "+1 415 555 2671", "some_user"} {
		found, err := s.FindByNaturalKey(identifier)
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, acct.ID, found.ID)
	}

	_, err := s.FindByNaturalKey("nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPreloadsUser(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	acct := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(acct))

	found, err := s.FindByNaturalKey("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, acct.UserID, found.User.ID)
	assert.True(t, found.User.IsActive)
}

func TestSoftDeleteFreesIdentifiers(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	first := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(first))
	require.NoError(t, s.SoftDelete(first))
	assert.True(t, first.IsDeleted())

	// Deleted rows drop out of natural key resolution
	_, err := s.FindByNaturalKey("a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// And the identifier becomes claimable again
	second := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(second))

	found, err := s.FindByNaturalKey("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
}

func TestFindByIDIncludesDeleted(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	acct := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(acct))
	require.NoError(t, s.SoftDelete(acct))

	found, err := s.FindByID(acct.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDeleted())

	_, err = s.FindActiveByID(acct.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreConflictsWithNewClaimant(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	first := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(first))
	require.NoError(t, s.SoftDelete(first))

	second := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(second))

	err := s.Restore(first)
	assert.ErrorIs(t, err, ErrConflict)

	// The failed write must not flip the in-memory soft-delete state;
	// the row is still deleted and the struct has to agree
	assert.True(t, first.IsDeleted())

	row, err := s.FindByID(first.ID)
	require.NoError(t, err)
	assert.True(t, row.IsDeleted())
}

func TestUpdateIdentifierConflict(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	require.NoError(t, s.Create(newAccount(str("a@x.com"), nil, nil)))

	other := newAccount(str("b@x.com"), nil, nil)
	require.NoError(t, s.Create(other))

	err := s.Update(other, map[string]any{"email": "a@x.com"})
	assert.ErrorIs(t, err, ErrConflict)

	// Neither the struct nor the row picked up the conflicting value
	require.NotNil(t, other.Email)
	assert.Equal(t, "b@x.com", *other.Email)

	row, err := s.FindByID(other.ID)
	require.NoError(t, err)
	require.NotNil(t, row.Email)
	assert.Equal(t, "b@x.com", *row.Email)
}

func TestSetUserActive(t *testing.T) {
	s := NewAccountStore(newTestDB(t))

	acct := newAccount(str("a@x.com"), nil, nil)
	require.NoError(t, s.Create(acct))

	require.NoError(t, s.SetUserActive(acct, false))
	assert.False(t, acct.User.IsActive)

	found, err := s.FindByID(acct.ID)
	require.NoError(t, err)
	assert.False(t, found.User.IsActive)
}
