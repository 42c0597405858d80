package code

import (
	"encoding/base32"
	"regexp"
	"testing"
	"time"

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

func seedAccount(t *testing.T, db *gorm.DB) *model.Account {
	t.Helper()

	email := "a@x.com"
	userID := uuid.NewString()
	acct := &model.Account{
		ID:           uuid.NewString(),
		UserID:       userID,
		User:         model.User{ID: userID, IsActive: true},
		Email:        &email,
		PasswordHash: "digest",
	}

	require.NoError(t, db.Create(acct).Error)
	return acct
}

// age rewrites a code's updated_at in the database and in the struct,
// simulating the passage of time since the last refresh.
func age(t *testing.T, db *gorm.DB, c *model.VerificationCode, d time.Duration) {
	t.Helper()

	past := time.Now().Add(-d)
	require.NoError(t, db.Model(&model.VerificationCode{}).
		Where("id = ?", c.ID).
		Update("updated_at", past).
		Error)
	c.UpdatedAt = past
}

func TestEnsureCreatesThenReuses(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c1, created, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)
	assert.True(t, created)

	c2, created, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c1.ID, c2.ID)
}

func TestEnsureIsolatedPerPurpose(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c1, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	c2, created, err := e.Ensure(acct.ID, model.PurposePasswordReset, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestRefreshReplacesPayloadAndBumpsUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	pending := "new@x.com"
	c, _, err := e.Ensure(acct.ID, model.PurposeEmailChange, &pending)
	require.NoError(t, err)

	age(t, db, c, time.Hour)
	before := c.UpdatedAt

	replaced := "other@x.com"
	require.NoError(t, e.Refresh(c, &replaced))

	assert.True(t, c.UpdatedAt.After(before))
	require.NotNil(t, c.Payload)
	assert.Equal(t, replaced, *c.Payload)

	reloaded, err := e.Find(acct.ID, model.PurposeEmailChange)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Payload)
	assert.Equal(t, replaced, *reloaded.Payload)
}

func TestIsExpiredBoundaries(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	assert.False(t, e.IsExpired(c))

	age(t, db, c, DefaultExpiry-time.Minute)
	assert.False(t, e.IsExpired(c))

	age(t, db, c, DefaultExpiry+time.Second)
	assert.True(t, e.IsExpired(c))
}

func TestLongCodeIsStableBase32OfID(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	long := LongCode(c)
	require.Len(t, long, 26)

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(long)
	require.NoError(t, err)

	id, err := uuid.Parse(c.ID)
	require.NoError(t, err)
	assert.Equal(t, id[:], decoded)

	// Stable across refreshes
	require.NoError(t, e.Refresh(c, nil))
	assert.Equal(t, long, LongCode(c))
}

func TestShortCodeIsFrozenAtLastRefresh(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, time.Hour*24)
	acct := seedAccount(t, db)

	c, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	age(t, db, c, time.Hour)

	short1, err := ShortCode(c)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), short1)

	// Wall clock advancing doesn't move the code, only a refresh does
	short2, err := ShortCode(c)
	require.NoError(t, err)
	assert.Equal(t, short1, short2)

	require.NoError(t, e.Refresh(c, nil))
	short3, err := ShortCode(c)
	require.NoError(t, err)
	assert.NotEqual(t, short1, short3)
}

func TestVerifyAcceptsBothFormsOnly(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	short, err := ShortCode(c)
	require.NoError(t, err)

	assert.True(t, e.Verify(c, LongCode(c)))
	assert.True(t, e.Verify(c, short))
	assert.False(t, e.Verify(c, ""))
	assert.False(t, e.Verify(c, "000000"))
	assert.False(t, e.Verify(c, LongCode(c)+"A"))
}

func TestConsumeDeletesTheRow(t *testing.T) {
	db := newTestDB(t)
	e := NewEngine(db, DefaultExpiry)
	acct := seedAccount(t, db)

	c, _, err := e.Ensure(acct.ID, model.PurposeSignup, nil)
	require.NoError(t, err)

	require.NoError(t, e.Consume(c))

	_, err = e.Find(acct.ID, model.PurposeSignup)
	assert.ErrorIs(t, err, ErrNoCode)
}
