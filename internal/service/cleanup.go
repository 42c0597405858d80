// Package service holds the background jobs attached at startup
package service

import (
	"time"

	"bitflow/identity-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CodeCleanup periodically hard-deletes verification codes whose
// expiry window has long passed. Expiry itself is checked at
// verification time; this only keeps the table from growing forever.
func CodeCleanup(t time.Duration, db *gorm.DB, expiry time.Duration) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Code cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			cutoff := time.Now().Add(-expiry)

			res := db.
				Where("updated_at < ?", cutoff).
				Delete(&model.VerificationCode{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired codes", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired codes", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}

// AccountCleanup soft-deletes accounts that never verified within
// maxAge, freeing their identifiers up for reuse. Soft delete keeps
// the rows restorable by support tooling.
func AccountCleanup(t time.Duration, db *gorm.DB, maxAge time.Duration) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			cutoff := time.Now().Add(-maxAge)

			res := db.
				Model(&model.Account{}).
				Where("is_verified = ? AND deleted_at IS NULL AND created_at < ?", false, cutoff).
				Update("deleted_at", time.Now())
			if res.Error != nil {
				zap.L().Error("Failed to cleanup unverified accounts", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Info("Soft-deleted stale unverified accounts", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
