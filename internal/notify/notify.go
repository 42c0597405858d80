// Package notify delivers verification codes out-of-band. The account
// service treats delivery as fire-and-forget: sink failures are logged
// and never surfaced to the caller.
package notify

import (
	"bitflow/identity-api/internal/code"
	"bitflow/identity-api/internal/model"

	"go.uber.org/zap"
)

// Notifier receives an account and its freshly created or refreshed
// verification code and delivers it on whatever channel it implements.
type Notifier interface {
	Notify(purpose model.Purpose, acct *model.Account, c *model.VerificationCode)
}

// Router picks a channel per account: mail when the account has an
// email address, SMS otherwise. Change flows always target the pending
// new value carried in the code payload.
type Router struct {
	Mail Notifier
	SMS  Notifier
}

func (r *Router) Notify(purpose model.Purpose, acct *model.Account, c *model.VerificationCode) {
	switch purpose {
	case model.PurposeEmailChange:
		r.Mail.Notify(purpose, acct, c)
	case model.PurposePhoneNumberChange:
		r.SMS.Notify(purpose, acct, c)
	default:
		if acct.Email != nil {
			r.Mail.Notify(purpose, acct, c)
		} else {
			r.SMS.Notify(purpose, acct, c)
		}
	}
}

// LogSink is the fallback sink used when no SMS gateway is configured.
// It logs the short code instead of delivering it, which is what local
// development runs want anyway.
type LogSink struct{}

func (LogSink) Notify(purpose model.Purpose, acct *model.Account, c *model.VerificationCode) {
	short, err := code.ShortCode(c)
	if err != nil {
		zap.L().Error("Failed to derive short code", zap.Error(err), zap.String("accountID", acct.ID))
		return
	}

	zap.L().Info("Verification code issued (no SMS gateway configured)",
		zap.String("accountID", acct.ID),
		zap.String("purpose", string(purpose)),
		zap.String("shortCode", short),
	)
}
