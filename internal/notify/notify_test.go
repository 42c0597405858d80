package notify

import (
	"testing"

	"bitflow/identity-api/internal/model"

	"github.com/stretchr/testify/assert"
)

type channelRecorder struct {
	hits int
}

func (r *channelRecorder) Notify(model.Purpose, *model.Account, *model.VerificationCode) {
	r.hits++
}

func TestRouterPicksChannelByPurposeAndAccount(t *testing.T) {
	email := "a@x.com"
	c := &model.VerificationCode{}

	cases := []struct {
		name     string
		purpose  model.Purpose
		acct     *model.Account
		wantMail bool
	}{
		{"email change always mails", model.PurposeEmailChange, &model.Account{}, true},
		{"phone change always texts", model.PurposePhoneNumberChange, &model.Account{Email: &email}, false},
		{"signup with email mails", model.PurposeSignup, &model.Account{Email: &email}, true},
		{"signup without email texts", model.PurposeSignup, &model.Account{}, false},
		{"reset with email mails", model.PurposePasswordReset, &model.Account{Email: &email}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mail := &channelRecorder{}
			sms := &channelRecorder{}
			r := &Router{Mail: mail, SMS: sms}

			r.Notify(tc.purpose, tc.acct, c)

			if tc.wantMail {
				assert.Equal(t, 1, mail.hits)
				assert.Zero(t, sms.hits)
			} else {
				assert.Equal(t, 1, sms.hits)
				assert.Zero(t, mail.hits)
			}
		})
	}
}
