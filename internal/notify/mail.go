package notify

import (
	"fmt"

	"bitflow/identity-api/internal/code"
	"bitflow/identity-api/internal/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var mailSubjects = map[model.Purpose]string{
	model.PurposeSignup:        "Verify your account",
	model.PurposePasswordReset: "Reset your password",
	model.PurposeEmailChange:   "Confirm your new email address",
}

// Mailer delivers verification codes over SMTP.
type Mailer struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

func NewMailer() *Mailer {
	return &Mailer{
		Host:     viper.GetString("mail.host"),
		Port:     viper.GetInt("mail.port"),
		Sender:   viper.GetString("mail.sender"),
		Password: viper.GetString("mail.password"),
	}
}

func (m *Mailer) Notify(purpose model.Purpose, acct *model.Account, c *model.VerificationCode) {
	sendTo := recipient(purpose, acct, c)
	if sendTo == "" {
		zap.L().Error("No email address to deliver code to",
			zap.String("accountID", acct.ID), zap.String("purpose", string(purpose)))
		return
	}

	short, err := code.ShortCode(c)
	if err != nil {
		zap.L().Error("Failed to derive short code", zap.Error(err), zap.String("accountID", acct.ID))
		return
	}

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	link := fmt.Sprintf("%s://%s/verify?account_id=%s&code=%s",
		scheme, viper.GetString("host.domain"), acct.ID, code.LongCode(c))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("To", sendTo)
	msg.SetHeader("Subject", mailSubjects[purpose])
	msg.SetBody("text/html", fmt.Sprintf(
		"Click <a href='%s'>here</a>, or enter the code <b>%s</b> manually.<br><br>"+
			"The code expires in 30 minutes.", link, short))

	d := gomail.NewDialer(m.Host, m.Port, m.Sender, m.Password)

	if err := d.DialAndSend(msg); err != nil {
		zap.L().Error("Failed to send verification mail",
			zap.Error(err), zap.String("accountID", acct.ID), zap.String("purpose", string(purpose)))
	}
}

// recipient returns the address a code should go to. Email changes are
// verified against the pending address on the code row, not whatever
// the account currently holds.
func recipient(purpose model.Purpose, acct *model.Account, c *model.VerificationCode) string {
	if purpose == model.PurposeEmailChange && c.Payload != nil {
		return *c.Payload
	}

	if acct.Email != nil {
		return *acct.Email
	}

	return ""
}
