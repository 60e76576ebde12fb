package schoolstats

import (
	"context"
	"fmt"
	"net/smtp"

	"edustats-backend/lib/timezone"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

// Mailer sends operator alerts when a refresh fails with nothing
// cached to fall back on.
type Mailer struct {
	config SmtpConfig
}

func NewMailer(config SmtpConfig) *Mailer {
	return &Mailer{config: config}
}

func (m *Mailer) SendFailureAlert(ctx context.Context, cause error) error {
	_, span := tracer.Start(ctx, "SendFailureAlert")
	defer span.End()

	mail := email.NewEmail()
	mail.From = m.config.EmailAddress
	mail.To = m.config.Recipients
	mail.Subject = "學校統計資料更新失敗"
	mail.Text = []byte(fmt.Sprintf(
		`The school statistics refresh failed at %s with no cached data to serve.

Cause: %s`,
		timezone.Now().Format("2006-01-02 15:04:05"),
		cause,
	))

	err := mail.Send(
		fmt.Sprintf("%s:%d", m.config.Server, m.config.Port),
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send alert email")
		return err
	}
	return nil
}
