package scheduler

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type AlertConfig struct {
	Smtp SmtpConfig `json:"smtp"`
	// operators who get mailed when a run fails all its attempts
	Recipients []string `json:"recipients"`
}

type Alerter struct {
	config AlertConfig
}

func NewAlerter(config AlertConfig) Alerter {
	return Alerter{config: config}
}

// Enabled reports whether alerting is configured at all. An empty
// recipient list disables it.
func (a Alerter) Enabled() bool {
	return len(a.config.Recipients) > 0 && a.config.Smtp.Server != ""
}

// SendRunFailure mails the operators that a scrape run exhausted its
// retries. The displayed content keeps serving from the previous
// snapshots, so this is informational rather than urgent.
func (a Alerter) SendRunFailure(ctx context.Context, startedAt time.Time, result RunResult) error {
	ctx, span := tracer.Start(ctx, "SendRunFailure")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Noticeboard <%s>", a.config.Smtp.EmailAddress)
	mail.To = a.config.Recipients
	mail.Subject = "Noticeboard scrape run failed"

	body := fmt.Sprintf(`The scrape run started at %s failed after %d attempts.

%v

The kiosk keeps serving the previous snapshots until a later run succeeds.`,
		startedAt.Format(time.RFC1123), result.Attempts, result.Err)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", a.config.Smtp.Server, a.config.Smtp.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", a.config.Smtp.EmailAddress, a.config.Smtp.Password, a.config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send alert email")
		return err
	}
	return nil
}
