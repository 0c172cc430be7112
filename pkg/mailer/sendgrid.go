package mailer

import (
	"context"
	"fmt"

	"consult-booking/pkg/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type sendgridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
	sandbox  bool
	log      *zap.Logger
}

func NewSendgridMailer(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &sendgridMailer{
		client:   sendgrid.NewSendClient(config.APIKey),
		from:     config.From,
		fromName: config.FromName,
		sandbox:  config.Sandbox,
		log:      log.With(zap.String("mailer", "sendgrid")),
	}
}

func (m *sendgridMailer) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(m.fromName, m.from)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), body, body)

	if m.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("%w: send to %s: %v", utils.ErrMailer, to, err)
	}

	if resp.StatusCode >= 400 {
		m.log.Error("SendGrid rejected email",
			zap.Int("status", resp.StatusCode),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("%w: sendgrid status %d for %s", utils.ErrMailer, resp.StatusCode, to)
	}

	m.log.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	return nil
}
