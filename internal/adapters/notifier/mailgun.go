package notifier

import (
	"context"

	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/notify"
	"github.com/mailgun/mailgun-go/v4"
)

type MailgunNotifier struct {
	mg   *mailgun.MailgunImpl
	from string
}

func NewMailgunNotifier(domain, key, from string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:   mailgun.NewMailgun(domain, key),
		from: from,
	}
}

func (m *MailgunNotifier) SendOTP(ctx context.Context, msg notify.OTPMessage) error {
	message := m.mg.NewMessage(m.from, subject(), body(msg), msg.Email)
	_, _, err := m.mg.Send(ctx, message)
	return err
}
