package notifier

import (
	"errors"
	"fmt"

	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/notify"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
)

// New выбирает реализацию по конфигурации.
func New(cfg *config.Config) (notify.Notifier, error) {
	switch cfg.EmailProvider {
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" || cfg.EmailFrom == "" {
			return nil, errors.New("invalid smtp configuration")
		}
		return &SMTPNotifier{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		}, nil
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunKey == "" || cfg.EmailFrom == "" {
			return nil, errors.New("invalid mailgun configuration")
		}
		return NewMailgunNotifier(cfg.MailgunDomain, cfg.MailgunKey, cfg.EmailFrom), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

func subject() string {
	return "Connecto - Verify Your Account"
}

func body(msg notify.OTPMessage) string {
	return fmt.Sprintf(
		"Hi %s!\n\n"+
			"Thank you for joining Connecto. To complete your registration, please use the verification code below:\n\n"+
			"    %s\n\n"+
			"This code will expire in %d minutes.\n"+
			"If you didn't create a Connecto account, please ignore this email.\n",
		msg.Name, msg.Code, int(msg.TTL.Minutes()),
	)
}
