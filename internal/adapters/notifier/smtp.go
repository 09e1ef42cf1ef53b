package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/notify"
)

type SMTPNotifier struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (s *SMTPNotifier) SendOTP(ctx context.Context, msg notify.OTPMessage) error {
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	raw := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.From, msg.Email, subject(), body(msg),
	))

	// net/smtp не принимает context: гоняем отправку в горутине и
	// уважаем таймаут вызывающего.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{msg.Email}, raw)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
