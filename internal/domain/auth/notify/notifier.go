package notify

import (
	"context"
	"time"
)

// OTPMessage описывает письмо с кодом подтверждения.
type OTPMessage struct {
	Email string
	Name  string
	Code  string
	TTL   time.Duration
}

// Notifier доставляет код на почту пользователя. Оркестратор вызывает его
// best-effort: ошибка доставки никогда не отменяет саму операцию.
type Notifier interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
}
