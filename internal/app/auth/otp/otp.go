package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
)

const codeSpace = 1_000_000

type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeAlreadyVerified
	OutcomeNoChallenge
	OutcomeMismatch
	OutcomeExpired
)

type Generator struct {
	ttl time.Duration
}

func NewGenerator(ttl time.Duration) *Generator {
	return &Generator{ttl: ttl}
}

func (g *Generator) TTL() time.Duration {
	return g.ttl
}

// Issue выдаёт равномерно случайный 6-значный код (ведущие нули сохраняются)
// и срок действия now+TTL.
func (g *Generator) Issue(now time.Time) (model.OTPChallenge, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return model.OTPChallenge{}, customErrors.WrapInternal(err, "generate otp")
	}
	return model.OTPChallenge{
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: now.Add(g.ttl),
	}, nil
}

// Check классифицирует попытку верификации. Уже верифицированный аккаунт
// распознаётся раньше отсутствующего challenge: после успешной верификации
// challenge всегда очищен, и повторная отправка того же кода должна давать
// идемпотентный AlreadyVerified. Несовпадение кода проверяется раньше
// истечения срока.
func Check(u model.User, supplied string, now time.Time) Outcome {
	if u.IsVerified {
		return OutcomeAlreadyVerified
	}
	if u.OTP == nil {
		return OutcomeNoChallenge
	}
	if strings.TrimSpace(supplied) != u.OTP.Code {
		return OutcomeMismatch
	}
	if u.OTP.ExpiredAt(now) {
		return OutcomeExpired
	}
	return OutcomeValid
}
