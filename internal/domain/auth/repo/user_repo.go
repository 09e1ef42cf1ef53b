package repo

import (
	"context"
	"time"

	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	GetUserByGoogleID(ctx context.Context, googleID string) (model.User, error)

	UpdateUser(ctx context.Context, u model.User) error

	// MarkVerified выполняет атомарный переход PendingVerification → Verified:
	// одной командой проверяет код и, если он всё ещё актуален, очищает
	// challenge и выставляет is_verified. Возвращает ErrNotFound, если код
	// уже заменён, очищен или аккаунт не существует.
	MarkVerified(ctx context.Context, id uuid.UUID, code string) error

	// ReplaceChallenge безусловно перезаписывает текущий код: старый код
	// после этого недействителен, даже если его срок ещё не истёк.
	ReplaceChallenge(ctx context.Context, id uuid.UUID, ch model.OTPChallenge) error

	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error

	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// ThrottleRepo ограничивает частоту повторной отправки кода.
type ThrottleRepo interface {
	// Acquire возвращает false, если ключ уже занят (кулдаун ещё идёт).
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
