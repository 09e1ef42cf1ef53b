package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

var roleLevels = map[Role]int{
	RoleUser:    1,
	RolePremium: 2,
	RoleAdmin:   3,
}

// Level возвращает 0 для неизвестной роли, поэтому сравнение
// с любой валидной ролью всегда проигрывает.
func (r Role) Level() int {
	return roleLevels[r]
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

func (r Role) AtLeast(required Role) bool {
	return r.Valid() && required.Valid() && r.Level() >= required.Level()
}

// OTPChallenge хранится только пока верификация не завершена:
// код и срок действия живут и очищаются вместе.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

func (c OTPChallenge) ExpiredAt(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	GoogleID     string
	IsVerified   bool
	OTP          *OTPChallenge
	AvatarURL    string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) Name() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasPassword: федеративные аккаунты пароля не имеют вовсе.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
}
