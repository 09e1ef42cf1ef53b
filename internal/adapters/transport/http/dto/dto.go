package dto

type SignupDTO struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
}

type VerifyOTPDTO struct {
	UserID string `json:"userId" validate:"required,uuid"`
	OTP    string `json:"otp"    validate:"required"`
}

type ResendOTPDTO struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type GoogleAuthDTO struct {
	Code string `json:"code" validate:"required"`
}

type UpdateRoleDTO struct {
	Role string `json:"role" validate:"required,oneof=user premium admin"`
}

// UserView — публичная проекция аккаунта. Хэш пароля сюда не попадает
// никогда.
type UserView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

type SignupResult struct {
	UserID string
	Email  string
}

type VerifyResult struct {
	AlreadyVerified bool
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         UserView
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
}
