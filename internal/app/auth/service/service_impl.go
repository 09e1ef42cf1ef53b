package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Miraines/Connecto/auth-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/Connecto/auth-service/internal/app/auth/google"
	"github.com/Miraines/Connecto/auth-service/internal/app/auth/otp"
	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/jwt"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/model"
	"github.com/Miraines/Connecto/auth-service/internal/domain/auth/notify"
	repo "github.com/Miraines/Connecto/auth-service/internal/domain/auth/repo"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

const defaultAvatarURL = "https://via.placeholder.com/150"

type authService struct {
	userRepo repo.UserRepo
	throttle repo.ThrottleRepo
	jwtUtil  jwt.JWTUtil
	notifier notify.Notifier
	gverify  google.Verifier
	otpGen   *otp.Generator
	cfg      *config.Config
	v        *validator.Validate
	log      *zap.Logger
}

type Service interface {
	Signup(context.Context, dto.SignupDTO) (dto.SignupResult, error)
	VerifyOTP(context.Context, dto.VerifyOTPDTO) (dto.VerifyResult, error)
	ResendOTP(context.Context, dto.ResendOTPDTO) error
	Login(context.Context, dto.LoginDTO) (dto.LoginResult, error)
	Refresh(context.Context, dto.RefreshDTO) (dto.RefreshResult, error)
	Authorize(ctx context.Context, accessToken string, required model.Role) (model.User, error)
	GoogleAuth(context.Context, dto.GoogleAuthDTO) (dto.LoginResult, error)
	UpdateRole(ctx context.Context, userID string, role model.Role) error
}

func New(
	ur repo.UserRepo,
	tr repo.ThrottleRepo,
	jm jwt.JWTUtil,
	nt notify.Notifier,
	gv google.Verifier,
	og *otp.Generator,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, throttle: tr, jwtUtil: jm, notifier: nt,
		gverify: gv, otpGen: og, cfg: cfg, v: v, log: log,
	}
}

func (a *authService) Signup(ctx context.Context, in dto.SignupDTO) (dto.SignupResult, error) {
	if err := a.v.Struct(in); err != nil {
		return dto.SignupResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	email := normalizeEmail(in.Email)

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return dto.SignupResult{}, customErrors.WrapInternal(err, "Signup")
	}

	challenge, err := a.otpGen.Issue(time.Now())
	if err != nil {
		return dto.SignupResult{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: passwordHash,
		IsVerified:   false,
		OTP:          &challenge,
		AvatarURL:    defaultAvatarURL,
		Role:         model.RoleUser,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return dto.SignupResult{}, customErrors.ErrAlreadyExists
		}
		return dto.SignupResult{}, customErrors.WrapInternal(err, "Signup")
	}

	a.notifyOTP(ctx, user, challenge)

	return dto.SignupResult{UserID: user.ID.String(), Email: user.Email}, nil
}

func (a *authService) VerifyOTP(ctx context.Context, in dto.VerifyOTPDTO) (dto.VerifyResult, error) {
	if err := a.v.Struct(in); err != nil {
		return dto.VerifyResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	uid, err := uuid.Parse(in.UserID)
	if err != nil {
		return dto.VerifyResult{}, customErrors.NewInvalidArgument("malformed user id")
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return dto.VerifyResult{}, customErrors.ErrNotFound
		}
		return dto.VerifyResult{}, customErrors.WrapInternal(err, "VerifyOTP")
	}

	switch otp.Check(user, in.OTP, time.Now()) {
	case otp.OutcomeAlreadyVerified:
		return dto.VerifyResult{AlreadyVerified: true}, nil
	case otp.OutcomeNoChallenge, otp.OutcomeMismatch:
		return dto.VerifyResult{}, customErrors.ErrInvalidCode
	case otp.OutcomeExpired:
		return dto.VerifyResult{}, customErrors.ErrCodeExpired
	}

	// Единственный атомарный переход: очистка challenge и выставление
	// is_verified происходят одной командой с проверкой кода на месте.
	err = a.userRepo.MarkVerified(ctx, uid, user.OTP.Code)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Проиграли гонку: либо параллельный submit уже верифицировал,
		// либо resend успел заменить код.
		fresh, rerr := a.userRepo.GetUserByID(ctx, uid)
		if rerr == nil && fresh.IsVerified {
			return dto.VerifyResult{AlreadyVerified: true}, nil
		}
		return dto.VerifyResult{}, customErrors.ErrInvalidCode
	case err != nil:
		return dto.VerifyResult{}, customErrors.WrapInternal(err, "VerifyOTP")
	}

	a.log.Info("account verified", zap.String("user_id", uid.String()))
	return dto.VerifyResult{}, nil
}

func (a *authService) ResendOTP(ctx context.Context, in dto.ResendOTPDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	uid, err := uuid.Parse(in.UserID)
	if err != nil {
		return customErrors.NewInvalidArgument("malformed user id")
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return customErrors.ErrNotFound
		}
		return customErrors.WrapInternal(err, "ResendOTP")
	}
	if user.IsVerified {
		return customErrors.ErrAlreadyVerified
	}

	if a.throttle != nil {
		ok, terr := a.throttle.Acquire(ctx, "resend:"+uid.String(), a.cfg.OTPResendCooldown)
		if terr != nil {
			// Доставка кода важнее строгого лимита: при недоступном
			// хранилище пропускаем.
			a.log.Warn("resend throttle unavailable", zap.Error(terr))
		} else if !ok {
			return customErrors.ErrTooManyRequests
		}
	}

	challenge, err := a.otpGen.Issue(time.Now())
	if err != nil {
		return err
	}

	// Старый код становится недействительным сразу, даже не истёкший.
	if err := a.userRepo.ReplaceChallenge(ctx, uid, challenge); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			// Кто-то успел верифицировать аккаунт между чтением и записью.
			return customErrors.ErrAlreadyVerified
		}
		return customErrors.WrapInternal(err, "ResendOTP")
	}

	a.notifyOTP(ctx, user, challenge)
	return nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (dto.LoginResult, error) {
	if err := a.v.Struct(in); err != nil {
		return dto.LoginResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, normalizeEmail(in.Email))
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Неизвестная почта и неверный пароль неразличимы снаружи.
		return dto.LoginResult{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return dto.LoginResult{}, customErrors.WrapInternal(err, "Login")
	}

	// У федеративного аккаунта пароля нет — парольный вход закрыт.
	if !user.HasPassword() {
		return dto.LoginResult{}, customErrors.ErrInvalidCredentials
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return dto.LoginResult{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return dto.LoginResult{}, customErrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return dto.LoginResult{}, customErrors.NewNotVerified(user.ID.String())
	}

	return a.issueSession(user)
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (dto.RefreshResult, error) {
	if err := a.v.Struct(in); err != nil {
		return dto.RefreshResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.jwtUtil.ValidateRefreshToken(in.RefreshToken)
	if err != nil {
		return dto.RefreshResult{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return dto.RefreshResult{}, customErrors.ErrInvalidToken
	}

	// Неистёкший refresh обслуживается даже для исчезнувшего аккаунта;
	// роль тогда деградирует до базовой. Authorize всё равно разрешает
	// актуальную роль по хранилищу.
	role := model.RoleUser
	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case err == nil:
		role = user.Role
	case errors.Is(err, customErrors.ErrNotFound):
	default:
		return dto.RefreshResult{}, customErrors.WrapInternal(err, "Refresh")
	}

	at, atExp, err := a.jwtUtil.GenerateAccessToken(uid, role)
	if err != nil {
		return dto.RefreshResult{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}

	return dto.RefreshResult{
		AccessToken: at,
		ExpiresIn:   int(time.Until(atExp).Seconds()),
	}, nil
}

func (a *authService) Authorize(ctx context.Context, accessToken string, required model.Role) (model.User, error) {
	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return model.User{}, customErrors.ErrUnauthenticated
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.User{}, customErrors.ErrUnauthenticated
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.ErrUnauthenticated
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "Authorize")
	}

	if !user.Role.AtLeast(required) {
		return model.User{}, customErrors.ErrForbidden
	}
	return user, nil
}

func (a *authService) GoogleAuth(ctx context.Context, in dto.GoogleAuthDTO) (dto.LoginResult, error) {
	if err := a.v.Struct(in); err != nil {
		return dto.LoginResult{}, customErrors.NewInvalidArgument(err.Error())
	}

	profile, err := a.gverify.Exchange(ctx, in.Code)
	if err != nil {
		return dto.LoginResult{}, err
	}

	user, err := a.userRepo.GetUserByGoogleID(ctx, profile.Subject)
	switch {
	case err == nil:
		if applyProfile(&user, profile) {
			if uerr := a.userRepo.UpdateUser(ctx, user); uerr != nil {
				return dto.LoginResult{}, customErrors.WrapInternal(uerr, "UpdateUser")
			}
		}

	case errors.Is(err, customErrors.ErrNotFound):
		first, last := splitName(profile.Name)
		user = model.User{
			ID:        uuid.New(),
			FirstName: first,
			LastName:  last,
			Email:     normalizeEmail(profile.Email),
			GoogleID:  profile.Subject,
			// Провайдер уже подтвердил владение почтой.
			IsVerified: true,
			AvatarURL:  nonEmpty(profile.Picture, defaultAvatarURL),
			Role:       model.RoleUser,
		}
		if _, cerr := a.userRepo.CreateUser(ctx, user); cerr != nil {
			if errors.Is(cerr, customErrors.ErrAlreadyExists) {
				return dto.LoginResult{}, customErrors.ErrAlreadyExists
			}
			return dto.LoginResult{}, customErrors.WrapInternal(cerr, "CreateUser")
		}

	default:
		return dto.LoginResult{}, customErrors.WrapInternal(err, "GetUserByGoogleID")
	}

	return a.issueSession(user)
}

func (a *authService) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return customErrors.NewInvalidArgument("malformed user id")
	}
	if !role.Valid() {
		return customErrors.NewInvalidArgument("unknown role")
	}

	if err := a.userRepo.UpdateRole(ctx, uid, role); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return customErrors.ErrNotFound
		}
		return customErrors.WrapInternal(err, "UpdateRole")
	}
	return nil
}

func (a *authService) issueSession(user model.User) (dto.LoginResult, error) {
	at, atExp, err := a.jwtUtil.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return dto.LoginResult{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, _, err := a.jwtUtil.GenerateRefreshToken(user.ID)
	if err != nil {
		return dto.LoginResult{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	return dto.LoginResult{
		AccessToken:  at,
		RefreshToken: rt,
		ExpiresIn:    int(time.Until(atExp).Seconds()),
		User:         ToUserView(user),
	}, nil
}

// notifyOTP — best-effort: ограничен таймаутом и не влияет на исход
// операции. Таймаут отвязан от запроса, чтобы ответ клиенту не ждал
// почтовый сервер дольше положенного.
func (a *authService) notifyOTP(ctx context.Context, user model.User, ch model.OTPChallenge) {
	if a.notifier == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.NotifyTimeout)
	defer cancel()

	if err := a.notifier.SendOTP(sendCtx, notify.OTPMessage{
		Email: user.Email,
		Name:  user.Name(),
		Code:  ch.Code,
		TTL:   a.otpGen.TTL(),
	}); err != nil {
		a.log.Warn("otp delivery failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

func ToUserView(u model.User) dto.UserView {
	return dto.UserView{
		ID:         u.ID.String(),
		Name:       u.Name(),
		Email:      u.Email,
		Avatar:     u.AvatarURL,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyProfile(u *model.User, p google.Profile) (changed bool) {
	first, last := splitName(p.Name)
	if first != "" && u.FirstName != first {
		u.FirstName, changed = first, true
	}
	if last != "" && u.LastName != last {
		u.LastName, changed = last, true
	}
	if p.Picture != "" && u.AvatarURL != p.Picture {
		u.AvatarURL = p.Picture
		changed = true
	}
	return
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
