package google

import (
	"context"
	"encoding/json"
	"net/http"

	customErrors "github.com/Miraines/Connecto/auth-service/internal/domain/auth/errors"
	"github.com/Miraines/Connecto/auth-service/internal/infra/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile — подтверждённый Google профиль. Subject уникален в рамках
// провайдера, почта уже верифицирована на его стороне.
type Profile struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Verifier interface {
	Exchange(ctx context.Context, code string) (Profile, error)
}

type OAuthVerifier struct {
	cfg *oauth2.Config
}

func NewOAuthVerifier(cfg *config.Config) *OAuthVerifier {
	return &OAuthVerifier{
		cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Exchange меняет authorization code на профиль. Любая ошибка обмена —
// невалидные учётные данные, а не внутренняя: код мог истечь или быть
// подделан.
func (v *OAuthVerifier) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := v.cfg.Exchange(ctx, code)
	if err != nil {
		return Profile{}, customErrors.ErrInvalidCredentials
	}

	resp, err := v.cfg.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return Profile{}, customErrors.WrapInternal(err, "google userinfo")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, customErrors.ErrInvalidCredentials
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, customErrors.WrapInternal(err, "decode userinfo")
	}
	if p.Subject == "" || p.Email == "" {
		return Profile{}, customErrors.ErrInvalidCredentials
	}
	return p, nil
}
